package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
	"github.com/pluqqy/gridkit/pkg/testhelpers"
	"github.com/pluqqy/gridkit/pkg/tui"
)

// execute runs cmd with args, answering prompts with stdin, and returns
// everything it printed.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	restore := cli.SetStreams(strings.NewReader(stdin), buf, buf)
	defer restore()

	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// withOutput adds the -o flag main registers on the root command
func withOutput(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().StringP("output", "o", "text", "")
	return cmd
}

func newProject(t *testing.T) *testhelpers.TestEnvironment {
	t.Helper()
	env := testhelpers.NewTestEnvironment(t)
	env.InitProject()
	env.CreateTable(testhelpers.PeopleTable())
	return env
}

// storedRows reads a table back from disk as text cells
func storedRows(t *testing.T, name string) [][]string {
	t.Helper()
	table, err := files.ReadTable(name)
	require.NoError(t, err)
	var out [][]string
	for _, row := range table.Rows {
		var cells []string
		for _, v := range row {
			cells = append(cells, dataset.Format(v))
		}
		out = append(out, cells)
	}
	return out
}

func TestCommands_NoDirectory(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.ChangeToTempDir()

	commands := []struct {
		cmd  *cobra.Command
		args []string
	}{
		{NewListCommand(), nil},
		{NewShowCommand(), []string{"people"}},
		{NewSetCommand(), []string{"people", "1", "name=x"}},
		{NewAddCommand(), []string{"people"}},
		{NewRemoveCommand(), []string{"people", "1"}},
		{NewExportCommand(), []string{"people"}},
		{NewQueryCommand(), []string{"SELECT 1"}},
		{NewOpenCommand(), nil},
		{NewExamplesCommand(), nil},
	}
	for _, c := range commands {
		t.Run(c.cmd.Name(), func(t *testing.T) {
			_, err := execute(t, c.cmd, "", c.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "no .gridkit directory found")
		})
	}
}

func TestListCommand(t *testing.T) {
	env := newProject(t)
	env.CreateTable(&models.Table{
		Name:   "tags",
		Fields: []models.FieldSpec{{Name: "tag"}},
		Rows:   [][]any{{"go"}},
	})

	out, err := execute(t, withOutput(NewListCommand()), "")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "people")
	assert.Contains(t, out, "tags")
	assert.Contains(t, out, "2 table(s)")

	out, err = execute(t, withOutput(NewListCommand()), "", "-o", "json")
	require.NoError(t, err)
	var result ListResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, ListItem{Name: "people", Fields: 2, Rows: 2, IDField: "id"}, result.Tables[0])
}

func TestListCommand_Empty(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.InitProject()

	out, err := execute(t, NewListCommand(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "No tables found")
}

func TestShowCommand(t *testing.T) {
	newProject(t)

	tests := []struct {
		name  string
		args  []string
		first string
		then  string
	}{
		{"stored order", []string{"people"}, "bob", "alice"},
		{"by name", []string{"people", "--order", "name"}, "alice", "bob"},
		{"by id descending", []string{"people", "--order", "id:desc"}, "alice", "bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, withOutput(NewShowCommand()), "", tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "2 row(s)")
			require.Contains(t, out, tt.first)
			require.Contains(t, out, tt.then)
			assert.Less(t, strings.Index(out, tt.first), strings.Index(out, tt.then))
		})
	}
}

func TestShowCommand_Structured(t *testing.T) {
	newProject(t)

	out, err := execute(t, withOutput(NewShowCommand()), "", "people", "--order", "name", "--limit", "1", "-o", "json")
	require.NoError(t, err)

	var result ShowResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "people", result.Table)
	assert.Equal(t, "name", result.Order)
	assert.Equal(t, []string{"id", "name"}, result.Fields)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []map[string]any{{"id": 2.0, "name": "alice"}}, result.Rows)
}

func TestShowCommand_Errors(t *testing.T) {
	newProject(t)

	_, err := execute(t, withOutput(NewShowCommand()), "", "people", "--order", "age")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order")

	_, err = execute(t, withOutput(NewShowCommand()), "", "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, files.ErrTableNotFound)
}

func TestShowCommand_Where(t *testing.T) {
	newProject(t)

	out, err := execute(t, withOutput(NewShowCommand()), "", "people", "--where", "name:ali", "-o", "json")
	require.NoError(t, err)
	var result ShowResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []map[string]any{{"id": 2.0, "name": "alice"}}, result.Rows)

	out, err = execute(t, withOutput(NewShowCommand()), "", "people", "-w", "id:>5")
	require.NoError(t, err)
	assert.Contains(t, out, "0 row(s)")

	_, err = execute(t, withOutput(NewShowCommand()), "", "people", "--where", "age:>5")
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrUnknownField)
}

func TestSetCommand(t *testing.T) {
	newProject(t)

	out, err := execute(t, NewSetCommand(), "", "people", "2", "name=carol")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated row 2 of people")
	assert.Equal(t, [][]string{{"1", "bob"}, {"2", "carol"}}, storedRows(t, "people"))

	out, err = execute(t, NewSetCommand(), "", "people", "2", "name=carol")
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged")
}

func TestSetCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"read-only field", []string{"people", "1", "id=7"}, "read only"},
		{"unknown field", []string{"people", "1", "age=7"}, "unknown field"},
		{"unknown row", []string{"people", "9", "name=x"}, "row 9 not found"},
		{"bad assignment", []string{"people", "1", "name"}, "expected field=value"},
		{"null", []string{"people", "1", "name="}, "NULL not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newProject(t)
			_, err := execute(t, NewSetCommand(), "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, [][]string{{"1", "bob"}, {"2", "alice"}}, storedRows(t, "people"))
		})
	}
}

func TestAddCommand(t *testing.T) {
	newProject(t)

	out, err := execute(t, NewAddCommand(), "", "people", "name=dave")
	require.NoError(t, err)
	assert.Contains(t, out, "Added row 3 to people")
	assert.Equal(t, [][]string{{"1", "bob"}, {"2", "alice"}, {"3", "dave"}}, storedRows(t, "people"))

	_, err = execute(t, NewAddCommand(), "", "people")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: NULL not allowed")
	assert.Len(t, storedRows(t, "people"), 3)
}

func TestAddCommand_ReadOnlyTable(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.InitProject()
	table := testhelpers.PeopleTable()
	table.NoAdd = true
	env.CreateTable(table)

	_, err := execute(t, NewAddCommand(), "", "people", "name=dave")
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrCannotAdd)
}

func TestRemoveCommand(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   [][]string
		output string
	}{
		{"confirmed", "y\n", [][]string{{"2", "alice"}}, "Removed 1 row(s) from people"},
		{"cancelled", "n\n", [][]string{{"1", "bob"}, {"2", "alice"}}, "Remove cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newProject(t)
			out, err := execute(t, NewRemoveCommand(), tt.answer, "people", "1")
			require.NoError(t, err)
			assert.Contains(t, out, tt.output)
			assert.Equal(t, tt.want, storedRows(t, "people"))
		})
	}
}

func TestExportCommand_TSV(t *testing.T) {
	newProject(t)

	out, err := execute(t, NewExportCommand(), "", "people", "--format", "tsv", "--order", "name")
	require.NoError(t, err)
	assert.Equal(t, "id\tname\n2\talice\n1\tbob\n", out)
}

func TestExportCommand_Where(t *testing.T) {
	newProject(t)

	out, err := execute(t, NewExportCommand(), "", "people", "--format", "tsv", "--where", "bob OR id:=2", "--order", "id:desc")
	require.NoError(t, err)
	assert.Equal(t, "id\tname\n2\talice\n1\tbob\n", out)

	out, err = execute(t, NewExportCommand(), "", "people", "--format", "tsv", "--where", "NOT bob")
	require.NoError(t, err)
	assert.Equal(t, "id\tname\n2\talice\n", out)
}

func TestExportCommand_Markdown(t *testing.T) {
	newProject(t)

	out, err := execute(t, NewExportCommand(), "", "people", "--format", "markdown", "--order", "name")
	require.NoError(t, err)
	assert.Equal(t, "# Table: people\n\n_Sorted by name_\n\n| id | name |\n| ---: | --- |\n| 2 | alice |\n| 1 | bob |\n", out)

	out, err = execute(t, NewExportCommand(), "", "people", "--format", "markdown", "--group-by", "name")
	require.NoError(t, err)
	assert.Contains(t, out, "## name: bob\n\n| id |\n| ---: |\n| 1 |\n")

	_, err = execute(t, NewExportCommand(), "", "people", "--format", "markdown", "--group-by", "team")
	assert.ErrorIs(t, err, dataset.ErrUnknownField)
}

func TestExportCommand_Clipboard(t *testing.T) {
	newProject(t)
	var copied string
	old := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	defer func() { copyToClipboard = old }()

	out, err := execute(t, NewExportCommand(), "", "people", "--format", "tsv", "--clipboard")
	require.NoError(t, err)
	assert.Contains(t, out, "copied to clipboard (2 rows)")
	assert.Equal(t, "id\tname\n1\tbob\n2\talice\n", copied)
}

func TestExportImport_RoundTrip(t *testing.T) {
	env := newProject(t)
	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(env.TempDir, "people."+format)
			_, err := execute(t, NewExportCommand(), "", "people", "--format", format, "--file", path)
			require.NoError(t, err)

			name := "copy-" + format
			out, err := execute(t, NewImportCommand(), "", path, "--name", name)
			require.NoError(t, err)
			assert.Contains(t, out, "Imported table '"+name+"' (2 fields, 2 rows)")

			imported, err := files.ReadTable(name)
			require.NoError(t, err)
			assert.Equal(t, "id", imported.IDField)
			assert.Equal(t, [][]string{{"1", "bob"}, {"2", "alice"}}, storedRows(t, name))
		})
	}
}

func TestImportCommand_Exists(t *testing.T) {
	env := newProject(t)
	path := filepath.Join(env.TempDir, "people.yaml")
	_, err := execute(t, NewExportCommand(), "", "people", "--file", path)
	require.NoError(t, err)

	_, err = execute(t, NewImportCommand(), "", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, NewImportCommand(), "y\n", path, "--replace")
	require.NoError(t, err)

	_, err = execute(t, NewImportCommand(), "", filepath.Join(env.TempDir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path does not exist")
}

func TestCreateCommand(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.InitProject()

	out, err := execute(t, NewCreateCommand(), "", "tasks", "--field", "id:number,title", "--field", "done:boolean", "--id", "id", "--order", "done")
	require.NoError(t, err)
	assert.Contains(t, out, "Created table 'tasks' with 3 field(s)")

	table, err := files.ReadTable("tasks")
	require.NoError(t, err)
	assert.Equal(t, "id", table.IDField)
	assert.Equal(t, "done", table.Order)
	require.Len(t, table.Fields, 3)
	assert.Equal(t, models.FieldSpec{Name: "id", Type: "number", AllowNull: true, ReadOnly: true}, table.Fields[0])
	assert.Equal(t, models.FieldSpec{Name: "title", AllowNull: true}, table.Fields[1])
	assert.Equal(t, "boolean", table.Fields[2].Type)

	_, err = execute(t, NewAddCommand(), "", "tasks", "title=write tests")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "write tests", ""}}, storedRows(t, "tasks"))
}

func TestCreateCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad type", []string{"t", "--field", "a:date"}, "invalid type"},
		{"bad field name", []string{"t", "--field", "a b"}, "invalid field name"},
		{"duplicate field", []string{"t", "--field", "a,a"}, "duplicate"},
		{"unknown id", []string{"t", "--field", "a", "--id", "b"}, "id field"},
		{"unknown order", []string{"t", "--field", "a", "--order", "b"}, "invalid order"},
		{"exists", []string{"people", "--field", "a"}, "already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newProject(t)
			_, err := execute(t, NewCreateCommand(), "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestQueryCommand(t *testing.T) {
	newProject(t)

	out, err := execute(t, withOutput(NewQueryCommand()), "", "SELECT name FROM people ORDER BY name")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Less(t, strings.Index(out, "alice"), strings.Index(out, "bob"))
	assert.Contains(t, out, "2 row(s)")

	out, err = execute(t, withOutput(NewQueryCommand()), "", "SELECT count(*) AS n FROM people", "-t", "people", "-o", "json")
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Equal(t, []map[string]any{{"n": 2.0}}, records)

	_, err = execute(t, withOutput(NewQueryCommand()), "", "SELECT * FROM nothing")
	require.Error(t, err)
}

func TestQueryCommand_Save(t *testing.T) {
	newProject(t)

	out, err := execute(t, withOutput(NewQueryCommand()), "", "SELECT id, upper(name) AS loud FROM people", "--save", "loud")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2 row(s) as table 'loud'")

	table, err := files.ReadTable("loud")
	require.NoError(t, err)
	assert.False(t, table.ReadOnly)
	assert.Equal(t, [][]string{{"1", "BOB"}, {"2", "ALICE"}}, storedRows(t, "loud"))
}

func TestArchiveAndRestore(t *testing.T) {
	newProject(t)

	out, err := execute(t, NewArchiveCommand(), "y\n", "people")
	require.NoError(t, err)
	assert.Contains(t, out, "Archived table: people")
	_, err = files.ReadTable("people")
	assert.ErrorIs(t, err, files.ErrTableNotFound)

	out, err = execute(t, withOutput(NewListCommand()), "", "--archived")
	require.NoError(t, err)
	assert.Contains(t, out, "people")

	out, err = execute(t, NewRestoreCommand(), "", "people")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored table: people")
	assert.Len(t, storedRows(t, "people"), 2)

	_, err = execute(t, NewRestoreCommand(), "", "people")
	assert.ErrorIs(t, err, files.ErrTableNotFound)
}

func TestDeleteCommand(t *testing.T) {
	newProject(t)

	out, err := execute(t, NewDeleteCommand(), "y\n", "people")
	require.NoError(t, err)
	assert.Contains(t, out, "restore with 'gridkit restore people'")
	_, err = os.Stat(files.ArchivedTablePath("people"))
	require.NoError(t, err)

	out, err = execute(t, NewDeleteCommand(), "y\n", "people", "--archived")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted archived table: people")
	_, err = os.Stat(files.ArchivedTablePath("people"))
	assert.True(t, os.IsNotExist(err))
}

func TestExamplesCommand(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.InitProject()

	out, err := execute(t, NewExamplesCommand(), "", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "[team]")
	assert.Contains(t, out, "[store]")
	assert.Contains(t, out, "example-products")

	out, err = execute(t, NewExamplesCommand(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Installed table example-people")
	assert.Contains(t, out, "Installed 2 table(s)")

	names, err := files.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"example-people", "example-projects"}, names)

	out, err = execute(t, NewExamplesCommand(), "", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped example-people")
	assert.Contains(t, out, "Installed 1 table(s), skipped 2")

	_, err = execute(t, NewExamplesCommand(), "", "all", "--force")
	require.NoError(t, err)

	_, err = execute(t, NewExamplesCommand(), "", "games")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category")
}

func TestBoltBackend(t *testing.T) {
	env := testhelpers.NewTestEnvironment(t)
	env.InitProject()
	settings := models.DefaultSettings()
	settings.Store.Backend = models.BackendBolt
	env.CreateSettings(settings)

	_, err := execute(t, NewCreateCommand(), "", "people", "--field", "id:number,name", "--id", "id")
	require.NoError(t, err)
	_, err = execute(t, NewAddCommand(), "", "people", "name=bob")
	require.NoError(t, err)
	out, err := execute(t, NewAddCommand(), "", "people", "name=alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Added row 2 to people")

	_, err = execute(t, NewSetCommand(), "", "people", "1", "name=robert")
	require.NoError(t, err)

	out, err = execute(t, withOutput(NewShowCommand()), "", "people", "--order", "name", "-o", "json")
	require.NoError(t, err)
	var result ShowResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []map[string]any{
		{"id": 2.0, "name": "alice"},
		{"id": 1.0, "name": "robert"},
	}, result.Rows)

	// the yaml tables directory is not used
	_, err = files.ReadTable("people")
	assert.ErrorIs(t, err, files.ErrTableNotFound)

	_, err = execute(t, NewArchiveCommand(), "y\n", "people")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bolt backend")

	_, err = execute(t, NewDeleteCommand(), "y\n", "people")
	require.NoError(t, err)
	out, err = execute(t, withOutput(NewListCommand()), "")
	require.NoError(t, err)
	assert.Contains(t, out, "No tables found")
}

func TestOpenCommand(t *testing.T) {
	env := newProject(t)

	var opened *tui.App
	old := runTUI
	runTUI = func(a *tui.App) error { opened = a; return nil }
	defer func() { runTUI = old }()

	_, err := execute(t, NewOpenCommand(), "")
	require.NoError(t, err)
	require.NotNil(t, opened)
	assert.Equal(t, 0, opened.Grid().Flags().Len())

	env.CreateTable(&models.Table{Name: "tags", Fields: []models.FieldSpec{{Name: "tag"}}, Rows: [][]any{}})
	_, err = execute(t, NewOpenCommand(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 tables found")

	opened = nil
	_, err = execute(t, NewOpenCommand(), "", "tags")
	require.NoError(t, err)
	assert.NotNil(t, opened)

	_, err = execute(t, NewOpenCommand(), "", "nothing")
	assert.ErrorIs(t, err, files.ErrTableNotFound)
}
