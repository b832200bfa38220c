// Package query runs SQL over tables loaded into an in-memory SQLite
// database.
package query

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pluqqy/gridkit/pkg/dataset"
	"github.com/pluqqy/gridkit/pkg/models"
)

// ResultName is the name given to query results.
const ResultName = "result"

// Run loads tables into a fresh database, runs code and returns the
// result set as a read-only table. Tables are addressed by name.
func Run(tables []*models.Table, code string) (*models.Table, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	defer db.Close()
	// every connection of :memory: is a separate database
	db.SetMaxOpenConns(1)

	for _, t := range tables {
		if err := load(db, t); err != nil {
			return nil, err
		}
	}

	rows, err := db.Query(code)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return scan(rows)
}

func sqlType(typ string) string {
	switch typ {
	case dataset.TypeNumber:
		return "REAL"
	case dataset.TypeBoolean:
		return "INTEGER"
	}
	return "TEXT"
}

func load(db *sql.DB, t *models.Table) error {
	fields, rows, err := t.Load()
	if err != nil {
		return fmt.Errorf("failed to load table %s: %w", t.Name, err)
	}

	colDefs := make([]string, len(fields))
	for i, f := range fields {
		colDefs[i] = fmt.Sprintf(`"%s" %s`, f.Name, sqlType(f.Type))
	}
	_, err = db.Exec(fmt.Sprintf(`CREATE TABLE "%s" (%s)`, t.Name, strings.Join(colDefs, ", ")))
	if err != nil {
		return fmt.Errorf("create table %s: %w", t.Name, err)
	}
	if len(rows) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(fields)), ",")
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO "%s" VALUES (%s)`, t.Name, placeholders))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		vals := make([]any, len(r.Values))
		for i, v := range r.Values {
			if b, ok := v.(bool); ok {
				v = 0
				if b {
					v = 1
				}
			}
			vals[i] = v
		}
		if _, err := stmt.Exec(vals...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert into %s: %w", t.Name, err)
		}
	}
	return tx.Commit()
}

func scan(sqlRows *sql.Rows) (*models.Table, error) {
	colNames, err := sqlRows.Columns()
	if err != nil {
		return nil, err
	}

	result := &models.Table{Name: ResultName, ReadOnly: true, Rows: [][]any{}}
	used := map[string]bool{}
	for _, name := range colNames {
		name = sanitizeIdent(name)
		for n, base := 2, name; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true
		result.Fields = append(result.Fields, models.FieldSpec{Name: name})
	}

	for sqlRows.Next() {
		ptrs := make([]any, len(colNames))
		for i := range ptrs {
			ptrs[i] = new(any)
		}
		if err := sqlRows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]any, len(colNames))
		for i := range colNames {
			// the driver returns int64, float64, string, []byte or nil
			switch v := (*(ptrs[i].(*any))).(type) {
			case []byte:
				row[i] = string(v)
			case int64:
				row[i] = float64(v)
			default:
				row[i] = v
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, err
	}

	inferTypes(result)
	return result, nil
}

// inferTypes marks columns holding only numbers as numeric.
func inferTypes(t *models.Table) {
	for i := range t.Fields {
		numeric, found := true, false
		for _, row := range t.Rows {
			switch row[i].(type) {
			case nil:
			case float64:
				found = true
			default:
				numeric = false
			}
		}
		if numeric && found {
			t.Fields[i].Type = dataset.TypeNumber
			t.Fields[i].AllowNull = true
		}
	}
}

func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "col"
	}
	if b.Len() > 60 {
		return b.String()[:60]
	}
	return b.String()
}
