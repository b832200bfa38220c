package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pluqqy/gridkit/cmd/commands"
	"github.com/pluqqy/gridkit/internal/cli"
	"github.com/pluqqy/gridkit/pkg/files"
	"github.com/pluqqy/gridkit/pkg/models"
)

// Version is set during build with -ldflags
var version = "dev"

var (
	outputFormat string
	quiet        bool
	noColor      bool
	skipConfirm  bool
	storeBackend string
)

var rootCmd = &cobra.Command{
	Use:   "gridkit [table]",
	Short: "Terminal spreadsheet-style editor for tables of records",
	Long: `Gridkit is a terminal-based grid editor for tables of records. Tables are
stored as plain YAML files (or in a bolt database) and can be edited in a
virtualized, sortable grid or from the command line.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.ValidateOutputFormat(outputFormat); err != nil {
			return err
		}
		if err := cli.ValidateBackend(storeBackend); err != nil {
			return err
		}
		cli.SetGlobalFlags(quiet, noColor, skipConfirm)
		cli.SetStoreBackend(storeBackend)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Check if .gridkit directory exists
		if _, err := os.Stat(files.GridkitDir); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: No .gridkit directory found in the current directory.\n")
			fmt.Fprintf(os.Stderr, "Please run 'gridkit init' first to initialize a new project.\n")
			os.Exit(1)
		}

		if err := commands.RunOpen(cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new Gridkit project",
	Long:  `Creates the .gridkit folder structure and default settings in the current directory`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to determine current directory: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Initializing Gridkit project in %s...\n", cwd)

		if err := files.InitProjectStructure(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to initialize project structure: %v\n", err)
			fmt.Fprintf(os.Stderr, "Make sure you have write permissions in the current directory.\n")
			os.Exit(1)
		}
		fmt.Println("✓ Created .gridkit folder structure")

		if _, err := os.Stat(files.SettingsPath()); os.IsNotExist(err) {
			settings := models.DefaultSettings()
			if storeBackend != "" {
				settings.Store.Backend = storeBackend
			}
			if err := files.WriteSettings(settings); err != nil {
				fmt.Fprintf(os.Stderr, "Error: Failed to write settings: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✓ Wrote %s (store backend: %s)\n", files.SettingsPath(), settings.Store.Backend)
		}

		fmt.Println("\nCreate a table with 'gridkit create' or 'gridkit import', or try 'gridkit examples'.")
		fmt.Println("Then run 'gridkit <table>' to open it.")
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Gridkit",
	Long:  `Display the current version of the Gridkit CLI tool`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Gridkit version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational messages")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable symbols in messages")
	rootCmd.PersistentFlags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Store backend override (file, bolt)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(commands.NewOpenCommand())
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewShowCommand())
	rootCmd.AddCommand(commands.NewCreateCommand())
	rootCmd.AddCommand(commands.NewAddCommand())
	rootCmd.AddCommand(commands.NewSetCommand())
	rootCmd.AddCommand(commands.NewRemoveCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewArchiveCommand())
	rootCmd.AddCommand(commands.NewRestoreCommand())
	rootCmd.AddCommand(commands.NewDeleteCommand())
	rootCmd.AddCommand(commands.NewExamplesCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Command execution failed: %v\n", err)
		os.Exit(1)
	}
}
