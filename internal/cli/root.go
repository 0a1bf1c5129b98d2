// Package cli provides the command-line interface for retint.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/retint/internal/config"
	"github.com/bnema/retint/internal/infrastructure/persistence/sqlite"
)

// CLI holds the database connection, tweak store, and configuration
// for the CLI commands.
type CLI struct {
	DB     *sql.DB
	Store  sqlite.Store
	Config *config.Config
}

// NewCLI creates a new CLI instance with database connection and
// configuration.
func NewCLI() (*CLI, error) {
	cfg := config.Get()

	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = config.GetDatabaseFile()
		if err != nil {
			return nil, fmt.Errorf("failed to get database path: %w", err)
		}
	}

	database, err := sqlite.OpenDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &CLI{
		DB:     database,
		Store:  sqlite.NewTweakStore(database),
		Config: cfg,
	}, nil
}

// Close closes the tweak store and the database connection.
func (c *CLI) Close() error {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			return err
		}
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// withCLI runs fn with an initialized CLI and closes it afterwards.
func withCLI(fn func(*CLI) error) error {
	cli, err := NewCLI()
	if err != nil {
		return fmt.Errorf("failed to initialize CLI: %w", err)
	}
	defer func() {
		if closeErr := cli.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", closeErr)
		}
	}()
	return fn(cli)
}

// NewRootCmd creates the root command for retint.
func NewRootCmd(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "retint",
		Short: "A CSS custom-property tweaker for web application palettes",
		Long: `Retint manages live color overrides for a web application's CSS
custom properties: edit palette values, save them as presets, and
share them as theme files or console scripts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("retint %s\n", version)
			fmt.Printf("commit: %s\n", commit)
			fmt.Printf("built: %s\n", buildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewPresetsCmd())
	rootCmd.AddCommand(NewExportCmd())
	rootCmd.AddCommand(NewImportCmd())
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}
