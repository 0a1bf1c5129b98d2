package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/retint/internal/app/export"
	"github.com/bnema/retint/internal/config"
)

// NewSchemaCmd creates the schema command.
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate JSON schemas",
		Long: `Generate JSON schemas:
  config - Write the configuration schema next to the config file
  theme  - Print the importable theme document schema`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Write the configuration schema file",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := config.GenerateSchemaFile(); err != nil {
				return fmt.Errorf("generate config schema: %w", err)
			}
			return nil
		},
	}

	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Print the theme document schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := export.ThemeSchemaJSON()
			if err != nil {
				return fmt.Errorf("generate theme schema: %w", err)
			}
			_, err = fmt.Fprintf(os.Stdout, "%s\n", data)
			return err
		},
	}

	cmd.AddCommand(configCmd)
	cmd.AddCommand(themeCmd)

	return cmd
}
