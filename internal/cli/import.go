package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/retint/internal/app/export"
)

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	var presetName string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a theme file",
		Long: `Import a flat theme JSON document into the working tweaks, or save
it directly as a preset with --as. Unknown keys are ignored and
invalid colors are dropped; a document with nothing usable is
rejected without touching any state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withCLI(func(cli *CLI) error {
				ctx := context.Background()

				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s: %w", args[0], err)
				}

				props, err := export.ParseTheme(ctx, data)
				if err != nil {
					return fmt.Errorf("import %s: %w", args[0], err)
				}

				if presetName != "" {
					if err := cli.Store.CreatePreset(ctx, presetName, props); err != nil {
						return fmt.Errorf("create preset %q: %w", presetName, err)
					}
					fmt.Printf("Imported %d properties as preset %q\n", len(props), presetName)
					return nil
				}

				if err := cli.Store.SetWorkingTweaks(ctx, props); err != nil {
					return fmt.Errorf("set working tweaks: %w", err)
				}
				fmt.Printf("Imported %d properties into the working tweaks\n", len(props))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&presetName, "as", "", "Save the import as a named preset")

	return cmd
}
