package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/retint/internal/app/export"
	"github.com/bnema/retint/internal/domain/entity"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	var (
		presetName string
		outFile    string
		asScript   bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tweaks as a theme file or console script",
		Long: `Export the working tweaks (or a named preset) as a flat theme JSON
document, or as a self-executing console script with --script.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withCLI(func(cli *CLI) error {
				ctx := context.Background()

				working, err := exportBuffer(ctx, cli, presetName)
				if err != nil {
					return err
				}

				var data []byte
				if asScript {
					script, err := export.ConsoleScript(working)
					if err != nil {
						return fmt.Errorf("render console script: %w", err)
					}
					data = []byte(script + "\n")
				} else {
					data, err = export.ExportTheme(working)
					if err != nil {
						return fmt.Errorf("export theme: %w", err)
					}
					data = append(data, '\n')
				}

				if outFile == "" {
					_, err = os.Stdout.Write(data)
					return err
				}
				if err := os.WriteFile(outFile, data, 0644); err != nil {
					return fmt.Errorf("write %s: %w", outFile, err)
				}
				fmt.Fprintf(os.Stderr, "Exported to %s\n", outFile)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "Export a named preset instead of the working tweaks")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&asScript, "script", false, "Emit a self-executing console script")

	return cmd
}

// exportBuffer assembles the buffer to export: a named preset, or the
// stored working tweaks.
func exportBuffer(ctx context.Context, cli *CLI, presetName string) (entity.WorkingTweaks, error) {
	var stored map[entity.CSSPropertyName]entity.StoredTweakEntry
	if presetName != "" {
		preset := cli.Store.GetPreset(ctx, presetName)
		if preset == nil {
			return entity.WorkingTweaks{}, fmt.Errorf("preset %q does not exist", presetName)
		}
		stored = preset.CSSProperties
	} else {
		stored = cli.Store.GetWorkingTweaks(ctx)
	}

	working := entity.NewWorkingTweaks()
	for name, e := range stored {
		working.CSSProperties[name] = entity.TweakEntry{Value: e.Value, Enabled: e.Enabled}
	}
	return working, nil
}
