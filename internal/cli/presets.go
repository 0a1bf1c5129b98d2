package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/retint/internal/cli/model"
	"github.com/bnema/retint/internal/cli/styles"
	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/logging"
)

const presetTabSpacing = 2

// NewPresetsCmd creates the presets command.
func NewPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage saved presets",
		Long: `Manage saved presets with various subcommands:
  list   - Show saved presets
  show   - Show one preset's properties
  rename - Rename a preset
  delete - Delete a preset
  browse - Browse presets interactively`,
		RunE: listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		RunE:  listPresets,
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one preset's properties",
		Args:  cobra.ExactArgs(1),
		RunE:  showPreset,
	}

	renameCmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a preset",
		Long:  `Rename a preset. If it is the selected preset, the selection follows.`,
		Args:  cobra.ExactArgs(2),
		RunE:  renamePreset,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  deletePreset,
	}

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse presets interactively",
		RunE:  browsePresets,
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)
	cmd.AddCommand(renameCmd)
	cmd.AddCommand(deleteCmd)
	cmd.AddCommand(browseCmd)

	return cmd
}

func listPresets(_ *cobra.Command, _ []string) error {
	return withCLI(func(cli *CLI) error {
		ctx := context.Background()
		presets := cli.Store.GetAllPresets(ctx)
		selected := cli.Store.GetSelectedPreset(ctx)

		if len(presets) == 0 {
			fmt.Println("No presets saved yet.")
			return nil
		}

		names := make([]string, 0, len(presets))
		for name := range presets {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, presetTabSpacing, ' ', 0)
		fmt.Fprintln(w, "NAME\tPROPERTIES\tUPDATED\t")
		for _, name := range names {
			p := presets[name]
			marker := ""
			if name == selected {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\t%d\t%s\t\n",
				name, marker, len(p.CSSProperties), styles.RelativeTime(p.UpdatedAt))
		}
		return w.Flush()
	})
}

func showPreset(_ *cobra.Command, args []string) error {
	return withCLI(func(cli *CLI) error {
		ctx := context.Background()
		preset := cli.Store.GetPreset(ctx, args[0])
		if preset == nil {
			return fmt.Errorf("preset %q does not exist", args[0])
		}

		names := make([]entity.CSSPropertyName, 0, len(preset.CSSProperties))
		for name := range preset.CSSProperties {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

		fmt.Printf("%s (%d properties)\n\n", preset.Name, len(preset.CSSProperties))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, presetTabSpacing, ' ', 0)
		fmt.Fprintln(w, "PROPERTY\tVALUE\tENABLED\t")
		for _, name := range names {
			e := preset.CSSProperties[name]
			fmt.Fprintf(w, "%s\t%s\t%t\t\n", name, e.Value, e.Enabled)
		}
		return w.Flush()
	})
}

func renamePreset(_ *cobra.Command, args []string) error {
	return withCLI(func(cli *CLI) error {
		if err := cli.Store.RenamePreset(context.Background(), args[0], args[1]); err != nil {
			return fmt.Errorf("rename preset: %w", err)
		}
		fmt.Printf("Renamed %q to %q\n", args[0], args[1])
		return nil
	})
}

func deletePreset(_ *cobra.Command, args []string) error {
	return withCLI(func(cli *CLI) error {
		if err := cli.Store.DeletePreset(context.Background(), args[0]); err != nil {
			return fmt.Errorf("delete preset: %w", err)
		}
		fmt.Printf("Deleted %q\n", args[0])
		return nil
	})
}

func browsePresets(_ *cobra.Command, _ []string) error {
	return withCLI(func(cli *CLI) error {
		logger := logging.New(logging.Config{
			Level:  logging.ParseLevel(cli.Config.Logging.Level),
			Format: cli.Config.Logging.Format,
		})
		ctx := logging.WithContext(context.Background(), logger)

		m := model.NewPresetsModel(ctx, styles.NewTheme(), cli.Store)
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	})
}
