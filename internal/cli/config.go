package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/retint/internal/config"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
		RunE:  showConfig,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE:  showConfig,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			configFile, err := config.GetConfigFile()
			if err != nil {
				return fmt.Errorf("get config file: %w", err)
			}
			fmt.Println(configFile)
			return nil
		},
	}

	cmd.AddCommand(showCmd)
	cmd.AddCommand(pathCmd)

	return cmd
}

func showConfig(_ *cobra.Command, _ []string) error {
	data, err := json.MarshalIndent(config.Get(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
