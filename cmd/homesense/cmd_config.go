package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect homesense configuration",
		Long: `Inspect the effective homesense configuration.

Configuration is read from ~/.homesense/config.yaml (or --config) and
overridden by HOMESENSE_* environment variables.

Examples:
  homesense config show           # Effective settings as YAML
  homesense config show --json    # Effective settings as JSON`,
	}

	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			storePath, err := cfg.StorePath()
			if err != nil {
				return fmt.Errorf("failed to resolve store path: %w", err)
			}
			cfg.Store.Path = storePath

			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return json.NewEncoder(out).Encode(cfg)
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			return enc.Close()
		},
	}
}
