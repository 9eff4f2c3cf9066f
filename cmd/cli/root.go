package main

import (
	"path/filepath"

	"github.com/acpkit/acpcore/internal/config"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acpcore",
		Short: "Demo binaries for the Agent Client Protocol core",
	}

	cmd.PersistentFlags().StringP("config", "c", "", "path to config file")

	cmd.AddCommand(newAgentCmd())
	cmd.AddCommand(newClientCmd())
	cmd.AddCommand(newRelayCmd())

	return cmd
}

func loadConfig(path string) (config.Config, error) {
	configPath := path
	if configPath == "" {
		configPath = filepath.Join(config.Default().DataDir, "config.toml")
	}

	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return config.Config{}, err
	}

	cfg.Trace = config.LoadTraceConfigFromEnv(cfg.Trace)
	return cfg, nil
}
