// Package cli holds the avotrade command tree: the API server, schema
// migrations and the operator commands that talk to a running server.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"avotrade/internal/cli/output"
	"avotrade/internal/client"
	"avotrade/internal/config"
)

var configPath string

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "avotrade",
		Short: "AvoTrade marketplace backend",
		Long: `AvoTrade serves the public catalogue, lead capture and visit tracking API,
and ships the operator commands used to work the lead pipeline.

Configuration is read from avotrade.{yaml,toml,json} in the working directory
or /etc/avotrade, overridden by environment variables (DB_DRIVER, DB_DSN, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file to read instead of the default search paths")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newLeadsCommand(),
		newProductsCommand(),
		newStatsCommand(),
		newHashPasswordCommand(),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	v := config.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	}
	return config.FromViper(v)
}

// apiClient returns a client for the configured server, authenticated with
// api_token when set and otherwise by logging in as the configured admin.
func apiClient(ctx context.Context, cfg config.Config) (*client.Client, error) {
	c := client.New(client.AgentTransport{BaseURL: cfg.APIURL})
	switch {
	case cfg.APIToken != "":
		c.SetToken(cfg.APIToken)
	case cfg.AdminPassword != "":
		if _, err := c.Login(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return nil, fmt.Errorf("logging in as %s: %w", cfg.AdminUsername, err)
		}
	default:
		return nil, fmt.Errorf("set API_TOKEN or ADMIN_PASSWORD to call %s", cfg.APIURL)
	}
	return c, nil
}
