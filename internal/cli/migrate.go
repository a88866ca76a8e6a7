package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"avotrade/internal/cli/output"
	"avotrade/internal/repos"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runMigrate(cmd, true) },
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations have been applied",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runMigrate(cmd, false) },
	})
	return cmd
}

func runMigrate(cmd *cobra.Command, apply bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := repos.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	states, err := repos.MigrateStatus(cmd.Context(), db, apply)
	output.Section(fmt.Sprintf("Migrations (%s)", cfg.DBDriver))
	for _, s := range states {
		fmt.Fprintf(output.Out, "%s %04d_%s\n", output.StatusIcon(migrationState(s)), s.Version, s.Name)
	}
	if err != nil {
		return err
	}
	if apply {
		output.Success("Schema is up to date")
	}
	return nil
}

func migrationState(s repos.MigrationState) string {
	if s.Applied {
		return "applied"
	}
	return "pending"
}
