package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"avotrade/internal/cli/output"
	"avotrade/internal/config"
	"avotrade/internal/http/handlers"
	applog "avotrade/internal/log"
	"avotrade/internal/notify"
	"avotrade/internal/repos"
)

const (
	portFlag      = "port"
	queueSizeFlag = "notify-queue"

	shutdownTimeout = 10 * time.Second
)

var serveFlags = map[string]cobraflags.Flag{
	portFlag: &cobraflags.StringFlag{
		Name:  portFlag,
		Value: "",
		Usage: "Port to listen on (overrides PORT)",
	},
	queueSizeFlag: &cobraflags.StringFlag{
		Name:  queueSizeFlag,
		Value: strconv.Itoa(notify.DefaultQueueSize),
		Usage: "Pending lead notifications held before new ones are dropped",
	},
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Pending migrations are applied and the catalogue is
seeded on start. When no admin account exists and ADMIN_PASSWORD is unset, a
password is generated and printed once.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cobraflags.RegisterMap(cmd, serveFlags)
	return cmd
}

func mailerFor(cfg config.Config) notify.Mailer {
	if cfg.NotifyMailer == "smtp" {
		return notify.SMTPMailer{Addr: cfg.SMTPAddr, User: cfg.SMTPUser, Password: cfg.SMTPPassword}
	}
	return notify.LogMailer{}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if p := serveFlags[portFlag].GetString(); p != "" {
		cfg.Port = p
	}
	queueSize, err := positiveInt(queueSizeFlag, serveFlags[queueSizeFlag].GetString())
	if err != nil {
		return err
	}

	logCloser, err := applog.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logCloser.Close()
	applog.Info(nil, "server.config", cfg.Summary())

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	notifier, err := notify.New(mailerFor(cfg), cfg.NotifyFrom, cfg.NotifyTo, queueSize)
	if err != nil {
		return err
	}

	deps := handlers.NewDeps(db, cfg, notifier)
	generated, err := deps.Auth.EnsureAdmin(cmd.Context(), cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("ensuring admin account: %w", err)
	}
	if generated != "" {
		applog.Security(nil, "admin.password.generated", map[string]any{"username": cfg.AdminUsername})
		output.Warning("Generated password for %s: %s", cfg.AdminUsername, generated)
		output.Muted("It is not stored anywhere in plain text and will not be shown again.")
	}

	app := handlers.NewApp(deps, cfg, handlers.DefaultLimits)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		applog.Info(nil, "server.listen", map[string]any{"port": cfg.Port})
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		_ = notifier.Close(context.Background())
		return err
	case <-ctx.Done():
	}

	applog.Info(nil, "server.shutdown", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(
		app.ShutdownWithContext(shutdownCtx),
		notifier.Close(shutdownCtx),
	)
}
