package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/phrazzld/taskdeck/internal/config"
	"github.com/phrazzld/taskdeck/internal/deploy"
	"github.com/phrazzld/taskdeck/internal/events"
	"github.com/phrazzld/taskdeck/internal/export"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
	"github.com/phrazzld/taskdeck/internal/platform/sqlstore"
	"github.com/phrazzld/taskdeck/internal/service"
	"github.com/phrazzld/taskdeck/internal/service/auth"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
}

// newRootCommand creates the taskdeck command. Without a subcommand it
// serves the application.
func newRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Single-user task manager",
		Long:          "Serves the task API and front end, and runs the deployment and maintenance commands around it.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./taskdeck.yaml if present)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newSyncPublicCommand(opts))
	cmd.AddCommand(newHashPasswordCommand())
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))

	return cmd
}

func newServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "serve",
		Short:         "Start the HTTP server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := config.LoadFile(opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_driver", cfg.Storage.Driver)

	app, err := newApplication(cmd.Context(), cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(cmd.Context())
}

func newSyncPublicCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-public",
		Short: "Copy the front-end pages into the public directory",
		Long: `Copy login.html and dashboard.html from the front-end directory into the
public directory and write an index.html that redirects to the login page.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(opts.ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			written, err := deploy.SyncPublic(cfg.Server.StaticDir, cfg.Server.PublicDir)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "hash-password <password>",
		Short:         "Print a bcrypt hash for auth.password_hash",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newExportCommand(opts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:           "export",
		Short:         "Write every task, grouped by year and month, to stdout",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg, err := config.LoadFile(opts.ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			// Logs go to stderr so they do not corrupt the export.
			l := logger.SetupWithWriter(cfg.Server, cmd.ErrOrStderr())

			ctx := cmd.Context()

			tasks, err := openTaskStore(ctx, cfg.Storage, l)
			if err != nil {
				return err
			}
			defer func() {
				if err := tasks.Close(); err != nil {
					l.Error("Error closing task store", "error", err)
				}
			}()

			svc, err := service.NewTaskService(tasks, events.NewInMemoryEventEmitter(l), l)
			if err != nil {
				return err
			}

			all, err := svc.AllTasks(ctx)
			if err != nil {
				return err
			}
			return export.Write(cmd.OutOrStdout(), all, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "output format (json|yaml)")

	return cmd
}

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <up|down|status|version>",
		Short: "Run database migrations for the sql storage drivers",
		Args: cobra.MatchAll(
			cobra.ExactArgs(1),
			cobra.OnlyValidArgs,
		),
		ValidArgs: []string{
			sqlstore.MigrateUp,
			sqlstore.MigrateDown,
			sqlstore.MigrateStatus,
			sqlstore.MigrateVersion,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(opts.ConfigFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			l := logger.SetupWithWriter(cfg.Server, cmd.ErrOrStderr())

			if cfg.Storage.Driver == config.DriverJSON {
				return errors.New("migrate requires the sqlite or postgres storage driver")
			}
			dialect, err := sqlstore.ParseDialect(cfg.Storage.Driver)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := sqlstore.Open(ctx, dialect, cfg.Storage.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					l.Error("Error closing database connection", "error", err)
				}
			}()

			l.Info("running migrations",
				slog.String("command", args[0]),
				slog.String("dialect", string(dialect)))
			return sqlstore.Migrate(ctx, db, dialect, args[0], l)
		},
	}
}
