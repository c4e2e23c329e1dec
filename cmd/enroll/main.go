package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lojf/enroll/internal/apperr"
	"github.com/lojf/enroll/internal/config"
	"github.com/lojf/enroll/internal/db"
	"github.com/lojf/enroll/internal/events"
	"github.com/lojf/enroll/internal/logging"
	"github.com/lojf/enroll/internal/services"
)

// app holds what every subcommand shares once the root pre-run has finished.
type app struct {
	configPath string
	dbPath     string
	verbose    bool

	cfg      *config.Config
	log      *zap.Logger
	store    *db.Store
	reports  *services.Reports
	enroller *services.Enroller
}

// newRootCmd builds the command tree. The returned func releases what the
// pre-run opened and must be called after Execute, whether or not it failed.
func newRootCmd() (*cobra.Command, func()) {
	a := &app{}

	root := &cobra.Command{
		Use:   "enroll",
		Short: "Course enrollment form backed by SQLite",
		Long: `enroll collects student enrollments into a local SQLite database.

Eligible applicants (percentage of 60 or more) are saved; once the
configured number of enrollments is reached the top students are
announced.

Run without arguments to open the terminal form.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runForm(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newFormCmd(a),
		newServeCmd(a),
		newAddCmd(a),
		newRosterCmd(a),
		newTopCmd(a),
		newInitCmd(a),
	)
	return root, a.close
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DB.Path = a.dbPath
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	// The terminal form owns the screen.
	if isFormCmd(cmd) && cfg.Log.File == "" {
		cfg.Log.File = "enroll.log"
	}
	a.cfg = cfg

	a.log, err = logging.New(cfg.Log)
	if err != nil {
		return err
	}

	a.store, err = db.Open(cfg.DB.Path, db.WithLogger(a.log), db.WithQueryLog(cfg.DB.LogQueries))
	if err != nil {
		a.log.Error("storage unavailable", zap.String("path", cfg.DB.Path), zap.Error(err))
		return err
	}
	if err := a.store.EnsureSchema(cmd.Context()); err != nil {
		a.log.Error("schema setup failed", zap.String("path", cfg.DB.Path), zap.Error(err))
		return err
	}

	a.reports = services.NewReports(a.store)
	a.enroller = a.newEnroller()
	a.log.Debug("ready", zap.String("db", cfg.DB.Path), zap.String("command", cmd.Name()))
	return nil
}

// newEnroller builds a workflow that logs every notice and also hands it
// to extra.
func (a *app) newEnroller(extra ...events.Notifier) *services.Enroller {
	notify := events.Log(a.log)
	if len(extra) > 0 {
		notify = events.Multi(append(extra, notify)...)
	}
	return services.NewEnroller(a.store,
		services.WithLogger(a.log),
		services.WithNotifier(notify),
		services.WithMilestone(a.cfg.Enrollment.Milestone),
		services.WithLeaderboardSize(a.cfg.Enrollment.LeaderboardSize),
	)
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.log != nil {
			a.log.Warn("close store", zap.Error(err))
		}
		a.store = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func isFormCmd(cmd *cobra.Command) bool {
	return cmd.Name() == "form" || !cmd.HasParent()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, cleanup := newRootCmd()
	err := root.ExecuteContext(ctx)
	cleanup()
	if err != nil {
		msg := apperr.Message(err)
		if apperr.IsFatal(err) {
			msg = err.Error()
		}
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case apperr.IsFatal(err):
		return 1
	case errors.Is(err, apperr.ErrWrite):
		return 3
	case apperr.KindOf(err) != nil:
		return 2
	default:
		return 1
	}
}
