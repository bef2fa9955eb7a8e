package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skryldev/jobly/config"
	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/metrics"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	configFile string
	cfg        *config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "jobly",
		Short: "Companies and jobs over HTTP",
		Long: `jobly stores companies and the jobs they offer.

It serves a JSON API, manages the database schema and can fill a
database with fake data for local development.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: jobly.yaml in ., $HOME or $HOME/.config/jobly)")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newCompaniesCmd(a),
		newJobsCmd(a),
	)
	return root
}

// load reads the configuration and installs the default logger.
func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	a.cfg = cfg
	a.log = log
	return nil
}

// openDB connects with the logging hook installed, plus a metrics hook
// when m is non-nil.
func (a *app) openDB(m *metrics.Metrics) (*db.DB, error) {
	hooks := []db.Hook{
		db.NewLogHook(db.LogHookConfig{
			Logger:             a.log,
			SlowQueryThreshold: a.cfg.Database.SlowQueryThreshold,
		}),
	}
	if m != nil {
		hooks = append(hooks, db.NewMetricsHook(m))
	}
	return a.cfg.Database.Open(hooks...)
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("log format %q: want json or text", cfg.Format)
}

// retryStartup waits for the database the way a freshly started container
// needs to.
var retryStartup = db.RetryConfig{MaxAttempts: 10, Delay: 2 * time.Second}
