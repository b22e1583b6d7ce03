// Package cli implements the klar command line.
package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vytor/klar/internal/app"
	"github.com/vytor/klar/internal/config"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	dbPath   string
	logLevel string
}

// NewRootCommand builds the klar command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "klar",
		Short:         "Level-based flashcard trainer",
		Long:          "klar schedules flashcards over four mastery levels and reports your progress.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to SQLite database file (overrides DB_PATH env var)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR (overrides LOG_LEVEL env var)")

	root.AddCommand(
		newServeCommand(opts),
		newPracticeCommand(opts),
		newReportCommand(opts),
		newSetsCommand(opts),
		newCardsCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newSnapshotCommand(opts),
		newMCPCommand(opts, version),
		newVersionCommand(version),
	)
	return root
}

// Execute runs the command line with os.Args.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}

// config loads the environment, applies flag overrides and installs the
// default logger. Logs go to stderr so stdout stays clean for output and MCP.
func (o *globalOptions) config(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logger.SetDefault(logger.New(
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
	))
	return cfg, nil
}

func (o *globalOptions) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.config(cmd)
	if err != nil {
		return nil, err
	}
	return app.Open(cfg)
}

// resolveSet finds a study set by id or name. An empty ref selects the
// configured active set, creating it on first use.
func resolveSet(ctx context.Context, a *app.App, ref string) (*models.StudySet, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return a.StudySets.EnsureSet(ctx, a.Config.ActiveSet)
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return a.StudySets.GetSet(ctx, id)
	}
	return a.StudySets.GetSetByName(ctx, ref)
}
