package app

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"salesreport/internal/config"
	"salesreport/internal/sales"
	"salesreport/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	// Stdout receives report tables and command output.
	Stdout io.Writer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger.With().Str("component", "app").Logger(),
		Stdout: os.Stdout,
	}
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if !a.Config.PersistenceEnabled() {
		return nil, nil, nil
	}

	store, err := storage.Open(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// AnalyzeOptions hold the parameters of one analyze invocation. Empty fields fall
// back to configuration.
type AnalyzeOptions struct {
	Input     string
	Start     string
	End       string
	OutputDir string
	Formats   []string
	Sheet     string
	NoStore   bool
}

// RunsOptions configure the runs command.
type RunsOptions struct {
	Limit int
	// RunID, when set, lists the stored product ranking of that run instead.
	RunID string
}

func (a *App) parseOptions() (sales.ParseOptions, error) {
	loc, err := a.Config.Location()
	if err != nil {
		return sales.ParseOptions{}, err
	}
	return sales.ParseOptions{Location: loc}, nil
}
