package main

import (
	"context"
	"log/slog"

	"github.com/saturnines/contrib-harvest/pkg/config"
	"github.com/saturnines/contrib-harvest/pkg/errors"
	"github.com/saturnines/contrib-harvest/pkg/export"
	"github.com/saturnines/contrib-harvest/pkg/github"
	"github.com/saturnines/contrib-harvest/pkg/harvest"
)

// App runs one harvest and writes its export.
type App struct {
	Config *config.Harvest
	RunID  string
	Logger *slog.Logger
}

func NewApp(cfg *config.Harvest, runID string, logger *slog.Logger) *App {
	return &App{Config: cfg, RunID: runID, Logger: logger}
}

// Run fetches everything first and only then opens the sink, so a failed
// harvest leaves no output behind.
func (a *App) Run(ctx context.Context) error {
	cfg := a.Config
	a.Logger.Info("starting harvest",
		"name", cfg.Name,
		"org", cfg.Organization,
		"from", cfg.Years.From,
		"to", cfg.Years.To,
		"destination", cfg.Destination.Type,
	)

	client, err := github.NewClientFromConfig(cfg, a.Logger)
	if err != nil {
		return err
	}

	h := harvest.New(client, cfg.Organization, cfg.Years.From, cfg.Years.To,
		harvest.WithLogger(a.Logger),
	)
	res, err := h.Run(ctx)
	if err != nil {
		return err
	}

	sink, err := export.NewSink(cfg.Destination, a.RunID)
	if err != nil {
		return err
	}
	if err := sink.Write(ctx, res.Rows); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return errors.WrapError(err, errors.ErrExport, "close sink")
	}

	a.Logger.Info("export written", "path", cfg.Destination.Path, "rows", len(res.Rows), "members", len(res.Members))
	return nil
}
