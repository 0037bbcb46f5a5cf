package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/saturnines/contrib-harvest/pkg/config"
)

var (
	configPath = flag.String("config", "", "Path to a YAML harvest config (defaults to the NCAR run)")
	org        = flag.String("org", "", "Override the organization login")
	from       = flag.Int("from", 0, "Override the first year")
	to         = flag.Int("to", 0, "Override the last year")
	out        = flag.String("out", "", "Override the destination path")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("harvest v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})).With("run_id", runID)
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not loaded", "error", err)
	}

	cfg, err := loadConfig(*configPath, overrides{
		Organization: *org,
		From:         *from,
		To:           *to,
		Out:          *out,
	})
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(cfg, runID, logger)
	if err := app.Run(ctx); err != nil {
		logger.Error("harvest failed", "error", err)
		if *verbose {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// overrides are the flag values that replace config fields when set.
type overrides struct {
	Organization string
	From, To     int
	Out          string
}

func (o overrides) apply(cfg *config.Harvest) {
	if o.Organization != "" {
		cfg.Organization = o.Organization
	}
	if o.From != 0 {
		cfg.Years.From = o.From
	}
	if o.To != 0 {
		cfg.Years.To = o.To
	}
	if o.Out != "" {
		cfg.Destination.Path = o.Out
	}
}

// loadConfig reads path, or starts from config.Default when path is empty,
// applies the overrides and only then defaults and validates the result.
func loadConfig(path string, o overrides) (*config.Harvest, error) {
	loader := config.NewDefaultLoader()

	cfg := config.Default()
	if path != "" {
		loaded, err := loader.Read(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	o.apply(cfg)
	return loader.Prepare(cfg)
}
