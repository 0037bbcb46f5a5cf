package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnines/contrib-harvest/pkg/errors"
	"github.com/saturnines/contrib-harvest/pkg/github"
)

// Source is what the harvester needs from the GraphQL side.
type Source interface {
	Members(ctx context.Context, org string) ([]github.Member, error)
	Contributions(ctx context.Context, login string, w github.Window) ([]github.ContributionDay, error)
}

// YearWindows returns one window per year in [from, to], ascending.
func YearWindows(from, to int) ([]github.Window, error) {
	if from > to {
		return nil, errors.Newf(errors.ErrConfiguration, "year range %d-%d is inverted", from, to)
	}
	windows := make([]github.Window, 0, to-from+1)
	for year := from; year <= to; year++ {
		windows = append(windows, github.YearWindow(year))
	}
	return windows, nil
}

// Progress is called after each member's years have all been fetched.
type Progress func(done, total int, m github.Member)

// Harvester walks members × years sequentially.
type Harvester struct {
	source   Source
	org      string
	from, to int
	logger   *slog.Logger
	progress Progress
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithLogger sets the logger, slog.Default() otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harvester) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(p Progress) Option {
	return func(h *Harvester) {
		h.progress = p
	}
}

// New creates a Harvester for org over the inclusive year range.
func New(source Source, org string, from, to int, opts ...Option) *Harvester {
	h := &Harvester{
		source: source,
		org:    org,
		from:   from,
		to:     to,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Result is the outcome of one run.
type Result struct {
	Members []github.Member
	Rows    []github.ContributionDay
	Calls   int // contribution queries issued
}

// Run lists the members, then fetches every member's calendar for every year,
// in member order then year order. The first failure aborts the run and no
// partial result is returned.
func (h *Harvester) Run(ctx context.Context) (*Result, error) {
	windows, err := YearWindows(h.from, h.to)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	members, err := h.source.Members(ctx, h.org)
	if err != nil {
		return nil, err
	}

	h.logger.Info("harvesting contributions",
		"org", h.org, "members", len(members), "from", h.from, "to", h.to,
		"queries", len(members)*len(windows))

	res := &Result{Members: members, Rows: []github.ContributionDay{}}
	for i, m := range members {
		before := len(res.Rows)
		for _, w := range windows {
			rows, err := h.source.Contributions(ctx, m.Login, w)
			res.Calls++
			if err != nil {
				return nil, errors.WithMessage(err, fmt.Sprintf("harvest user %q year %d", m.Login, w.Since.Year()))
			}
			res.Rows = append(res.Rows, rows...)
		}

		h.logger.Info("harvested member", "user", m.Login, "index", i+1, "total", len(members), "days", len(res.Rows)-before)
		if h.progress != nil {
			h.progress(i+1, len(members), m)
		}
	}

	h.logger.Info("harvest complete", "rows", len(res.Rows), "queries", res.Calls, "elapsed", time.Since(started).Round(time.Millisecond))
	return res, nil
}
