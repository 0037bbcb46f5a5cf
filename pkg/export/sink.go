package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/saturnines/contrib-harvest/pkg/config"
	"github.com/saturnines/contrib-harvest/pkg/errors"
	"github.com/saturnines/contrib-harvest/pkg/github"
)

// Columns of the export table, in order.
var Columns = []string{"date", "contributionCount", "user"}

// Sink receives the whole export table once.
type Sink interface {
	Write(ctx context.Context, rows []github.ContributionDay) error
	Close() error
}

// SinkCreator builds a Sink for one destination. runID tags the rows where the
// destination can store it.
type SinkCreator func(dest config.Destination, runID string) (Sink, error)

// SinkRegistry maps destination types to creators.
type SinkRegistry struct {
	creators map[config.DestinationType]SinkCreator
	mutex    sync.RWMutex
}

// DefaultRegistry knows csv_gzip and sqlite.
var DefaultRegistry = NewSinkRegistry()

// NewSinkRegistry creates a registry with the built-in destinations.
func NewSinkRegistry() *SinkRegistry {
	r := &SinkRegistry{creators: make(map[config.DestinationType]SinkCreator)}
	r.Register(config.DestinationCSVGzip, func(dest config.Destination, _ string) (Sink, error) {
		return NewCSVGzipSink(dest.Path), nil
	})
	r.Register(config.DestinationSQLite, func(dest config.Destination, runID string) (Sink, error) {
		return OpenSQLiteSink(dest.Path, dest.Table, runID)
	})
	return r
}

// Register adds or replaces a creator.
func (r *SinkRegistry) Register(t config.DestinationType, creator SinkCreator) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.creators[t] = creator
}

// Create builds the sink for dest.
func (r *SinkRegistry) Create(dest config.Destination, runID string) (Sink, error) {
	r.mutex.RLock()
	creator, ok := r.creators[dest.Type]
	r.mutex.RUnlock()

	if !ok {
		return nil, errors.WrapError(
			fmt.Errorf("unsupported destination type: %s", dest.Type),
			errors.ErrConfiguration,
			"create sink",
		)
	}
	return creator(dest, runID)
}

// NewSink builds a sink with the DefaultRegistry.
func NewSink(dest config.Destination, runID string) (Sink, error) {
	return DefaultRegistry.Create(dest, runID)
}
