package github

import (
	"fmt"
	"log/slog"

	"github.com/saturnines/contrib-harvest/pkg/auth"
	"github.com/saturnines/contrib-harvest/pkg/config"
	"github.com/saturnines/contrib-harvest/pkg/errors"
	"github.com/saturnines/contrib-harvest/pkg/transport/graphql"
)

// Client runs the two harvest queries against a GraphQL endpoint.
type Client struct {
	gql      *graphql.Client
	endpoint string
	headers  map[string]string
	auth     auth.Handler
	pageSize int
	maxPages int
	logger   *slog.Logger
}

// Options configures a Client. Zero PageSize means 100; zero MaxPages means
// unbounded.
type Options struct {
	Endpoint string
	Headers  map[string]string
	Auth     auth.Handler
	PageSize int
	MaxPages int
	Logger   *slog.Logger
}

// NewClient wraps an executor. gql may be shared between clients.
func NewClient(gql *graphql.Client, opts Options) *Client {
	if opts.PageSize == 0 {
		opts.PageSize = config.DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		gql:      gql,
		endpoint: opts.Endpoint,
		headers:  opts.Headers,
		auth:     opts.Auth,
		pageSize: opts.PageSize,
		maxPages: opts.MaxPages,
		logger:   opts.Logger,
	}
}

// NewClientFromConfig builds the auth handler and executor described by cfg.
func NewClientFromConfig(cfg *config.Harvest, logger *slog.Logger) (*Client, error) {
	h, err := auth.CreateHandler(cfg.Source.Auth)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrAuthentication, "auth handler")
	}

	gql := graphql.NewClient(nil,
		graphql.WithTimeout(cfg.Source.Timeout),
		graphql.WithLogger(logger),
	)

	return NewClient(gql, Options{
		Endpoint: cfg.Source.Endpoint,
		Headers:  cfg.Source.Headers,
		Auth:     h,
		PageSize: cfg.Pagination.PageSize,
		MaxPages: cfg.Pagination.MaxPages,
		Logger:   logger,
	}), nil
}

func (c *Client) builder(query string, vars map[string]interface{}) *graphql.Builder {
	return graphql.NewBuilder(c.endpoint, query,
		graphql.WithHeaders(c.headers),
		graphql.WithAuthHandler(c.auth),
		graphql.WithVariables(vars),
	)
}

func fmtIndex(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
