package config

import "time"

// Harvest represents the full config for one harvest run
type Harvest struct {
	Name         string      `yaml:"name"`         // Run name, used in logs
	Organization string      `yaml:"organization"` // Required: GitHub organization login
	Source       Source      `yaml:"source"`       // GraphQL endpoint settings
	Years        YearRange   `yaml:"years"`        // Inclusive range of calendar years
	Pagination   Pagination  `yaml:"pagination"`   // Member listing paging
	Destination  Destination `yaml:"destination"`  // Export target
}

// Source represents GraphQL API config
type Source struct {
	Endpoint string            `yaml:"endpoint"`          // GraphQL URL
	Headers  map[string]string `yaml:"headers,omitempty"` // Extra HTTP headers
	Timeout  time.Duration     `yaml:"timeout,omitempty"` // Zero leaves the transport default
	Auth     *Auth             `yaml:"auth,omitempty"`
}

// Auth defines how the access token is sent.
type Auth struct {
	Type     AuthType `yaml:"type"`
	Token    string   `yaml:"token,omitempty"`     // Literal token, usually "${GH_PERSONAL_TOKEN}"
	TokenEnv string   `yaml:"token_env,omitempty"` // Env var read when Token is empty
}

// AuthType defines current supported authentication types
type AuthType string

const (
	AuthTypeToken  AuthType = "token"
	AuthTypeBearer AuthType = "bearer"
)

// YearRange is inclusive on both ends.
type YearRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Count returns the number of years in the range.
func (y YearRange) Count() int {
	if y.To < y.From {
		return 0
	}
	return y.To - y.From + 1
}

// Pagination controls the member listing.
type Pagination struct {
	PageSize int `yaml:"page_size,omitempty"` // GraphQL "first", at most 100
	MaxPages int `yaml:"max_pages,omitempty"` // Upper bound on pages fetched
}

// Destination defines where the export table is written
type Destination struct {
	Type  DestinationType `yaml:"type"`
	Path  string          `yaml:"path"`
	Table string          `yaml:"table,omitempty"` // sqlite only
}

// DestinationType defines supported destination types
type DestinationType string

const (
	DestinationCSVGzip DestinationType = "csv_gzip"
	DestinationSQLite  DestinationType = "sqlite"
)

// Defaults for the NCAR harvest.
const (
	DefaultEndpoint     = "https://api.github.com/graphql"
	DefaultTokenEnv     = "GH_PERSONAL_TOKEN"
	DefaultOrganization = "NCAR"
	DefaultFromYear     = 2008
	DefaultToYear       = 2021
	DefaultPageSize     = 100
	DefaultMaxPages     = 1000
	DefaultOutputPath   = "ncar-members-contributions.csv.gz"
	DefaultTable        = "contributions"
)
