package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/saturnines/contrib-harvest/pkg/errors"
)

type ValidationError struct {
	Field   string
	Message string
}

// Returns the string representation of validation error
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one config.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

type Validator interface {
	Validate(cfg *Harvest) []ValidationError
}

// DefaultValueSetter fills in whatever the config left empty
type DefaultValueSetter interface {
	SetDefaults(cfg *Harvest)
}

// VariableExpander defines the interface for expanding variables
type VariableExpander interface {
	Expand(data []byte) []byte
}

// EnvExpander implements VariableExpander using environment variables
type EnvExpander struct{}

// Expand expands environment variables with the given data
func (e *EnvExpander) Expand(data []byte) []byte {
	expanded := os.Expand(string(data), os.Getenv)
	return []byte(expanded)
}

// HarvestLoader reads, defaults and validates a Harvest config.
type HarvestLoader struct {
	expander      VariableExpander
	validators    []Validator
	defaultSetter DefaultValueSetter
}

// NewHarvestLoader creates a new HarvestLoader with the given components
func NewHarvestLoader(
	expander VariableExpander,
	defaultSetter DefaultValueSetter,
	validators ...Validator,
) *HarvestLoader {
	return &HarvestLoader{
		expander:      expander,
		validators:    validators,
		defaultSetter: defaultSetter,
	}
}

// NewDefaultLoader wires the env expander, defaults and every validator.
func NewDefaultLoader() *HarvestLoader {
	return NewHarvestLoader(
		&EnvExpander{},
		&HarvestDefaults{Getenv: os.Getenv},
		&RequiredFieldValidator{},
		&YearRangeValidator{},
		&PaginationValidator{},
		&AuthValidator{},
		&DestinationValidator{},
	)
}

// Default returns the stock harvest: every NCAR member,
// 2008 through 2021, written to a gzip CSV.
func Default() *Harvest {
	return &Harvest{
		Name:         "ncar-members-contributions",
		Organization: DefaultOrganization,
		Years:        YearRange{From: DefaultFromYear, To: DefaultToYear},
	}
}

// Load a harvest config from a YAML file
func (l *HarvestLoader) Load(path string) (*Harvest, error) {
	cfg, err := l.Read(path)
	if err != nil {
		return nil, err
	}
	return l.Prepare(cfg)
}

// Read loads a YAML file without defaults or validation, so callers can
// override fields before Prepare.
func (l *HarvestLoader) Read(path string) (*Harvest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "read config file")
	}

	return l.Decode(data)
}

// Parse parses a yaml config
func (l *HarvestLoader) Parse(data []byte) (*Harvest, error) {
	cfg, err := l.Decode(data)
	if err != nil {
		return nil, err
	}
	return l.Prepare(cfg)
}

// Decode expands variables and unmarshals data. Nothing is defaulted or
// validated.
func (l *HarvestLoader) Decode(data []byte) (*Harvest, error) {
	if l.expander != nil {
		data = l.expander.Expand(data)
	}

	var cfg Harvest
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "parse YAML")
	}

	return &cfg, nil
}

// Prepare applies defaults and runs the validators on an already built config.
func (l *HarvestLoader) Prepare(cfg *Harvest) (*Harvest, error) {
	if l.defaultSetter != nil {
		l.defaultSetter.SetDefaults(cfg)
	}

	var all ValidationErrors
	for _, validator := range l.validators {
		all = append(all, validator.Validate(cfg)...)
	}
	if len(all) > 0 {
		return nil, errors.WrapError(all, errors.ErrConfiguration, "validate config")
	}

	return cfg, nil
}

// HarvestDefaults implements DefaultValueSetter for Harvest
type HarvestDefaults struct {
	Getenv func(string) string
}

// SetDefaults sets default values for Harvest
func (d *HarvestDefaults) SetDefaults(cfg *Harvest) {
	if cfg.Name == "" {
		cfg.Name = cfg.Organization
	}
	if cfg.Source.Endpoint == "" {
		cfg.Source.Endpoint = DefaultEndpoint
	}

	if cfg.Source.Auth == nil {
		cfg.Source.Auth = &Auth{}
	}
	auth := cfg.Source.Auth
	if auth.Type == "" {
		auth.Type = AuthTypeToken
	}
	if auth.TokenEnv == "" {
		auth.TokenEnv = DefaultTokenEnv
	}
	if auth.Token == "" && d.Getenv != nil {
		auth.Token = d.Getenv(auth.TokenEnv)
	}

	if cfg.Years.From == 0 && cfg.Years.To == 0 {
		cfg.Years = YearRange{From: DefaultFromYear, To: DefaultToYear}
	}

	if cfg.Pagination.PageSize == 0 {
		cfg.Pagination.PageSize = DefaultPageSize
	}
	if cfg.Pagination.MaxPages == 0 {
		cfg.Pagination.MaxPages = DefaultMaxPages
	}

	if cfg.Destination.Type == "" {
		cfg.Destination.Type = DestinationCSVGzip
	}
	if cfg.Destination.Path == "" && cfg.Destination.Type == DestinationCSVGzip {
		cfg.Destination.Path = DefaultOutputPath
	}
	if cfg.Destination.Table == "" && cfg.Destination.Type == DestinationSQLite {
		cfg.Destination.Table = DefaultTable
	}
}

// RequiredFieldValidator validates required fields
type RequiredFieldValidator struct{}

// Validate checks that all required fields are present
func (v *RequiredFieldValidator) Validate(cfg *Harvest) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(cfg.Organization) == "" {
		errs = append(errs, ValidationError{Field: "organization", Message: "is required"})
	}
	if cfg.Source.Endpoint == "" {
		errs = append(errs, ValidationError{Field: "source.endpoint", Message: "is required"})
	}
	if cfg.Source.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "source.timeout", Message: "must not be negative"})
	}

	return errs
}

// YearRangeValidator checks the harvested year range
type YearRangeValidator struct{}

// Validate rejects empty or inverted ranges
func (v *YearRangeValidator) Validate(cfg *Harvest) []ValidationError {
	var errs []ValidationError

	if cfg.Years.From <= 0 || cfg.Years.To <= 0 {
		errs = append(errs, ValidationError{Field: "years", Message: "from and to must be positive"})
	} else if cfg.Years.From > cfg.Years.To {
		errs = append(errs, ValidationError{
			Field:   "years",
			Message: fmt.Sprintf("from (%d) is after to (%d)", cfg.Years.From, cfg.Years.To),
		})
	}

	return errs
}

// PaginationValidator validates pagination configuration
type PaginationValidator struct{}

// Validate checks that pagination configuration is valid
func (v *PaginationValidator) Validate(cfg *Harvest) []ValidationError {
	var errs []ValidationError

	if cfg.Pagination.PageSize < 1 || cfg.Pagination.PageSize > 100 {
		errs = append(errs, ValidationError{Field: "pagination.page_size", Message: "must be between 1 and 100"})
	}
	if cfg.Pagination.MaxPages < 1 {
		errs = append(errs, ValidationError{Field: "pagination.max_pages", Message: "must be positive"})
	}

	return errs
}

// AuthValidator handles authentication validation
type AuthValidator struct{}

// Validate checks that authentication configuration is valid
func (v *AuthValidator) Validate(cfg *Harvest) []ValidationError {
	var errs []ValidationError

	auth := cfg.Source.Auth
	if auth == nil {
		return []ValidationError{{Field: "source.auth", Message: "is required"}}
	}

	switch auth.Type {
	case AuthTypeToken, AuthTypeBearer:
		if auth.Token == "" {
			errs = append(errs, ValidationError{
				Field:   "source.auth.token",
				Message: fmt.Sprintf("is required (set %s)", auth.TokenEnv),
			})
		}
	default:
		errs = append(errs, ValidationError{Field: "source.auth.type", Message: fmt.Sprintf("unknown auth type: %s", auth.Type)})
	}

	return errs
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DestinationValidator checks the export target
type DestinationValidator struct{}

// Validate checks destination type and its required fields
func (v *DestinationValidator) Validate(cfg *Harvest) []ValidationError {
	var errs []ValidationError

	d := cfg.Destination
	switch d.Type {
	case DestinationCSVGzip:
	case DestinationSQLite:
		if !tableName.MatchString(d.Table) {
			errs = append(errs, ValidationError{Field: "destination.table", Message: fmt.Sprintf("invalid table name %q", d.Table)})
		}
	default:
		errs = append(errs, ValidationError{Field: "destination.type", Message: fmt.Sprintf("unknown destination type: %s", d.Type)})
	}
	if d.Path == "" {
		errs = append(errs, ValidationError{Field: "destination.path", Message: "is required"})
	}

	return errs
}
