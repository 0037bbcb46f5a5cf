package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnines/contrib-harvest/pkg/config"
	"github.com/saturnines/contrib-harvest/pkg/errors"
	"github.com/saturnines/contrib-harvest/pkg/github"
	"github.com/saturnines/contrib-harvest/pkg/transport/graphql"
)

func TestLoadConfig_DefaultsAndOverrides(t *testing.T) {
	t.Setenv(config.DefaultTokenEnv, "tok")

	cfg, err := loadConfig("", overrides{})
	require.NoError(t, err)
	assert.Equal(t, "NCAR", cfg.Organization)
	assert.Equal(t, config.YearRange{From: 2008, To: 2021}, cfg.Years)
	assert.Equal(t, config.DefaultOutputPath, cfg.Destination.Path)
	assert.Equal(t, "tok", cfg.Source.Auth.Token)

	cfg, err = loadConfig("", overrides{Organization: "octo", From: 2019, To: 2020, Out: "x.csv.gz"})
	require.NoError(t, err)
	assert.Equal(t, "octo", cfg.Organization)
	assert.Equal(t, config.YearRange{From: 2019, To: 2020}, cfg.Years)
	assert.Equal(t, "x.csv.gz", cfg.Destination.Path)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	t.Setenv(config.DefaultTokenEnv, "")

	_, err := loadConfig("", overrides{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
	assert.Contains(t, err.Error(), "GH_PERSONAL_TOKEN")
}

func TestLoadConfig_InvertedOverride(t *testing.T) {
	t.Setenv(config.DefaultTokenEnv, "tok")

	_, err := loadConfig("", overrides{From: 2022})
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("MY_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "harvest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
organization: octo-org
source:
  auth:
    type: bearer
    token_env: MY_TOKEN
years:
  from: 2015
  to: 2016
destination:
  type: sqlite
  path: out.db
`), 0o644))

	cfg, err := loadConfig(path, overrides{To: 2017})
	require.NoError(t, err)
	assert.Equal(t, "octo-org", cfg.Organization)
	assert.Equal(t, config.AuthTypeBearer, cfg.Source.Auth.Type)
	assert.Equal(t, "from-env", cfg.Source.Auth.Token)
	assert.Equal(t, config.YearRange{From: 2015, To: 2017}, cfg.Years)
	assert.Equal(t, config.DefaultTable, cfg.Destination.Table)
}

func TestLoadConfig_FileCompletedByFlags(t *testing.T) {
	t.Setenv(config.DefaultTokenEnv, "tok")
	path := filepath.Join(t.TempDir(), "harvest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
years:
  from: 2018
destination:
  path: partial.csv.gz
`), 0o644))

	_, err := loadConfig(path, overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "organization: is required")

	cfg, err := loadConfig(path, overrides{Organization: "octo-org", To: 2019})
	require.NoError(t, err)
	assert.Equal(t, "octo-org", cfg.Organization)
	assert.Equal(t, "octo-org", cfg.Name)
	assert.Equal(t, config.YearRange{From: 2018, To: 2019}, cfg.Years)
	assert.Equal(t, "partial.csv.gz", cfg.Destination.Path)
}

func fakeGitHub(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphql.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request: %v", err)
			return
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch req.Query {
		case github.MembersQuery:
			fmt.Fprint(w, `{"data":{"organization":{"membersWithRole":{"edges":[{"node":{"login":"alice","name":"Alice"}}],"pageInfo":{"hasNextPage":false,"endCursor":null}}}}}`)
		case github.ContributionsQuery:
			since := req.Variables["since"].(string)
			fmt.Fprintf(w, `{"data":{"user":{"login":"alice","contributionsCollection":{"contributionCalendar":{"weeks":[{"contributionDays":[{"date":"%s-06-01","contributionCount":4}]}]}}}}}`, since[:4])
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(endpoint, out string) *config.Harvest {
	cfg := config.Default()
	cfg.Source.Endpoint = endpoint
	cfg.Source.Auth = &config.Auth{Type: config.AuthTypeToken, Token: "tok"}
	cfg.Years = config.YearRange{From: 2020, To: 2021}
	cfg.Destination.Path = out
	return cfg
}

func TestApp_Run_WritesCSVGzip(t *testing.T) {
	srv := fakeGitHub(t, http.StatusOK)
	out := filepath.Join(t.TempDir(), "nested", "out.csv.gz")

	cfg, err := config.NewDefaultLoader().Prepare(testConfig(srv.URL, out))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, NewApp(cfg, "run-1", logger).Run(context.Background()))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	records, err := csv.NewReader(gz).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"date", "contributionCount", "user"},
		{"2020-06-01", "4", "alice"},
		{"2021-06-01", "4", "alice"},
	}, records)
}

func TestApp_Run_FailureLeavesNoFile(t *testing.T) {
	srv := fakeGitHub(t, http.StatusUnauthorized)
	out := filepath.Join(t.TempDir(), "out.csv.gz")

	cfg, err := config.NewDefaultLoader().Prepare(testConfig(srv.URL, out))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err = NewApp(cfg, "run-2", logger).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrHTTPResponse))

	var httpErr *graphql.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
