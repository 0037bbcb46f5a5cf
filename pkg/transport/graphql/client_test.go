package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/saturnines/contrib-harvest/pkg/auth"
	herrors "github.com/saturnines/contrib-harvest/pkg/errors"
)

type viewerData struct {
	Viewer struct {
		Login string `json:"login"`
	} `json:"viewer"`
}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Do_SendsQueryVariablesAndAuth(t *testing.T) {
	var got Request
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		if a := r.Header.Get("Authorization"); a != "token s3cret" {
			t.Errorf("Expected token auth header, got %q", a)
		}
		if ua := r.Header.Get("User-Agent"); ua != "contrib-harvest" {
			t.Errorf("Expected custom User-Agent, got %q", ua)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to parse GraphQL request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"viewer":{"login":"octocat"}}}`))
	})

	b := NewBuilder(srv.URL, "query { viewer { login } }",
		WithAuthHandler(auth.NewTokenAuth("s3cret")),
		WithHeader("User-Agent", "contrib-harvest"),
		WithVariable("after", nil),
		WithVariables(map[string]interface{}{"org": "octo-org"}),
	)

	var out viewerData
	if err := NewClient(srv.Client()).Do(context.Background(), b, &out); err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	if out.Viewer.Login != "octocat" {
		t.Errorf("Expected login octocat, got %q", out.Viewer.Login)
	}
	if got.Query != "query { viewer { login } }" {
		t.Errorf("Unexpected query %q", got.Query)
	}
	if got.Variables["org"] != "octo-org" {
		t.Errorf("Expected org variable, got %v", got.Variables)
	}
	if v, ok := got.Variables["after"]; !ok || v != nil {
		t.Errorf("Expected after to be sent as null, got %v (present=%v)", v, ok)
	}
}

func TestClient_Do_NonSuccessStatus(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	err := NewClient(srv.Client()).Do(context.Background(), NewBuilder(srv.URL, "query{}"), nil)
	if !herrors.Is(err, herrors.ErrHTTPResponse) {
		t.Fatalf("Expected ErrHTTPResponse, got %v", err)
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError in chain, got %v", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", httpErr.StatusCode)
	}
	if !strings.Contains(httpErr.Body, "Bad credentials") {
		t.Errorf("Expected body in error, got %q", httpErr.Body)
	}
}

func TestClient_Do_GraphQLErrors(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"organization":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to an Organization with the login of 'nope'."}]}`))
	})

	err := NewClient(srv.Client()).Do(context.Background(), NewBuilder(srv.URL, "query{}"), &struct{}{})
	if !herrors.Is(err, herrors.ErrGraphQL) {
		t.Fatalf("Expected ErrGraphQL, got %v", err)
	}
	if !strings.Contains(err.Error(), "NOT_FOUND: Could not resolve") {
		t.Errorf("Expected GraphQL message in error, got %q", err.Error())
	}
}

func TestClient_Do_DecodeErrors(t *testing.T) {
	tests := map[string]string{
		"malformed JSON": `{"data":`,
		"null data":      `{"data":null}`,
		"wrong type":     `{"data":{"viewer":{"login":42}}}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			var out viewerData
			err := NewClient(srv.Client()).Do(context.Background(), NewBuilder(srv.URL, "query{}"), &out)
			if !herrors.Is(err, herrors.ErrDecode) {
				t.Errorf("Expected ErrDecode, got %v", err)
			}
		})
	}
}

type failingDoer struct{ err error }

func (f failingDoer) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestClient_Do_TransportErrorPropagates(t *testing.T) {
	cause := errors.New("connection refused")
	// the default *http.Client is swapped out before any request is made
	c := NewClient(nil, WithHTTPDoer(failingDoer{err: cause}))
	if _, ok := c.doer.(failingDoer); !ok {
		t.Fatalf("Expected WithHTTPDoer to replace the doer, got %T", c.doer)
	}
	err := c.Do(context.Background(), NewBuilder("http://invalid.test", "query{}"), nil)

	if !herrors.Is(err, herrors.ErrHTTPRequest) {
		t.Fatalf("Expected ErrHTTPRequest, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected original cause in chain, got %v", err)
	}
}

func TestClient_Do_AuthFailureStopsBeforeSending(t *testing.T) {
	calls := 0
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	b := NewBuilder(srv.URL, "query{}", WithAuthHandler(auth.NewTokenAuth("")))
	err := NewClient(srv.Client()).Do(context.Background(), b, nil)

	if !herrors.Is(err, herrors.ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration from auth, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no request to be sent, got %d", calls)
	}
}

func TestWithTimeout(t *testing.T) {
	hc := &http.Client{}
	NewClient(hc, WithTimeout(5*time.Second))
	if hc.Timeout != 5*time.Second {
		t.Errorf("Expected timeout to be applied, got %v", hc.Timeout)
	}
}
