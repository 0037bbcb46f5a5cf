package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/saturnines/contrib-harvest/pkg/errors"
)

// maxErrorBody bounds how much of a failed response ends up in an HTTPError.
const maxErrorBody = 4 << 10

// HTTPDoer is the minimal interface the client needs from an HTTP client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client executes GraphQL operations.
type Client struct {
	doer   HTTPDoer
	logger *slog.Logger
}

// NewClient wraps an HTTPDoer (e.g. *http.Client). A nil doer gets a fresh
// *http.Client with no timeout beyond the transport default.
func NewClient(doer HTTPDoer, opts ...ClientOption) *Client {
	if doer == nil {
		doer = &http.Client{}
	}
	c := &Client{doer: doer, logger: slog.Default()}
	c.ApplyOptions(opts...)
	return c
}

func (c *Client) execute(req *http.Request) (*http.Response, error) {
	return c.doer.Do(req)
}

// Do performs exactly one POST for the builder's current query and variables
// and decodes the "data" member into out. Nothing is retried.
func (c *Client) Do(ctx context.Context, b *Builder, out interface{}) error {
	req, err := b.Build(ctx)
	if err != nil {
		return errors.WrapError(err, errors.ErrHTTPRequest, "build GraphQL request")
	}

	c.logger.Debug("graphql request", "endpoint", b.Endpoint, "variables", b.Variables)

	resp, err := c.execute(req)
	if err != nil {
		return errors.WrapError(err, errors.ErrHTTPRequest, "post GraphQL query")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.WrapError(
			&HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)},
			errors.ErrHTTPResponse,
			"unexpected status code",
		)
	}

	var envelope Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.WrapError(err, errors.ErrDecode, "decode GraphQL response")
	}

	if len(envelope.Errors) > 0 {
		return errors.WrapError(&GraphQLError{Errors: envelope.Errors}, errors.ErrGraphQL, "GraphQL query failed")
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return errors.WrapError(fmt.Errorf("response has no data"), errors.ErrDecode, "decode GraphQL response")
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errors.WrapError(err, errors.ErrDecode, "decode GraphQL data")
	}

	return nil
}
