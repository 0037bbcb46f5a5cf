package graphql

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the standard GraphQL envelope.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorEntry    `json:"errors,omitempty"`
}

// ErrorEntry is one element of the "errors" array.
type ErrorEntry struct {
	Message string        `json:"message"`
	Type    string        `json:"type,omitempty"`
	Path    []interface{} `json:"path,omitempty"`
}

// HTTPError wraps non-2xx responses
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s: %s", e.StatusCode, e.Status, e.Body)
}

// GraphQLError carries the errors array of an otherwise successful response.
type GraphQLError struct {
	Errors []ErrorEntry
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, entry := range e.Errors {
		if entry.Type != "" {
			msgs = append(msgs, entry.Type+": "+entry.Message)
			continue
		}
		msgs = append(msgs, entry.Message)
	}
	return strings.Join(msgs, "; ")
}
