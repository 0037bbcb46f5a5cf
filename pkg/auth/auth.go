package auth

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/saturnines/contrib-harvest/pkg/errors"
)

// Handler defines the interface for auth handlers
type Handler interface {
	ApplyAuth(req *http.Request) error
}

// TokenAuth sends a GitHub access token as "Authorization: token <secret>".
type TokenAuth struct {
	Token string
}

// NewTokenAuth creates a new token authentication handler
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{Token: token}
}

// ApplyAuth sets the Authorization header with the "token" scheme
func (a *TokenAuth) ApplyAuth(req *http.Request) error {
	return setAuthHeader(req, "token", a.Token)
}

// String returns a string representation of this auth method
func (a *TokenAuth) String() string {
	return "TokenAuth(token: [REDACTED])"
}

// setAuthHeader lets oauth2.Token format the header. A TokenType other than
// bearer/mac/basic is passed through verbatim, which is how "token" survives.
func setAuthHeader(req *http.Request, scheme, token string) error {
	if token == "" {
		return errors.WrapError(
			fmt.Errorf("token is empty"),
			errors.ErrConfiguration,
			fmt.Sprintf("apply %s auth", scheme),
		)
	}

	tok := &oauth2.Token{AccessToken: token, TokenType: scheme}
	tok.SetAuthHeader(req)
	return nil
}
