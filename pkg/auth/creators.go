package auth

import (
	"fmt"

	"github.com/saturnines/contrib-harvest/pkg/config"
	"github.com/saturnines/contrib-harvest/pkg/errors"
)

// Creator functions for auth handlers

func createTokenAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.Token == "" {
		return nil, errors.WrapError(
			fmt.Errorf("token is required (set %s)", authConfig.TokenEnv),
			errors.ErrConfiguration,
			"create token auth",
		)
	}
	return NewTokenAuth(authConfig.Token), nil
}

func createBearerAuth(authConfig *config.Auth) (Handler, error) {
	if authConfig.Token == "" {
		return nil, errors.WrapError(
			fmt.Errorf("bearer token is required (set %s)", authConfig.TokenEnv),
			errors.ErrConfiguration,
			"create bearer auth",
		)
	}
	return NewBearerAuth(authConfig.Token), nil
}
