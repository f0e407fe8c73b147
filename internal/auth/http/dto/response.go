// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	authUseCase "github.com/suportify/helpdesk/internal/auth/usecase"
)

// LoginResponse contains the result of a successful login.
// SECURITY: The token is only returned once and must be stored by the caller.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Realm     string    `json:"realm"`
}

// MapLoginResultToResponse converts a login result to an API response.
func MapLoginResultToResponse(result *authUseCase.LoginResult) LoginResponse {
	return LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Realm:     string(result.Principal.Realm),
	}
}
