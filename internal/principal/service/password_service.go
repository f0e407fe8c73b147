// Package service provides principal-related services. Passwords are hashed
// with Argon2id; plain passwords never reach a repository.
package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/suportify/helpdesk/internal/errors"
)

// PasswordService hashes and verifies principal passwords.
type PasswordService interface {
	// Hash returns the Argon2id hash of a plain password.
	Hash(plainPassword string) (string, error)
	// Verify performs a constant-time comparison between a plain password
	// and its stored hash.
	Verify(plainPassword string, hashedPassword string) bool
}

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordService creates a PasswordService with the interactive Argon2id
// policy, balancing login latency against hardening.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}

// Hash returns the Argon2id hash of a plain password.
func (s *passwordService) Hash(plainPassword string) (string, error) {
	hashed, err := s.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hashed, nil
}

// Verify performs a constant-time comparison between a plain password and its hash.
func (s *passwordService) Verify(plainPassword string, hashedPassword string) bool {
	ok, err := s.hasher.Verify([]byte(plainPassword), hashedPassword)
	if err != nil {
		return false
	}
	return ok
}
