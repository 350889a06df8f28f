package services

import (
	"context"

	"github.com/pagebound/pagebound/internal/logging"
)

// IdentityProvider is the contract for the external identity service that
// owns signup, login, and credentials. Pagebound only ever asks it to kick
// off a password reset; everything else happens outside this process.
type IdentityProvider interface {
	ResetPassword(ctx context.Context, email string) error
}

// ConsoleIdentityProvider stands in for the real provider in local dev and
// tests: it logs the reset instead of sending one.
type ConsoleIdentityProvider struct{}

func NewConsoleIdentityProvider() *ConsoleIdentityProvider {
	return &ConsoleIdentityProvider{}
}

func (p *ConsoleIdentityProvider) ResetPassword(ctx context.Context, email string) error {
	logging.Info("Password reset requested (console identity provider)", map[string]interface{}{"email": email})
	return nil
}
