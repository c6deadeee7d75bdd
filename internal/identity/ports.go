// Package identity defines the authentication port. The firebase subpackage
// verifies real ID tokens; the static subpackage serves tests and local
// development with a fixed token table.
package identity

import "context"

// User is the authenticated caller.
type User struct {
	UID           string
	Email         string
	EmailVerified bool
}

// Verifier checks a bearer token and resolves the caller. Implementations
// return an error wrapping core.ErrNotAuthenticated for bad tokens.
type Verifier interface {
	Verify(ctx context.Context, token string) (User, error)
}

// Manager extends Verifier with account administration, used by the profile
// service's account deletion cascade.
type Manager interface {
	Verifier
	GetUser(ctx context.Context, uid string) (User, error)
	DeleteUser(ctx context.Context, uid string) error
}
