package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

// Checker resolves a session token into the owning user ID.
// Returns ErrNotLoggedIn for unknown or expired tokens.
type Checker interface {
	CheckSession(ctx context.Context, token string) (userID string, err error)
}
