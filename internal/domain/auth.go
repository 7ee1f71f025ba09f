package domain

import (
	"context"
	"time"
)

// TokenIssuer issues signed bearer tokens for a display name.
type TokenIssuer interface {
	Issue(name string, expiry time.Duration) (string, error)
}

// TokenVerifier validates a bearer token and returns the display name it was
// issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthService defines the username-only login. There is no password; the name
// is only used as a display identity when joining sessions.
type AuthService interface {
	Login(ctx context.Context, name string) (string, error)
}
