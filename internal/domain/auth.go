package domain

import (
	"context"
	"time"
)

// TokenIssuer issues signed bearer tokens for staff access.
type TokenIssuer interface {
	Issue(scope string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns its scope claim.
type TokenVerifier interface {
	Verify(token string) (scope string, err error)
}

// AuthService exchanges staff credentials for a bearer token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, err error)
}
