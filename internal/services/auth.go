package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"techcalendar/internal/domain"
)

// TokenScope is the scope claim carried by staff tokens.
const TokenScope = "calendar_api"

type authService struct {
	staffUsername     string
	staffPasswordHash string
	issuer            domain.TokenIssuer
	tokenExpiry       time.Duration
}

// NewAuthService creates an AuthService that checks the configured staff
// credentials and issues bearer tokens via the given issuer.
func NewAuthService(staffUsername, staffPasswordHash string, issuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		staffUsername:     staffUsername,
		staffPasswordHash: staffPasswordHash,
		issuer:            issuer,
		tokenExpiry:       tokenExpiry,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	if s.staffUsername == "" || s.staffPasswordHash == "" {
		return "", fmt.Errorf("staff credentials are not configured")
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.staffUsername)) != 1 {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.staffPasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.issuer.Issue(TokenScope, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
