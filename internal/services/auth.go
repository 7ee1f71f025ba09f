package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moija/internal/domain"
)

type authService struct {
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
}

// NewAuthService creates the username-only AuthService. A login simply issues
// a bearer token for a valid display name; there are no accounts.
func NewAuthService(tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Login(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if !domain.ValidParticipantName(name) {
		return "", fmt.Errorf("display name must be 2-24 letters, digits, underscore or hyphen: %w", domain.ErrInvalidInput)
	}
	token, err := s.tokenIssuer.Issue(name, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
