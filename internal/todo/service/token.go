package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/todolist/pkg/jwtx"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
)

// TokenService mints bearer access tokens for API clients.
type TokenService struct {
	Accounts *AccountService
	Signer   jwtx.Signer
	Issuer   string
	TTL      time.Duration
	Now      func() time.Time
}

type AccessToken struct {
	Token     string
	ExpiresIn time.Duration
}

// IssueAccessToken exchanges a username/password pair for a signed JWT.
func (s *TokenService) IssueAccessToken(ctx context.Context, username, password string) (AccessToken, error) {
	log := slogx.FromContext(ctx)

	u, err := s.Accounts.Authenticate(ctx, username, password)
	if err != nil {
		log.Warn("token request rejected", slog.String("username", username))
		return AccessToken{}, err
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(u.ID, u.Username, s.Issuer, ttl, nowUTC(s.Now))
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	log.Info("access token issued", slog.String("user_id", u.ID), slog.String("kid", s.Signer.KID()))
	return AccessToken{Token: token, ExpiresIn: ttl}, nil
}
