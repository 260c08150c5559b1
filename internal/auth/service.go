package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/lehoyeon/greenhand/internal/account"
	"github.com/lehoyeon/greenhand/internal/apperr"
	"github.com/lehoyeon/greenhand/internal/principal"
)

const tokenType = "Bearer"

// Session is the token payload handed to a client after a successful login.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Service verifies credentials and manages token lifecycles.
type Service struct {
	accounts account.Repository
	hasher   *Hasher
	tokens   *Tokens
	revoked  Revocations
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the login service.
func NewService(accounts account.Repository, hasher *Hasher, tokens *Tokens, revoked Revocations, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		revoked:  revoked,
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks username and password and issues an access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, invalidCredentials()
	}

	acc, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return Session{}, invalidCredentials()
		}
		return Session{}, apperr.Internal(err)
	}
	if !s.hasher.Verify(password, acc.PasswordHash) {
		return Session{}, invalidCredentials()
	}

	if err := s.accounts.TouchLastLogin(ctx, acc.Username, s.now()); err != nil {
		s.logger.Warn("record last login failed", slog.String("username", acc.Username), slog.Any("error", err))
	}

	token, err := s.tokens.Issue(acc.Username)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}
	return s.session(token), nil
}

// IssueSocial starts a session for a federated identity.
func (s *Service) IssueSocial(p principal.Social) (Session, error) {
	token, err := s.tokens.IssueSocial(p.ProviderID, SocialProfile{
		Provider: p.Provider,
		Nickname: p.Nickname(),
		Email:    p.Email(),
	})
	if err != nil {
		return Session{}, apperr.Internal(err)
	}
	return s.session(token), nil
}

// Authenticate turns a bearer token into the principal it was issued for.
func (s *Service) Authenticate(ctx context.Context, token string) (principal.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperr.Authentication(apperr.CodeInvalidToken, "invalid or expired token")
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if revoked {
		return nil, apperr.Authentication(apperr.CodeInvalidToken, "token has been revoked")
	}

	if claims.Provider == "" {
		return principal.Local{Username: claims.Subject}, nil
	}
	attrs := map[string]any{}
	if claims.Nickname != "" {
		attrs["nickname"] = claims.Nickname
	}
	if claims.Email != "" {
		attrs["email"] = claims.Email
	}
	return principal.Social{Provider: claims.Provider, ProviderID: claims.Subject, Attributes: attrs}, nil
}

// Logout revokes token until it would have expired.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return apperr.Authentication(apperr.CodeInvalidToken, "invalid or expired token")
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperr.Internal(err)
	}
	s.logger.Info("session revoked", slog.String("subject", claims.Subject))
	return nil
}

func (s *Service) session(token string) Session {
	return Session{AccessToken: token, TokenType: tokenType, ExpiresIn: int64(s.tokens.TTL().Seconds())}
}

func invalidCredentials() error {
	return apperr.Authentication(apperr.CodeInvalidCredentials, "invalid username or password")
}
