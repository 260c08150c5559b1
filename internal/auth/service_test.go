package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lehoyeon/greenhand/internal/account"
	"github.com/lehoyeon/greenhand/internal/apperr"
	"github.com/lehoyeon/greenhand/internal/logging"
	"github.com/lehoyeon/greenhand/internal/principal"
)

type brokenRepo struct {
	account.Repository
}

func (brokenRepo) FindByUsername(context.Context, string) (account.Account, error) {
	return account.Account{}, errors.New("connection refused")
}

func newTestService(t *testing.T) (*Service, account.Repository) {
	t.Helper()
	repo := account.NewMemoryRepository()
	hasher := NewHasher(bcrypt.MinCost)
	digest, err := hasher.Hash("passw0rd!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := repo.Insert(context.Background(), account.Account{
		Username:     "alice01",
		PasswordHash: digest,
		Nickname:     "Al",
		Email:        "alice@example.com",
		CreatedAt:    time.Now(),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	tokens := NewTokens(testKey, time.Hour, logging.Discard())
	return NewService(repo, hasher, tokens, NewMemoryRevocations(), logging.Discard()), repo
}

func TestLoginIssuesTokenAndStampsLastLogin(t *testing.T) {
	svc, repo := newTestService(t)

	session, err := svc.Login(context.Background(), "alice01", "passw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.TokenType != "Bearer" || session.ExpiresIn != 3600 || session.AccessToken == "" {
		t.Fatalf("unexpected session: %+v", session)
	}

	acc, err := repo.FindByUsername(context.Background(), "alice01")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if acc.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}

	p, err := svc.Authenticate(context.Background(), session.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if local, ok := p.(principal.Local); !ok || local.Username != "alice01" {
		t.Fatalf("expected local principal, got %#v", p)
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	svc, _ := newTestService(t)

	cases := map[string][2]string{
		"unknown user":   {"nobody01", "passw0rd!"},
		"wrong password": {"alice01", "wrong!pw1"},
		"blank":          {"", ""},
	}
	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), creds[0], creds[1])
			if apperr.CodeOf(err) != apperr.CodeInvalidCredentials {
				t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
			}
			if apperr.Status(err) != 401 {
				t.Fatalf("expected 401, got %d", apperr.Status(err))
			}
		})
	}
}

func TestLoginStoreFailureIsInternal(t *testing.T) {
	svc := NewService(brokenRepo{}, NewHasher(bcrypt.MinCost), NewTokens(testKey, time.Hour, logging.Discard()), NewMemoryRevocations(), logging.Discard())

	_, err := svc.Login(context.Background(), "alice01", "passw0rd!")
	if apperr.CodeOf(err) != apperr.CodeInternal {
		t.Fatalf("expected INTERNAL, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "alice01", "passw0rd!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx, session.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, session.AccessToken); apperr.CodeOf(err) != apperr.CodeInvalidToken {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
	if err := svc.Logout(ctx, "garbage"); apperr.CodeOf(err) != apperr.CodeInvalidToken {
		t.Fatalf("expected INVALID_TOKEN for garbage, got %v", err)
	}
}

func TestSocialSessionRestoresPrincipal(t *testing.T) {
	svc, _ := newTestService(t)

	session, err := svc.IssueSocial(principal.Social{
		Provider:   "kakao",
		ProviderID: "12345",
		Attributes: map[string]any{
			"kakao_account": map[string]any{
				"email":   "kim@example.com",
				"profile": map[string]any{"nickname": "Kim"},
			},
		},
	})
	if err != nil {
		t.Fatalf("issue social: %v", err)
	}

	p, err := svc.Authenticate(context.Background(), session.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	social, ok := p.(principal.Social)
	if !ok {
		t.Fatalf("expected social principal, got %#v", p)
	}
	if social.ProviderID != "12345" || social.Nickname() != "Kim" || social.Email() != "kim@example.com" {
		t.Fatalf("unexpected social principal: %#v", social)
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"standard":     {"Bearer abc.def.ghi", "abc.def.ghi", true},
		"lowercase":    {"bearer abc", "abc", true},
		"missing":      {"", "", false},
		"basic scheme": {"Basic Zm9vOmJhcg==", "", false},
		"no token":     {"Bearer ", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			token, ok := BearerToken(tc.header)
			if token != tc.token || ok != tc.ok {
				t.Fatalf("BearerToken(%q) = %q, %v", tc.header, token, ok)
			}
		})
	}
}
