package principal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehoyeon/greenhand/internal/account"
	"github.com/lehoyeon/greenhand/internal/apperr"
	"github.com/lehoyeon/greenhand/internal/logging"
)

type failingRepo struct {
	account.Repository
}

func (failingRepo) FindByUsername(context.Context, string) (account.Account, error) {
	return account.Account{}, errors.New("db down")
}

func seededResolver(t *testing.T, accounts ...account.Account) *Resolver {
	t.Helper()
	repo := account.NewMemoryRepository()
	for _, acc := range accounts {
		acc.CreatedAt = time.Now()
		_, err := repo.Insert(context.Background(), acc)
		require.NoError(t, err)
	}
	return NewResolver(repo, logging.Discard())
}

func kakaoAttrs(nickname, email string) map[string]any {
	kakao := map[string]any{"profile": map[string]any{"nickname": nickname}}
	if email != "" {
		kakao["email"] = email
	}
	return map[string]any{"id": "12345", "kakao_account": kakao}
}

func strp(s string) *string { return &s }

func TestResolve(t *testing.T) {
	stored := account.Account{Username: "12345", Nickname: "Bob", Email: "bob@example.com"}
	local := account.Account{Username: "alice01", Nickname: "Al", Email: "alice@example.com"}
	resolver := seededResolver(t, stored, local)

	tests := []struct {
		name string
		in   Principal
		want Identity
	}{
		{
			name: "local backfills from store",
			in:   Local{Username: "alice01"},
			want: Identity{Username: "alice01", Nickname: "Al", Email: strp("alice@example.com")},
		},
		{
			name: "local without stored account falls back to username",
			in:   Local{Username: "ghost01"},
			want: Identity{Username: "ghost01", Nickname: "ghost01"},
		},
		{
			name: "social empty nickname uses stored",
			in:   Social{Provider: "kakao", ProviderID: "12345", Attributes: kakaoAttrs("", "")},
			want: Identity{Username: "12345", Nickname: "Bob", Email: strp("bob@example.com")},
		},
		{
			name: "social provider nickname wins",
			in:   Social{Provider: "kakao", ProviderID: "12345", Attributes: kakaoAttrs("Bob2", "kakao@example.com")},
			want: Identity{Username: "12345", Nickname: "Bob2", Email: strp("kakao@example.com")},
		},
		{
			name: "social null sentinel uses stored",
			in:   Social{Provider: "kakao", ProviderID: "12345", Attributes: kakaoAttrs("null", "")},
			want: Identity{Username: "12345", Nickname: "Bob", Email: strp("bob@example.com")},
		},
		{
			name: "social top-level attributes",
			in:   Social{Provider: "kakao", ProviderID: "12345", Attributes: map[string]any{"nickname": "Top", "email": "top@example.com"}},
			want: Identity{Username: "12345", Nickname: "Top", Email: strp("top@example.com")},
		},
		{
			name: "social unknown everywhere",
			in:   Social{Provider: "kakao", ProviderID: "999"},
			want: Identity{Username: "999", Nickname: "999"},
		},
		{
			name: "social without any username",
			in:   Social{Provider: "kakao"},
			want: Identity{Nickname: "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRejects(t *testing.T) {
	resolver := seededResolver(t)

	tests := []struct {
		name string
		in   Principal
		code string
	}{
		{"nil", nil, apperr.CodeUnauthenticated},
		{"none", None{}, apperr.CodeUnauthenticated},
		{"pointer local", &Local{Username: "alice01"}, apperr.CodeUnrecognizedPrincipal},
		{"pointer social", &Social{ProviderID: "1"}, apperr.CodeUnrecognizedPrincipal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperr.CodeOf(err))
			assert.Equal(t, 401, apperr.Status(err))
		})
	}
}

func TestResolveStoreFailure(t *testing.T) {
	resolver := NewResolver(failingRepo{}, logging.Discard())

	_, err := resolver.Resolve(context.Background(), Local{Username: "alice01"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))

	// Provider supplied everything, so the store is never consulted.
	id, err := resolver.Resolve(context.Background(), Social{ProviderID: "1", Attributes: kakaoAttrs("Kim", "kim@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Kim", id.Nickname)
}
