package principal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lehoyeon/greenhand/internal/account"
	"github.com/lehoyeon/greenhand/internal/apperr"
)

const (
	nullSentinel    = "null"
	defaultNickname = "user"
)

// Identity is the display view of the current user.
type Identity struct {
	Username string  `json:"username"`
	Nickname string  `json:"nickname"`
	Email    *string `json:"email"`
}

// Resolver turns a Principal into an Identity, backfilling from the account store.
type Resolver struct {
	accounts account.Repository
	logger   *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(accounts account.Repository, logger *slog.Logger) *Resolver {
	return &Resolver{accounts: accounts, logger: logger}
}

// Resolve normalises p. Provider-supplied values win when non-empty; anything
// missing is taken from the stored account with the same username.
func (r *Resolver) Resolve(ctx context.Context, p Principal) (Identity, error) {
	var username, nickname, email string

	switch v := p.(type) {
	case nil, None, *None:
		return Identity{}, apperr.Authentication(apperr.CodeUnauthenticated, "authentication required")
	case Local:
		username = v.Username
	case Social:
		username = v.ProviderID
		nickname = v.Nickname()
		email = v.Email()
	default:
		r.logger.Warn("unrecognized principal", slog.String("type", fmt.Sprintf("%T", p)))
		return Identity{}, apperr.Authentication(apperr.CodeUnrecognizedPrincipal, "unrecognized authentication principal")
	}

	if !usable(nickname) || email == "" {
		stored, err := r.accounts.FindByUsername(ctx, username)
		switch {
		case err == nil:
			if !usable(nickname) {
				nickname = stored.Nickname
			}
			if email == "" {
				email = stored.Email
			}
		case errors.Is(err, account.ErrNotFound):
		default:
			return Identity{}, apperr.Internal(err)
		}
	}

	id := Identity{Username: username, Nickname: displayNickname(nickname, username)}
	if email != "" {
		id.Email = &email
	}
	return id, nil
}

func usable(nickname string) bool {
	return nickname != "" && nickname != nullSentinel
}

func displayNickname(nickname, username string) string {
	switch {
	case usable(nickname):
		return nickname
	case username != "":
		return username
	default:
		return defaultNickname
	}
}
