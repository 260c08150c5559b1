package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lehoyeon/greenhand/internal/account"
	"github.com/lehoyeon/greenhand/internal/apperr"
)

// PasswordHasher derives a storable digest from a plaintext password.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// Service registers new accounts.
type Service struct {
	accounts account.Repository
	hasher   PasswordHasher
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new registration service.
func NewService(accounts account.Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, hasher: hasher, logger: logger, now: time.Now}
}

// Register stores a new account. The password confirmation is compared
// before any store access; uniqueness is then checked for username, email and
// nickname in that order and the first conflict is reported.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (account.Account, error) {
	if req.Password != req.ConfirmPassword {
		return account.Account{}, apperr.Validation(apperr.CodePasswordMismatch, "confirmPassword", "password and confirmation do not match")
	}

	if err := s.ensureUnique(ctx, req); err != nil {
		return account.Account{}, err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return account.Account{}, apperr.Internal(err)
	}

	stored, err := s.accounts.Insert(ctx, account.Account{
		Username:     req.Username,
		PasswordHash: digest,
		Nickname:     req.Nickname,
		Name:         req.Name,
		Email:        req.Email,
		Address:      req.Address,
		PhoneNumber:  account.NormalizePhone(req.PhoneNumber),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		var dup *account.DuplicateError
		if errors.As(err, &dup) {
			return account.Account{}, taken(dup.Field)
		}
		return account.Account{}, apperr.Internal(err)
	}

	s.logger.Info("account registered", slog.String("username", stored.Username), slog.String("account_id", stored.ID))
	return stored, nil
}

func (s *Service) ensureUnique(ctx context.Context, req RegisterRequest) error {
	checks := []struct {
		field string
		value string
		exist func(context.Context, string) (bool, error)
	}{
		{account.FieldUsername, req.Username, s.accounts.ExistsByUsername},
		{account.FieldEmail, req.Email, s.accounts.ExistsByEmail},
		{account.FieldNickname, req.Nickname, s.accounts.ExistsByNickname},
	}
	for _, check := range checks {
		if check.value == "" && check.field != account.FieldUsername {
			continue
		}
		found, err := check.exist(ctx, check.value)
		if err != nil {
			return apperr.Internal(err)
		}
		if found {
			return taken(check.field)
		}
	}
	return nil
}

func taken(field string) error {
	switch field {
	case account.FieldEmail:
		return apperr.Validation(apperr.CodeEmailTaken, "email", "email is already in use")
	case account.FieldNickname:
		return apperr.Validation(apperr.CodeNicknameTaken, "nickname", "nickname is already in use")
	default:
		return apperr.Validation(apperr.CodeUsernameTaken, "username", "username is already taken")
	}
}
