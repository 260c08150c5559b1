// Package recovery answers "forgot my id" and "forgot my password" requests.
package recovery

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lehoyeon/greenhand/internal/account"
	"github.com/lehoyeon/greenhand/internal/apperr"
	"github.com/lehoyeon/greenhand/internal/notification"
)

// Service scopes recovery lookups to exact (identifier, phone) pairs.
type Service struct {
	accounts account.Repository
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService builds a recovery service.
func NewService(accounts account.Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, notifier: notifier, logger: logger}
}

// FindUsername returns the username registered with email and phone.
func (s *Service) FindUsername(ctx context.Context, email, phone string) (string, error) {
	acc, err := s.lookup(ctx, strings.TrimSpace(email), phone, s.accounts.FindByEmailAndPhoneNumber)
	if err != nil {
		return "", err
	}
	if acc == nil {
		return "", apperr.NotFound(apperr.CodeAccountNotFound, "no account matches that email and phone number")
	}
	return acc.Username, nil
}

// VerifyForReset reports whether username and phone belong to the same account.
func (s *Service) VerifyForReset(ctx context.Context, username, phone string) (bool, error) {
	acc, err := s.lookup(ctx, strings.TrimSpace(username), phone, s.accounts.FindByUsernameAndPhoneNumber)
	if err != nil {
		return false, err
	}
	return acc != nil, nil
}

// RequestReset verifies the account and hands the reset off to the notifier.
// Generating and delivering a temporary password is the notifier's concern.
func (s *Service) RequestReset(ctx context.Context, username, phone string) error {
	acc, err := s.lookup(ctx, strings.TrimSpace(username), phone, s.accounts.FindByUsernameAndPhoneNumber)
	if err != nil {
		return err
	}
	if acc == nil {
		return apperr.NotFound(apperr.CodeAccountNotFound, "no account matches that username and phone number")
	}

	err = s.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindPasswordReset,
		Destination: acc.Email,
		Subject:     "Password reset requested",
		Body:        "A password reset was requested for account " + acc.Username + ".",
	})
	if err != nil {
		return apperr.Internal(err)
	}
	s.logger.Info("password reset requested", slog.String("username", acc.Username))
	return nil
}

// lookup returns nil without touching the store when either key is empty
// after trimming and phone normalisation.
func (s *Service) lookup(
	ctx context.Context,
	key, phone string,
	find func(context.Context, string, string) (account.Account, error),
) (*account.Account, error) {
	phone = account.NormalizePhone(phone)
	if key == "" || phone == "" {
		return nil, nil
	}
	acc, err := find(ctx, key, phone)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Internal(err)
	}
	return &acc, nil
}
