package account

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu         sync.RWMutex
	byUsername map[string]Account
	emails     map[string]string
	nicknames  map[string]string
}

// NewMemoryRepository builds an in-memory account store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byUsername: make(map[string]Account),
		emails:     make(map[string]string),
		nicknames:  make(map[string]string),
	}
}

func (r *memoryRepository) FindByUsername(_ context.Context, username string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.byUsername[username]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acc, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	username, ok := r.emails[email]
	if !ok {
		return Account{}, ErrNotFound
	}
	return r.byUsername[username], nil
}

func (r *memoryRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUsername[username]
	return ok, nil
}

func (r *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.emails[email]
	return ok, nil
}

func (r *memoryRepository) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.nicknames[nickname]
	return ok, nil
}

func (r *memoryRepository) FindByEmailAndPhoneNumber(ctx context.Context, email, phone string) (Account, error) {
	acc, err := r.FindByEmail(ctx, email)
	if err != nil {
		return Account{}, err
	}
	if acc.PhoneNumber != NormalizePhone(phone) {
		return Account{}, ErrNotFound
	}
	return acc, nil
}

func (r *memoryRepository) FindByUsernameAndPhoneNumber(ctx context.Context, username, phone string) (Account, error) {
	acc, err := r.FindByUsername(ctx, username)
	if err != nil {
		return Account{}, err
	}
	if acc.PhoneNumber != NormalizePhone(phone) {
		return Account{}, ErrNotFound
	}
	return acc, nil
}

func (r *memoryRepository) Insert(_ context.Context, acc Account) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[acc.Username]; ok {
		return Account{}, &DuplicateError{Field: FieldUsername}
	}
	if _, ok := r.emails[acc.Email]; ok && acc.Email != "" {
		return Account{}, &DuplicateError{Field: FieldEmail}
	}
	if _, ok := r.nicknames[acc.Nickname]; ok && acc.Nickname != "" {
		return Account{}, &DuplicateError{Field: FieldNickname}
	}

	acc.ID = uuid.NewString()
	acc.PhoneNumber = NormalizePhone(acc.PhoneNumber)
	acc.CreatedAt = acc.CreatedAt.UTC()
	r.byUsername[acc.Username] = acc
	if acc.Email != "" {
		r.emails[acc.Email] = acc.Username
	}
	if acc.Nickname != "" {
		r.nicknames[acc.Nickname] = acc.Username
	}
	return acc, nil
}

func (r *memoryRepository) TouchLastLogin(_ context.Context, username string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.byUsername[username]
	if !ok {
		return ErrNotFound
	}
	at = at.UTC()
	acc.LastLoginAt = &at
	r.byUsername[username] = acc
	return nil
}
