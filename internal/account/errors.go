package account

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups that match no account.
var ErrNotFound = errors.New("account not found")

// Unique fields of an account.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldNickname = "nickname"
)

// DuplicateError reports a store-level unique constraint violation on Field.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("account with this %s already exists", e.Field)
}
