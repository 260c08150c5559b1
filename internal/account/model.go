package account

import (
	"strings"
	"time"
)

// Account is a stored identity record.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	Nickname     string
	Name         string
	Email        string
	Address      string
	PhoneNumber  string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// NormalizePhone strips every '-' separator and surrounding whitespace. Phone
// numbers are stored in this form and every lookup must normalise first.
func NormalizePhone(phone string) string {
	return strings.TrimSpace(strings.ReplaceAll(phone, "-", ""))
}
