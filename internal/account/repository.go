package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// Repository persists accounts. Every query shape has its own method backed by
// an index on the users table.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	FindByEmailAndPhoneNumber(ctx context.Context, email, phone string) (Account, error)
	FindByUsernameAndPhoneNumber(ctx context.Context, username, phone string) (Account, error)
	Insert(ctx context.Context, acc Account) (Account, error)
	TouchLastLogin(ctx context.Context, username string, at time.Time) error
}

// DB is the subset of pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectAccount = `SELECT id::text, username, password_hash, nickname, name, email, address, phone_number, created_at, last_login_at FROM users`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByUsername fetches an account by its unique username.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	return r.findOne(ctx, "find by username", selectAccount+` WHERE username = $1`, username)
}

// FindByEmail fetches an account by its unique email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	return r.findOne(ctx, "find by email", selectAccount+` WHERE email = $1`, email)
}

// FindByEmailAndPhoneNumber fetches the account matching both email and phone.
func (r *PostgresRepository) FindByEmailAndPhoneNumber(ctx context.Context, email, phone string) (Account, error) {
	return r.findOne(ctx, "find by email and phone",
		selectAccount+` WHERE email = $1 AND phone_number = $2`, email, NormalizePhone(phone))
}

// FindByUsernameAndPhoneNumber fetches the account matching both username and phone.
func (r *PostgresRepository) FindByUsernameAndPhoneNumber(ctx context.Context, username, phone string) (Account, error) {
	return r.findOne(ctx, "find by username and phone",
		selectAccount+` WHERE username = $1 AND phone_number = $2`, username, NormalizePhone(phone))
}

// ExistsByUsername reports whether the username is taken.
func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "exists by username", `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

// ExistsByEmail reports whether the email is taken.
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "exists by email", `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

// ExistsByNickname reports whether the nickname is taken.
func (r *PostgresRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return r.exists(ctx, "exists by nickname", `SELECT EXISTS(SELECT 1 FROM users WHERE nickname = $1)`, nickname)
}

// Insert stores a new account and returns it with the store-assigned id.
func (r *PostgresRepository) Insert(ctx context.Context, acc Account) (Account, error) {
	acc.PhoneNumber = NormalizePhone(acc.PhoneNumber)
	acc.CreatedAt = acc.CreatedAt.UTC()

	err := r.db.QueryRow(ctx, `INSERT INTO users (username, password_hash, nickname, name, email, address, phone_number, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id::text`,
		acc.Username, acc.PasswordHash, nullable(acc.Nickname), nullable(acc.Name),
		nullable(acc.Email), nullable(acc.Address), nullable(acc.PhoneNumber), acc.CreatedAt,
	).Scan(&acc.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if field, ok := duplicateField(pgErr.ConstraintName); ok {
				return Account{}, &DuplicateError{Field: field}
			}
		}
		return Account{}, oops.In("account").With("operation", "insert").Wrap(err)
	}
	return acc, nil
}

// TouchLastLogin records a successful login time.
func (r *PostgresRepository) TouchLastLogin(ctx context.Context, username string, at time.Time) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE username = $2`, at.UTC(), username)
	if err != nil {
		return oops.In("account").With("operation", "touch last login").Wrap(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) findOne(ctx context.Context, op, query string, args ...any) (Account, error) {
	var (
		acc                                   Account
		nickname, name, email, address, phone *string
	)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&acc.ID, &acc.Username, &acc.PasswordHash, &nickname, &name, &email, &address, &phone,
		&acc.CreatedAt, &acc.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, oops.In("account").With("operation", op).Wrap(err)
	}
	acc.Nickname = deref(nickname)
	acc.Name = deref(name)
	acc.Email = deref(email)
	acc.Address = deref(address)
	acc.PhoneNumber = deref(phone)
	acc.CreatedAt = acc.CreatedAt.UTC()
	return acc, nil
}

func (r *PostgresRepository) exists(ctx context.Context, op, query string, arg any) (bool, error) {
	var found bool
	if err := r.db.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, oops.In("account").With("operation", op).Wrap(err)
	}
	return found, nil
}

// duplicateField maps a users unique constraint to the field it guards.
func duplicateField(constraint string) (string, bool) {
	switch constraint {
	case "users_username_key":
		return FieldUsername, true
	case "users_email_key":
		return FieldEmail, true
	case "users_nickname_key":
		return FieldNickname, true
	default:
		return "", false
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
