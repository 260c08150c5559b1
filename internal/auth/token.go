package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single verdict for every unusable token.
var ErrInvalidToken = errors.New("invalid token")

var errUnsupportedAlg = errors.New("unsupported signing algorithm")

// Claims carried by access tokens. Provider is set only for social sessions.
type Claims struct {
	jwt.RegisteredClaims
	Provider string `json:"provider,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
}

// SocialProfile is the provider data embedded in a social session token.
type SocialProfile struct {
	Provider string
	Nickname string
	Email    string
}

// Tokens issues and verifies HS512 access tokens.
type Tokens struct {
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewTokens builds a token issuer over a fixed signing key.
func NewTokens(key []byte, ttl time.Duration, logger *slog.Logger) *Tokens {
	return &Tokens{key: key, ttl: ttl, now: time.Now, logger: logger}
}

// TTL reports the lifetime of issued tokens.
func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs a token for subject.
func (t *Tokens) Issue(subject string) (string, error) {
	return t.sign(subject, SocialProfile{})
}

// IssueSocial signs a token whose claims restore a social principal.
func (t *Tokens) IssueSocial(subject string, profile SocialProfile) (string, error) {
	return t.sign(subject, profile)
}

func (t *Tokens) sign(subject string, profile SocialProfile) (string, error) {
	now := t.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Provider: profile.Provider,
		Nickname: profile.Nickname,
		Email:    profile.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(t.key)
}

// Parse validates token and returns its claims. Every failure is logged with
// its reason and reported as ErrInvalidToken.
func (t *Tokens) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		t.keyFunc,
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		t.logger.Info("token rejected", slog.String("reason", rejectReason(err)))
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		t.logger.Info("token rejected", slog.String("reason", "empty subject"))
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// keyFunc only hands out the key for HS512 so a foreign algorithm is reported
// apart from a bad signature.
func (t *Tokens) keyFunc(token *jwt.Token) (any, error) {
	if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS512.Alg() {
		return nil, errUnsupportedAlg
	}
	return t.key, nil
}

// Verify returns the token subject and whether the token is valid.
func (t *Tokens) Verify(token string) (string, bool) {
	claims, err := t.Parse(token)
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, errUnsupportedAlg):
		return "unsupported algorithm"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature mismatch"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "missing expiry"
	default:
		return "invalid"
	}
}
