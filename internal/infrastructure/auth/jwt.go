package auth

import (
	"context"
	"errors"
	"time"

	"studioflow/internal/usecase/interfaces"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSecret = errors.New("missing JWT_SECRET")
	ErrInvalidToken  = errors.New("invalid token")
)

// Manager issues and verifies HS256 bearer tokens. The subject carries the account uid.
type Manager struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	now    func() time.Time
}

var _ interfaces.ITokenVerifier = (*Manager)(nil)

type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func NewManager(secret, issuer string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Manager{Secret: []byte(secret), TTL: ttl, Issuer: issuer, now: time.Now}, nil
}

func (m *Manager) Issue(uid, email string) (string, error) {
	now := m.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    m.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithTimeFunc(m.now)}
	if m.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) Verify(_ context.Context, token string) (interfaces.TokenClaims, error) {
	claims, err := m.Parse(token)
	if err != nil {
		return interfaces.TokenClaims{}, err
	}
	return interfaces.TokenClaims{UID: claims.Subject, Email: claims.Email}, nil
}
