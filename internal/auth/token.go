package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret        []byte
	issuer        string
	ttl           time.Duration
	rememberMeTTL time.Duration
	now           func() time.Time
}

func NewTokenIssuer(secret, issuer string, ttl, rememberMeTTL time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if rememberMeTTL <= 0 {
		rememberMeTTL = ttl
	}
	return &TokenIssuer{
		secret:        []byte(secret),
		issuer:        issuer,
		ttl:           ttl,
		rememberMeTTL: rememberMeTTL,
		now:           time.Now,
	}
}

// Issue signs an HS256 token for principal. rememberMe selects the long TTL.
func (t *TokenIssuer) Issue(principal Principal, rememberMe bool) (string, time.Time, error) {
	ttl := t.ttl
	if rememberMe {
		ttl = t.rememberMeTTL
	}

	now := t.now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Email: principal.Email,
		Roles: principal.Roles.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates signature, issuer and expiry and returns the principal.
func (t *TokenIssuer) Parse(tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		UserID: claims.Subject,
		Email:  email,
		Roles:  RoleSetFromStrings(claims.Roles),
	}, nil
}
