// Package auth issues and verifies the bearer tokens that scope every API
// call to one company.
package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoClaims     = errors.New("no claims in context")
	ErrForbidden    = errors.New("role not permitted")
)

type Role string

const (
	RoleCashier Role = "cashier"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
)

// Claims carry the tenant. Handlers take the company from here and never
// from the request.
type Claims struct {
	CompanyID int64 `json:"company_id"`
	UserID    int64 `json:"user_id"`
	Role      Role  `json:"role"`
	jwt.RegisteredClaims
}

// HasRole reports whether the caller holds one of roles.
func (c *Claims) HasRole(roles ...Role) bool {
	return slices.Contains(roles, c.Role)
}

type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret, issuer string, ttl time.Duration) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *Tokens) Issue(companyID, userID int64, role Role) (string, error) {
	if companyID <= 0 {
		return "", fmt.Errorf("%w: company is required", ErrInvalidToken)
	}

	now := t.now()

	claims := Claims{
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.CompanyID <= 0 {
		return nil, fmt.Errorf("%w: missing company", ErrInvalidToken)
	}

	return claims, nil
}

type ctxKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func FromContext(ctx context.Context) (*Claims, error) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	if !ok || c == nil {
		return nil, ErrNoClaims
	}

	return c, nil
}
