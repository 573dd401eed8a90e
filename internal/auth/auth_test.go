package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tillpoint/internal/auth"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := auth.NewTokens("secret", "tillpoint", time.Hour)

	raw, err := tokens.Issue(7, 42, auth.RoleManager)
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.CompanyID)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, auth.RoleManager, claims.Role)
}

func TestTokens_Parse_Rejects(t *testing.T) {
	issuer := auth.NewTokens("secret", "tillpoint", time.Hour)

	valid, err := issuer.Issue(1, 1, auth.RoleCashier)
	require.NoError(t, err)

	expired := auth.NewTokens("secret", "tillpoint", time.Hour)
	expired.SetClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	old, err := expired.Issue(1, 1, auth.RoleCashier)
	require.NoError(t, err)

	noCompany, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "tillpoint",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	type testCase struct {
		name   string
		tokens *auth.Tokens
		raw    string
	}

	tests := []testCase{
		{name: "WrongSecret", tokens: auth.NewTokens("other", "tillpoint", time.Hour), raw: valid},
		{name: "WrongIssuer", tokens: auth.NewTokens("secret", "someone-else", time.Hour), raw: valid},
		{name: "Expired", tokens: issuer, raw: old},
		{name: "MissingCompany", tokens: issuer, raw: noCompany},
		{name: "Garbage", tokens: issuer, raw: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tokens.Parse(tt.raw)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestTokens_IssueRequiresCompany(t *testing.T) {
	_, err := auth.NewTokens("secret", "tillpoint", time.Hour).Issue(0, 1, auth.RoleOwner)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestContext(t *testing.T) {
	_, err := auth.FromContext(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoClaims)

	ctx := auth.WithClaims(context.Background(), &auth.Claims{CompanyID: 3})

	c, err := auth.FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.CompanyID)
}

func TestClaims_HasRole(t *testing.T) {
	c := &auth.Claims{CompanyID: 1, Role: auth.RoleManager}

	assert.True(t, c.HasRole(auth.RoleManager, auth.RoleOwner))
	assert.False(t, c.HasRole(auth.RoleOwner))
	assert.False(t, c.HasRole())
}
