package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/deskhub/internal/shared/biztime"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	token, expiresAt, err := issuer.Issue(42, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_UniquePerIssue(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer(testSecret).WithClock(biztime.Fixed(at))

	a, _, err := issuer.Issue(1, time.Hour)
	require.NoError(t, err)
	b, _, err := issuer.Issue(1, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, HashToken(a), HashToken(b))
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := NewTokenIssuer(testSecret).WithClock(biztime.Fixed(issuedAt)).Issue(7, 7*24*time.Hour)
	require.NoError(t, err)

	beforeExpiry := NewTokenIssuer(testSecret).WithClock(biztime.Fixed(issuedAt.Add(7*24*time.Hour - time.Second)))
	_, err = beforeExpiry.Verify(token)
	assert.NoError(t, err)

	afterExpiry := NewTokenIssuer(testSecret).WithClock(biztime.Fixed(issuedAt.Add(7*24*time.Hour + time.Second)))
	_, err = afterExpiry.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_SingleFailureOutcome(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)
	valid, _, err := issuer.Issue(1, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	foreignIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not.a.jwt",
		"tampered":       tampered,
		"other secret":   mustIssue(t, NewTokenIssuer("another-secret-another-secret-00")),
		"alg none":       noneToken,
		"foreign issuer": foreignIssuer,
		"bad subject":    badSubject,
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			claims, err := issuer.Verify(token)
			assert.Nil(t, claims)
			assert.Same(t, ErrInvalidToken, err)
		})
	}
}

func TestTokenIssuer_IssueValidation(t *testing.T) {
	issuer := NewTokenIssuer(testSecret)

	_, _, err := issuer.Issue(0, time.Hour)
	assert.Error(t, err)

	_, _, err = issuer.Issue(1, 0)
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.Len(t, HashToken("abc"), 64)
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}

func mustIssue(t *testing.T, issuer *TokenIssuer) string {
	t.Helper()
	token, _, err := issuer.Issue(1, time.Hour)
	require.NoError(t, err)
	return token
}
