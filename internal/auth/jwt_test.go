package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", 0)
	token, exp, err := tokens.Issue(RoleTeacher, "alice")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(3*time.Hour), exp, 2*time.Second)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, claims.UserType)
	assert.Equal(t, "alice", claims.Username)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tokens := NewTokens("secret", 3*time.Hour)
	tokens.now = fixedClock(issuedAt)

	token, _, err := tokens.Issue(RoleAdmin, "bob")
	require.NoError(t, err)

	tokens.now = fixedClock(issuedAt.Add(3*time.Hour - time.Second))
	_, err = tokens.Verify(token)
	require.NoError(t, err)

	tokens.now = fixedClock(issuedAt.Add(3*time.Hour + time.Second))
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokens("other", time.Hour).Issue(RoleSuperAdmin, "carol")
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTamperedAndMalformed(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	token, _, err := tokens.Issue(RoleTeacher, "dave")
	require.NoError(t, err)

	for _, tc := range []string{"", "garbage", token + "x", token[:len(token)-4]} {
		_, err := tokens.Verify(tc)
		assert.ErrorIs(t, err, ErrInvalidToken, tc)
	}
}

func TestVerifyRejectsUnsignedAndUnknownRole(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserType:         RoleSuperAdmin,
		Username:         "mallory",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	legacy, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserType:         Role("Paul"),
		Username:         "Paul",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tokens.Verify(legacy)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserType: RoleTeacher,
		Username: "erin",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
