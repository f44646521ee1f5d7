package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

const testSecret = "test-secret"

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, expiresAt, err := tm.Issue("doc1", domain.RoleDoctor, "doc1@clinic.test")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "doc1", claims.SubjectID)
	assert.Equal(t, domain.RoleDoctor, claims.Role)
	assert.Equal(t, "doc1@clinic.test", claims.Email)
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	// sign a token whose window already closed
	now := time.Now()
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SubjectID: "doc1",
		Role:      domain.RoleDoctor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "doc1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	})
	tokenStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSignature(t *testing.T) {
	issuer := NewTokenManager("other-secret", 60)
	token, _, err := issuer.Issue("doc1", domain.RoleDoctor, "")
	require.NoError(t, err)

	tm := NewTokenManager(testSecret, 60)
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMalformedToken(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)
	_, err := tm.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	now := time.Now()
	tampered := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SubjectID: "doc1",
		Role:      domain.Role("superuser"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "doc1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	tokenStr, err := tampered.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.Verify(tokenStr)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestAdminTokenCarriesCredentialDigest(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, _, err := tm.IssueAdmin("admin@clinic.test", "hunter2")
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, CredentialDigest("hunter2"), claims.AdminCheck)
	assert.NotContains(t, claims.AdminCheck, "hunter2")
}
