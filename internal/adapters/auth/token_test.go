package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_IssueAndVerify(t *testing.T) {
	adapter := NewJWT("test-secret")

	token, err := adapter.Issue("철수", 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	name, err := adapter.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "철수", name)
}

func TestJWT_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWT("secret-a")
	verifier := NewJWT("secret-b")

	token, err := issuer.Issue("철수", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWT_VerifyRejectsExpired(t *testing.T) {
	adapter := NewJWT("test-secret")

	token, err := adapter.Issue("철수", -time.Minute)
	require.NoError(t, err)

	_, err = adapter.Verify(token)
	assert.Error(t, err)
}

func TestJWT_VerifyRejectsWrongAlgorithm(t *testing.T) {
	// A token signed with "none" must never verify.
	claims := jwt.RegisteredClaims{Subject: "철수"}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWT("test-secret").Verify(token)
	assert.Error(t, err)
}

func TestJWT_VerifyRejectsGarbage(t *testing.T) {
	_, err := NewJWT("test-secret").Verify("not-a-token")
	assert.Error(t, err)
}
