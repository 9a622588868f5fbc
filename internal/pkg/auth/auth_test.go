package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestJWT(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "schoolcore.test"})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestJWT(time.Hour)

	token, err := svc.GenerateAccessToken(Principal{ID: 12, Role: RolePrincipal})
	require.NoError(t, err)

	p, err := svc.PrincipalFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, Principal{ID: 12, Role: RolePrincipal}, p)
}

func TestExpiredToken(t *testing.T) {
	svc := newTestJWT(-time.Minute)

	token, err := svc.GenerateAccessToken(Principal{ID: 1, Role: RoleTeacher})
	require.NoError(t, err)

	_, err = svc.PrincipalFromToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "schoolcore.test"})
	token, err := other.GenerateAccessToken(Principal{ID: 1, Role: RoleStudent})
	require.NoError(t, err)

	_, err = newTestJWT(time.Hour).PrincipalFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUnknownRoleRejected(t *testing.T) {
	svc := newTestJWT(time.Hour)
	token, err := svc.GenerateAccessToken(Principal{ID: 1, Role: "janitor"})
	require.NoError(t, err)

	_, err = svc.PrincipalFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	tok, err = ExtractBearerToken("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)

	_, err = ExtractBearerToken("Basic xyz")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, h.Check(hash, "s3cret-pass"))
	assert.False(t, h.Check(hash, "wrong"))
}
