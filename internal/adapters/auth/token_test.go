package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"joiny/internal/domain"
)

func TestJWT_IssuePair(t *testing.T) {
	secret := "test-secret"
	j := NewJWT(secret, 15*time.Minute, 24*time.Hour)

	pair, err := j.IssuePair(&domain.User{ID: 42, Username: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	parsed, err := jwt.ParseWithClaims(pair.Access, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "access", claims.TokenType)
}

func TestJWT_Verify(t *testing.T) {
	j := NewJWT("test-secret", 15*time.Minute, 24*time.Hour)
	pair, err := j.IssuePair(&domain.User{ID: 7, Username: "bob"})
	require.NoError(t, err)

	req, err := j.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, &domain.Requester{UserID: 7, Username: "bob"}, req)

	req, err = j.VerifyRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, int64(7), req.UserID)

	_, err = j.VerifyAccess(pair.Refresh)
	require.ErrorIs(t, err, errWrongTokenType)

	_, err = j.VerifyRefresh(pair.Access)
	require.ErrorIs(t, err, errWrongTokenType)
}

func TestJWT_VerifyRejects(t *testing.T) {
	j := NewJWT("test-secret", time.Minute, time.Hour)
	pair, err := j.IssuePair(&domain.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewJWT("other", time.Minute, time.Hour).VerifyAccess(pair.Access)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewJWT("test-secret", time.Minute, time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err := late.VerifyAccess(pair.Access)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := j.VerifyAccess("not.a.token")
		require.Error(t, err)
	})
}
