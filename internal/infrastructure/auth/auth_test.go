package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 15)

	token, err := svc.Generate(42)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ID)
}

func TestJWTService_Rejections(t *testing.T) {
	svc := NewJWTService("test-secret", 15)

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTService("other-secret", 15).Generate(1)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		claims := &Claims{
			ID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("missing id", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestAESGCMSealer(t *testing.T) {
	sealer, err := NewAESGCMSealer("test-secret")
	require.NoError(t, err)

	ciphertext, iv, err := sealer.Seal("hunter2")
	require.NoError(t, err)
	assert.Len(t, iv, 12)
	assert.Len(t, ciphertext, len("hunter2")+16)

	plain, err := sealer.Open(ciphertext, iv)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)

	_, iv2, err := sealer.Seal("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, iv, iv2)

	other, err := NewAESGCMSealer("different")
	require.NoError(t, err)
	_, err = other.Open(ciphertext, iv)
	assert.Error(t, err)

	tampered := append([]byte{}, ciphertext...)
	tampered[0] ^= 0xff
	_, err = sealer.Open(tampered, iv)
	assert.Error(t, err)

	_, err = NewAESGCMSealer("  ")
	assert.Error(t, err)
}
