package service_test

import (
	"testing"
	"time"

	"chweb/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSessionSigner_RoundTrip(t *testing.T) {
	signer := service.NewSessionSigner(testSecret)

	token, err := signer.Sign("api-key", time.Time{})
	require.NoError(t, err)

	key, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "api-key", key)
}

func TestSessionSigner_WithExpiry(t *testing.T) {
	signer := service.NewSessionSigner(testSecret)

	token, err := signer.Sign("api-key", time.Now().Add(time.Hour))
	require.NoError(t, err)
	key, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "api-key", key)

	expired, err := signer.Sign("api-key", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = signer.Verify(expired)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestSessionSigner_Session(t *testing.T) {
	signer := service.NewSessionSigner(testSecret)
	expiresAt := service.RememberMeExpiry(time.Now())

	token, err := signer.Sign("api-key", expiresAt)
	require.NoError(t, err)
	key, got, err := signer.Session(token)
	require.NoError(t, err)
	require.Equal(t, "api-key", key)
	require.True(t, expiresAt.Equal(got))

	token, err = signer.Sign("api-key", time.Time{})
	require.NoError(t, err)
	_, got, err = signer.Session(token)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestSessionSigner_Rejects(t *testing.T) {
	signer := service.NewSessionSigner(testSecret)

	t.Run("empty key", func(t *testing.T) {
		_, err := signer.Sign("", time.Time{})
		require.ErrorIs(t, err, service.ErrInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := signer.Verify("not-a-token")
		require.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("other secret", func(t *testing.T) {
		other := service.NewSessionSigner("ffffffffffffffffffffffffffffffff")
		token, err := other.Sign("api-key", time.Time{})
		require.NoError(t, err)
		_, err = signer.Verify(token)
		require.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "api-key"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = signer.Verify(token)
		require.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).
			SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = signer.Verify(token)
		require.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestRememberMeExpiry(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2024, 1, 15, 22, 30, 0, 0, loc)

	got := service.RememberMeExpiry(now)
	require.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), got)
}
