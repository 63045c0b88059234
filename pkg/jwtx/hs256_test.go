package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "reports-test"

func testSecret() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func TestNewHS256_RejectsWeakSecret(t *testing.T) {
	t.Parallel()

	_, err := NewHS256([]byte("short"), testIssuer)
	require.ErrorIs(t, err, ErrWeakSecret)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := NewHS256(testSecret(), testIssuer)
	require.NoError(t, err)

	claims := NewSessionClaims("user-1", testIssuer, DefaultSessionTTL, time.Now().UTC())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, testIssuer, got.Issuer)
	require.NoError(t, got.ValidateExpiry())
}

func TestVerify_Failures(t *testing.T) {
	t.Parallel()

	h, err := NewHS256(testSecret(), testIssuer)
	require.NoError(t, err)

	now := time.Now().UTC()

	t.Run("tampered signature", func(t *testing.T) {
		token, err := h.Sign(NewSessionClaims("user-1", testIssuer, time.Hour, now))
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

		_, err = h.Verify(tampered)
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewHS256([]byte("ffffffffffffffffffffffffffffffff"), testIssuer)
		require.NoError(t, err)

		token, err := other.Sign(NewSessionClaims("user-1", testIssuer, time.Hour, now))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("expired token", func(t *testing.T) {
		// Issued 31 days ago with the standard 30-day TTL: one day past expiry.
		token, err := h.Sign(NewSessionClaims("user-1", testIssuer, DefaultSessionTTL, now.Add(-31*24*time.Hour)))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("within expiry boundary", func(t *testing.T) {
		// Issued 29 days ago: still inside the 30-day window.
		token, err := h.Sign(NewSessionClaims("user-1", testIssuer, DefaultSessionTTL, now.Add(-29*24*time.Hour)))
		require.NoError(t, err)

		got, err := h.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "user-1", got.Subject)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := h.Verify("not-a-jwt")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		token, err := h.Sign(NewSessionClaims("user-1", "someone-else", time.Hour, now))
		require.NoError(t, err)

		_, err = h.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})
}
