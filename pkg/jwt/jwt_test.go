package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-only-32b!"

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager(testSecret, 15)

	token, err := m.GenerateToken("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username())
	assert.WithinDuration(t, claims.IssuedAt.Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestGenerateToken_EmptySubject(t *testing.T) {
	m := NewManager(testSecret, 15)
	_, err := m.GenerateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(testSecret, 15).WithClock(func() time.Time { return issued })

	token, err := m.GenerateToken("alice")
	require.NoError(t, err)

	// one second past expiry, no leeway
	m.WithClock(func() time.Time { return issued.Add(15*time.Minute + time.Second) })
	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewManager("another-secret", 15).GenerateToken("alice")
	require.NoError(t, err)

	_, err = NewManager(testSecret, 15).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Tampered(t *testing.T) {
	m := NewManager(testSecret, 15)
	token, err := m.GenerateToken("alice")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged, err := NewManager(testSecret, 15).GenerateToken("mallory")
	require.NoError(t, err)
	// mallory's payload under alice's signature
	parts[1] = strings.Split(forged, ".")[1]

	_, err = m.VerifyToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Malformed(t *testing.T) {
	m := NewManager(testSecret, 15)
	for _, token := range []string{"", "abc", "a.b.c", "Bearer xyz"} {
		_, err := m.VerifyToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestVerifyToken_NoneAlgorithm(t *testing.T) {
	claims := gojwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager(testSecret, 15).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_MissingExpiry(t *testing.T) {
	claims := gojwt.RegisteredClaims{Subject: "alice"}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewManager(testSecret, 15).VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
