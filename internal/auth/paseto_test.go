package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPasetoService(t *testing.T) *PasetoService {
	t.Helper()
	svc, err := NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return svc
}

func TestNewPasetoService_KeyLength(t *testing.T) {
	_, err := NewPasetoService([]byte("too-short"))
	require.Error(t, err)

	_, err = NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
}

func TestPasetoService_CreateAndVerify(t *testing.T) {
	svc := newTestPasetoService(t)
	userID := uuid.New()

	token, err := svc.CreateToken(userID, 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt, time.Minute)
	assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt))
}

func TestPasetoService_VerifyToken_Expired(t *testing.T) {
	svc := newTestPasetoService(t)

	token, err := svc.CreateToken(uuid.New(), -time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	require.Error(t, err)
}

func TestPasetoService_VerifyToken_WrongKey(t *testing.T) {
	svc := newTestPasetoService(t)

	other, err := NewPasetoService([]byte("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	token, err := svc.CreateToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasetoService_VerifyToken_Malformed(t *testing.T) {
	svc := newTestPasetoService(t)

	for _, token := range []string{"", "garbage", "v4.local.not-a-token"} {
		_, err := svc.VerifyToken(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestPasetoService_VerifyToken_Tampered(t *testing.T) {
	svc := newTestPasetoService(t)

	token, err := svc.CreateToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	if tampered == token {
		tampered = token[:len(token)-4] + "BBBB"
	}
	_, err = svc.VerifyToken(tampered)
	assert.Error(t, err)
}
