package security_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fleetwise/fleetwise-api/pkg/security"
)

const testSecret = "um-segredo-de-teste-com-32-caracteres!"

func TestKeyManager_GenerateAndVerify(t *testing.T) {
	km := security.NewKeyManager(testSecret, zaptest.NewLogger(t))

	token, err := km.GenerateToken("user-1", "Maria", "maria@example.com", "admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := km.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Maria", claims.Name)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestKeyManager_ExpiredToken(t *testing.T) {
	km := security.NewKeyManager(testSecret, zaptest.NewLogger(t))

	token, err := km.GenerateToken("user-1", "Maria", "maria@example.com", "motorista", -time.Minute)
	require.NoError(t, err)

	_, err = km.VerifyToken(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestKeyManager_TamperedToken(t *testing.T) {
	km := security.NewKeyManager(testSecret, zaptest.NewLogger(t))

	token, err := km.GenerateToken("user-1", "Maria", "maria@example.com", "gestor", time.Hour)
	require.NoError(t, err)

	// Corrupt the signature segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[2] = "assinatura-invalida"

	_, err = km.VerifyToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestKeyManager_WrongSecret(t *testing.T) {
	km := security.NewKeyManager(testSecret, zaptest.NewLogger(t))
	other := security.NewKeyManager("outro-segredo-tambem-com-32-caracteres", zaptest.NewLogger(t))

	token, err := km.GenerateToken("user-1", "Maria", "maria@example.com", "admin", time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestKeyManager_ShortSecretGetsEphemeralKey(t *testing.T) {
	// Each manager built without a proper secret must still be able to
	// verify its own tokens
	km := security.NewKeyManager("", zaptest.NewLogger(t))

	token, err := km.GenerateToken("user-1", "Maria", "maria@example.com", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := km.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestKeyManager_GarbageToken(t *testing.T) {
	km := security.NewKeyManager(testSecret, zaptest.NewLogger(t))

	_, err := km.VerifyToken("nem-um-jwt")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}
