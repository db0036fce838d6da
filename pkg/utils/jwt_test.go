package utils

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWTToken(42, "frontdesk", "staff", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ValidateJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "frontdesk", claims.Username)
	assert.Equal(t, "staff", claims.Role)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWTToken(42, "frontdesk", "staff", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ValidateJWTToken(token)
	assert.Error(t, err)
}

func TestJWTTampered(t *testing.T) {
	token, err := GenerateJWTToken(42, "frontdesk", "staff", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = ValidateJWTToken(token + "x")
	assert.Error(t, err)
}
