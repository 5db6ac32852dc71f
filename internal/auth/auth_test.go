package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)

	token, err := mgr.GenerateToken(42)
	require.NoError(t, err)

	userID, err := mgr.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).GenerateToken(1)
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute)
	token, err := mgr.GenerateToken(1)
	require.NoError(t, err)

	_, err = mgr.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserFromSocketRequest(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour)
	token, err := mgr.GenerateToken(9)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/ws?token="+token, nil)
	userID, err := mgr.UserFromSocketRequest(r)
	require.NoError(t, err)
	assert.Equal(t, 9, userID)

	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	userID, err = mgr.UserFromSocketRequest(r)
	require.NoError(t, err)
	assert.Equal(t, 9, userID)

	r = httptest.NewRequest("GET", "/ws", nil)
	_, err = mgr.UserFromSocketRequest(r)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
