package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GenerateAndValidate(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	token, err := manager.Generate(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestManager_Validate_WrongSecret(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	other := NewManager("other-secret", time.Hour)

	token, err := manager.Generate(42)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestManager_Validate_Expired(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute)

	token, err := manager.Generate(42)
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.Error(t, err)
}

func TestManager_Validate_Garbage(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	_, err := manager.Validate("not-a-token")
	assert.Error(t, err)
}

func TestExtractUserID(t *testing.T) {
	manager := NewManager("server-only-secret", time.Hour)

	token, err := manager.Generate(7)
	require.NoError(t, err)

	// Клиент не знает секрета, но ID пользователя читает
	userID, err := ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestExtractUserID_Garbage(t *testing.T) {
	_, err := ExtractUserID("xxx.yyy.zzz")
	assert.Error(t, err)
}
