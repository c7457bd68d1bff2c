package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow/internal/models"
)

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", 180*time.Minute)

	token, err := tm.Issue("user-42", models.RoleManager, models.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "taskflow", claims.Issuer)
	assert.Equal(t, "ROLE_MANAGER ROLE_USER", claims.Scope)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 180*time.Minute, lifetime)
}

func TestTokenManager_ValidateExpired(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", -time.Minute)

	token, err := tm.Issue("user-42", models.RoleUser)
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_ValidateWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", time.Hour)
	other := NewTokenManager("another-secret-32-characters-ok!", time.Hour)

	token, err := tm.Issue("user-42", models.RoleUser)
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_ValidateGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", time.Hour)

	_, err := tm.Validate("not-a-jwt")
	assert.Error(t, err)
}

func TestRoleAuthority(t *testing.T) {
	assert.Equal(t, "ROLE_ADMIN", models.RoleAdmin.Authority())
	assert.Equal(t, "ROLE_MANAGER", models.RoleManager.Authority())
	assert.Equal(t, "ROLE_USER", models.RoleUser.Authority())
}
