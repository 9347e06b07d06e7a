package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlim/stockpoint/internal/core/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Generate(42, domain.RoleStaff)
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, string(domain.RoleStaff), claims.Role)
}

func TestValidate_ExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", -time.Minute)

	token, err := tm.Generate(42, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = tm.Validate(token)
	require.Error(t, err)
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Generate(42, domain.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	_, err := tm.Validate("not-a-token")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashSecret("hunter2", 4)
	require.NoError(t, err)

	assert.True(t, CompareSecret(hash, "hunter2"))
	assert.False(t, CompareSecret(hash, "hunter3"))
	assert.False(t, CompareSecret("not-a-hash", "hunter2"))
}
