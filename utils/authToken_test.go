package utils

import (
	"testing"

	"CareLink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	access, refresh, err := GenerateTokens("user-42", models.RoleDoctor)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, models.RoleDoctor, claims.Role)
}

func TestValidateTokenRoleCheck(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	token, err := GenerateAccessToken("user-7", models.RolePatient)
	require.NoError(t, err)

	_, err = ValidateToken(token, models.RoleAdmin, models.RolePatient)
	assert.NoError(t, err)

	_, err = ValidateToken(token, models.RolePharmacist)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	_, err := ValidateToken("v2.local.not-a-real-token")
	assert.Error(t, err)
}
