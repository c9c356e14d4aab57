package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ideaboard-api/internal/models"
	"github.com/noah-isme/ideaboard-api/internal/service"
)

func TestBuildUser(t *testing.T) {
	user, err := buildUser("  vc ", "vc-pass", "Investor", false)
	require.NoError(t, err)
	assert.Equal(t, "vc", user.Username)
	assert.Equal(t, models.RoleInvestor, user.Role)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.NotEqual(t, "vc-pass", user.Password)
	assert.True(t, service.PasswordMatches(user.Password, "vc-pass"))
}

func TestBuildUserDisabled(t *testing.T) {
	user, err := buildUser("old", "x", "student", true)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusDisabled, user.Status)
}

func TestBuildUserRejectsBadInput(t *testing.T) {
	_, err := buildUser("", "x", "student", false)
	assert.Error(t, err)
	_, err = buildUser("ana", "", "student", false)
	assert.Error(t, err)
	_, err = buildUser("ana", "x", "mentor", false)
	assert.Error(t, err)
}
