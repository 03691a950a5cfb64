package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-desk/apperrors"
	"hotel-desk/models"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestDB(t), quietLogger(), "test-secret", time.Hour)
}

func TestRegisterCreatesReceptionist(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "desk1", "secret1", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleReceptionist, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = auth.Register(ctx, "desk1", "another", "another")
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	auth := newAuth(t)
	pw := strings.Repeat("p", 80)

	_, err := auth.Register(context.Background(), "longpw", pw, pw)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var count int64
	require.NoError(t, auth.DB.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuthenticate(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()
	_, err := auth.Register(ctx, "desk1", "secret1", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "desk1", "secret1", false},
		{"wrong password", "desk1", "nope", true},
		{"unknown user", "ghost", "secret1", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := auth.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "desk1", user.Username)
		})
	}
}

func TestTokenRoundTripAndLookup(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()
	user, err := auth.Register(ctx, "desk1", "secret1", "secret1")
	require.NoError(t, err)

	token, expires, err := auth.IssueToken(user)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	id, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	ident, ok, err := auth.Lookup(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.RoleReceptionist, ident.Role)

	_, ok, err = auth.Lookup(ctx, id+1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseTokenRejectsForeignAndExpired(t *testing.T) {
	auth := newAuth(t)
	other := NewAuthService(auth.DB, quietLogger(), "other-secret", time.Hour)
	user := models.User{ID: 7, Role: models.RoleAdmin}

	foreign, _, err := other.IssueToken(user)
	require.NoError(t, err)
	_, err = auth.ParseToken(foreign)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	expired := NewAuthService(auth.DB, quietLogger(), "test-secret", time.Hour)
	expired.ttl = -time.Minute
	old, _, err := expired.IssueToken(user)
	require.NoError(t, err)
	_, err = auth.ParseToken(old)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = auth.ParseToken("garbage")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSeedAdminOnlyOnce(t *testing.T) {
	auth := newAuth(t)
	ctx := context.Background()

	require.NoError(t, auth.SeedAdmin(ctx, "admin", "admin123"))
	require.NoError(t, auth.SeedAdmin(ctx, "admin2", "admin123"))

	var admins []models.User
	require.NoError(t, auth.DB.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0].Username)

	user, err := auth.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestLandingPath(t *testing.T) {
	assert.Equal(t, "/", LandingPath(models.RoleAdmin))
	assert.Equal(t, "/booking", LandingPath(models.RoleReceptionist))
}
