package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/pkg/tokens"
)

func TestAuthService_CreateAccessToken_SetsExpectedClaims(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.NewString()
	accessExp := time.Now().Add(15 * time.Minute).UTC()

	token, err := env.Auth.CreateAccessToken(models.RoleAdmin, userID, accessExp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.AccessClaimsFromToken(token, env.Repo.JWTSecret)
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, userID, claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, accessExp, claims.ExpiresAt.Time, time.Second)
}

func TestAuthService_CreateRefreshToken_SetsExpectedClaims(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.NewString()
	refreshExp := time.Now().Add(24 * time.Hour).UTC()

	token, err := env.Auth.CreateRefreshToken(userID, refreshExp)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.RefreshClaimsFromToken(token, env.Repo.RefreshSecret)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.Subject)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, refreshExp, claims.ExpiresAt.Time, time.Second)
}

func TestAuthService_Register_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		reg  Registration
	}{
		{name: "empty email", reg: Registration{Password: "secret"}},
		{name: "empty password", reg: Registration{Email: "a@b.test"}},
		{name: "negative age", reg: Registration{Email: "a@b.test", Password: "secret", Age: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := env.Auth.Register(ctx, tt.reg)
			require.Error(t, err)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Register_StoresProfileAndDefaultsRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.Auth.Register(ctx, Registration{
		Email:            "owner@shop.test",
		Password:         "secret",
		ShopName:         "Corner Shop",
		FullName:         "Jo Owner",
		Phone:            "555-0101",
		Address:          "1 Main St",
		TaxID:            "TX-42",
		BusinessCategory: "Grocery",
		Age:              34,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleShopOwner, user.Role)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "secret", user.PasswordHash)

	var stored models.User
	require.NoError(t, env.DB.Where("email = ?", "owner@shop.test").First(&stored).Error)
	assert.Equal(t, "Corner Shop", stored.ShopName)
	assert.Equal(t, "Grocery", stored.BusinessCategory)
	assert.Equal(t, 34, stored.Age)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg := Registration{Email: "owner@shop.test", Password: "secret"}
	_, err := env.Auth.Register(ctx, reg)
	require.NoError(t, err)

	_, err = env.Auth.Register(ctx, reg)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login_IssuesTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.Auth.Register(ctx, Registration{Email: "owner@shop.test", Password: "secret"})
	require.NoError(t, err)

	res, err := env.Auth.Login(ctx, "owner@shop.test", "secret")
	require.NoError(t, err)
	assert.False(t, res.IsAdmin)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, env.Repo.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleShopOwner, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, Registration{Email: "owner@shop.test", Password: "secret"})
	require.NoError(t, err)

	res, err := env.Auth.Login(ctx, "owner@shop.test", "wrong")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err = env.Auth.Login(ctx, "nobody@shop.test", "secret")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesAndRevokes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, Registration{Email: "owner@shop.test", Password: "secret"})
	require.NoError(t, err)
	login, err := env.Auth.Login(ctx, "owner@shop.test", "secret")
	require.NoError(t, err)

	rotated, err := env.Auth.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	// The old refresh token is revoked by rotation and cannot be replayed.
	_, err = env.Auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.Auth.Refresh(context.Background(), "not-a-valid-jwt")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_LogOut_RevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.Auth.Register(ctx, Registration{Email: "owner@shop.test", Password: "secret"})
	require.NoError(t, err)
	login, err := env.Auth.Login(ctx, "owner@shop.test", "secret")
	require.NoError(t, err)

	require.NoError(t, env.Auth.LogOut(ctx, login.RefreshToken))

	_, err = env.Auth.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_LogOut_EmptyToken_NoError(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.Auth.LogOut(context.Background(), ""))
}
