package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eop-planner-be/internal/config"
	"eop-planner-be/internal/dto"
	"eop-planner-be/internal/repository/memory"
)

func newTestAuthService() (IAuthService, *memory.Factory) {
	factory := memory.NewFactory()
	svc := NewAuthService(factory, config.AuthConfig{
		JwtSecret:   "test-secret",
		TokenExpiry: time.Hour,
	})
	return svc, factory
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, &dto.SignupRequest{Email: "planner@example.org", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "planner@example.org", created.Email)

	res, err := svc.Login(ctx, &dto.LoginRequest{Email: "planner@example.org", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	token, err := jwt.Parse(res.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, created.Id.String(), claims["user_id"])
	assert.Equal(t, "planner@example.org", claims["email"])
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &dto.SignupRequest{Email: "dup@example.org", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &dto.SignupRequest{Email: "dup@example.org", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &dto.SignupRequest{Email: "planner@example.org", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "planner@example.org", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.org", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
