package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/security"
)

const testJWTSecret = "unit-test-secret-0123456789abcdefghij"

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepo)
	tokens := security.NewTokenManager(testJWTSecret, 60)
	svc := NewAuthService(users, tokens)

	dob := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)

	users.On("GetByEmail", mock.Anything, "dana@example.com").Return(nil, fmt.Errorf("%w: user", domain.ErrNotFound)).Once()
	var storedHash string
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			u.ID = 3
			storedHash = u.PasswordHash
		}).Return(nil)

	user, token, err := svc.Signup(ctx, "Dana", "Dana@Example.com", "", "s3cretpass", "D1234567", dob)
	assert.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email) // normalized
	assert.Equal(t, domain.RoleRenter, user.Role)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)

	claims, err := tokens.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, domain.RoleRenter, claims.Role)

	// Login against the stored hash
	users.On("GetByEmail", mock.Anything, "dana@example.com").Return(&domain.User{
		ID:           3,
		Email:        "dana@example.com",
		PasswordHash: storedHash,
		Role:         domain.RoleRenter,
		DateOfBirth:  dob,
	}, nil)

	_, loginToken, err := svc.Login(ctx, "dana@example.com", "s3cretpass")
	assert.NoError(t, err)
	assert.NotEmpty(t, loginToken)

	_, _, err = svc.Login(ctx, "dana@example.com", "wrongpass")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSignup_Validation(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepo)
	svc := NewAuthService(users, security.NewTokenManager(testJWTSecret, 60))
	dob := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)

	_, _, err := svc.Signup(ctx, "", "dana@example.com", "", "s3cretpass", "", dob)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = svc.Signup(ctx, "Dana", "dana@example.com", "", "short", "", dob)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = svc.Signup(ctx, "Dana", "dana@example.com", "", "s3cretpass", "", time.Time{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepo)
	svc := NewAuthService(users, security.NewTokenManager(testJWTSecret, 60))

	users.On("GetByEmail", mock.Anything, "dana@example.com").Return(testRenter(), nil)

	_, _, err := svc.Signup(ctx, "Dana", "dana@example.com", "", "s3cretpass", "",
		time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrConflict)
}
