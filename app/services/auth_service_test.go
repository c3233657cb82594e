package services

import (
	"context"
	"testing"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signup(username string) SignupInput {
	return SignupInput{
		Username:        username,
		Email:           username + "@Example.com",
		PhoneNumber:     "555-" + username,
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func TestSignupAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.Signup(ctx, models.RoleCustomer, signup("ada"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	res, err := e.auth.Login(ctx, models.RoleCustomer, LoginInput{Username: "ada", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)

	claims, err := e.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleCustomer, claims.RoleID)
}

func TestLoginWrongRoleOrPassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.auth.Signup(ctx, models.RoleCustomer, signup("bob"))
	require.NoError(t, err)

	_, err = e.auth.Login(ctx, models.RoleAdmin, LoginInput{Username: "bob", Password: "secret123"})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	_, err = e.auth.Login(ctx, models.RoleCustomer, LoginInput{Username: "bob", Password: "wrong"})
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	_, err = e.auth.Login(ctx, models.RoleCustomer, LoginInput{Username: "bob"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestSignupValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(in *SignupInput)
		want   string
	}{
		{"missing username", func(in *SignupInput) { in.Username = " " }, "All fields are required"},
		{"mismatch", func(in *SignupInput) { in.ConfirmPassword = "other123" }, "Passwords do not match"},
		{"short", func(in *SignupInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, "Password must be at least 6 characters"},
		{"email", func(in *SignupInput) { in.Email = "nope" }, "Invalid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := signup("carol")
			tt.mutate(&in)
			_, err := e.auth.Signup(ctx, models.RoleCustomer, in)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperror.From(err).Message)
		})
	}
}

func TestSignupDuplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.auth.Signup(ctx, models.RoleCustomer, signup("dave"))
	require.NoError(t, err)

	dup := signup("dave2")
	dup.Email = "dave@example.com"
	_, err = e.auth.Signup(ctx, models.RoleCustomer, dup)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Equal(t, "Email already exists", apperror.From(err).Message)
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	claims := e.user(t, "erin", models.RoleCustomer)

	_, err := e.auth.UpdateProfile(ctx, claims, ProfileUpdateInput{})
	assert.Equal(t, "Provide at least one field to update", apperror.From(err).Message)

	_, err = e.auth.UpdateProfile(ctx, claims, ProfileUpdateInput{Password: strPtr("newpass1"), ConfirmPassword: strPtr("other")})
	assert.Equal(t, "Passwords do not match", apperror.From(err).Message)

	res, err := e.auth.UpdateProfile(ctx, claims, ProfileUpdateInput{Email: strPtr(" NEW@Mail.com ")})
	require.NoError(t, err)
	assert.True(t, res.Email)
	assert.False(t, res.Password)

	user, err := e.auth.Profile(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "new@mail.com", user.Email)
}
