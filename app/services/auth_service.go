package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/token"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const minPasswordLength = 6

type SignupInput struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required"`
	PhoneNumber     string `json:"phone_number" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Password        string `json:"password" validate:"required,min=6"`
}

var signupMessages = map[string]string{
	"username.required":         "All fields are required",
	"email.required":            "All fields are required",
	"phone_number.required":     "All fields are required",
	"password.required":         "All fields are required",
	"confirm_password.required": "All fields are required",
	"confirm_password.eqfield":  "Passwords do not match",
	"password.min":              "Password must be at least 6 characters",
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdateInput struct {
	Email           *string `json:"email"`
	PhoneNumber     *string `json:"phone_number"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirm_password"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type ProfileUpdateResult struct {
	Email       bool `json:"email"`
	PhoneNumber bool `json:"phone_number"`
	Password    bool `json:"password"`
}

type AuthService struct {
	userRepo  repositories.UserRepository
	tokens    *token.Manager
	validator *validator.Validate
	logger    *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepository, tokens *token.Manager, v *validator.Validate, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, validator: v, logger: logger.Named("auth")}
}

func (s *AuthService) Signup(ctx context.Context, roleID int, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := s.validator.Struct(in); err != nil {
		return nil, apperror.Validation("%s", helpers.FirstValidationMessage(err, signupMessages))
	}
	if !strings.Contains(in.Email, "@") {
		return nil, apperror.Validation("Invalid email format")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("Server error", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
		RoleID:       roleID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if key, dup := repositories.DuplicateKey(err); dup {
			return nil, apperror.Conflict(signupConflictMessage(key))
		}
		s.logger.Error("Signup: failed to create user", zap.String("username", in.Username), zap.Error(err))
		return nil, apperror.Internal("Server error", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", models.RoleName(roleID)))
	return user, nil
}

func signupConflictMessage(key string) string {
	key = strings.ToLower(key)
	switch {
	case strings.Contains(key, "email"):
		return "Email already exists"
	case strings.Contains(key, "phone"):
		return "Phone number already exists"
	case strings.Contains(key, "username"):
		return "Username already exists"
	default:
		return "User already exists"
	}
}

func (s *AuthService) Login(ctx context.Context, roleID int, in LoginInput) (*LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validator.Struct(in); err != nil {
		return nil, apperror.Validation("Username and password required")
	}

	user, err := s.userRepo.FindByUsernameAndRole(ctx, in.Username, roleID)
	if err != nil {
		s.logger.Error("Login: failed to look up user", zap.String("username", in.Username), zap.Error(err))
		return nil, apperror.Internal("Server error", err)
	}
	if user == nil || !helpers.PasswordCompare(user.PasswordHash, []byte(in.Password)) {
		return nil, apperror.Unauthorized("Invalid username or password")
	}

	raw, expiresAt, err := s.tokens.Issue(user.ID, user.Username, user.RoleID)
	if err != nil {
		return nil, apperror.Internal("Server error", err)
	}
	return &LoginResult{Token: raw, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, claims *token.Claims) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.Internal("Server error", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, claims *token.Claims, in ProfileUpdateInput) (*ProfileUpdateResult, error) {
	var patch repositories.UserPatch
	result := &ProfileUpdateResult{}

	email := trimmedOrNil(in.Email)
	phone := trimmedOrNil(in.PhoneNumber)
	password := nonEmptyOrNil(in.Password)
	if email == nil && phone == nil && password == nil {
		return nil, apperror.Validation("Provide at least one field to update")
	}

	if password != nil {
		if in.ConfirmPassword == nil || *in.ConfirmPassword != *password {
			return nil, apperror.Validation("Passwords do not match")
		}
		if len([]rune(*password)) < minPasswordLength {
			return nil, apperror.Validation("Password too short")
		}
		hash, err := helpers.HashPassword(*password)
		if err != nil {
			return nil, apperror.Internal("Server error", err)
		}
		patch.PasswordHash = &hash
		result.Password = true
	}
	if email != nil {
		lowered := strings.ToLower(*email)
		if !strings.Contains(lowered, "@") {
			return nil, apperror.Validation("Invalid email")
		}
		patch.Email = &lowered
		result.Email = true
	}
	if phone != nil {
		patch.PhoneNumber = phone
		result.PhoneNumber = true
	}

	rows, err := s.userRepo.Update(ctx, claims.UserID, patch)
	if err != nil {
		if key, dup := repositories.DuplicateKey(err); dup {
			if strings.Contains(strings.ToLower(key), "phone") {
				return nil, apperror.Conflict("Phone number already taken")
			}
			return nil, apperror.Conflict("Email already taken")
		}
		s.logger.Error("UpdateProfile: update failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, apperror.Internal("Server error", fmt.Errorf("update profile: %w", err))
	}
	if rows == 0 {
		return nil, apperror.NotFound("User not found")
	}
	return result, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func nonEmptyOrNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
