package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/middlewares"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AuthHandler struct {
	render  *render.Render
	authSvc *services.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(r *render.Render, authSvc *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{render: r, authSvc: authSvc, logger: logger}
}

type profileView struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Role        string    `json:"role"`
	RoleID      int       `json:"role_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func roleLabel(roleID int) string {
	if roleID == models.RoleAdmin {
		return "Admin"
	}
	return "Customer"
}

// Signup returns the handler for one role's signup route.
func (h *AuthHandler) Signup(roleID int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.SignupInput
		if err := DecodeJSON(r, &in); err != nil {
			renderer.Error(h.render, w, h.logger, err)
			return
		}

		user, err := h.authSvc.Signup(r.Context(), roleID, in)
		if err != nil {
			renderer.Error(h.render, w, h.logger, err)
			return
		}

		h.render.JSON(w, http.StatusCreated, map[string]any{
			"message": fmt.Sprintf("%s registered successfully!", roleLabel(roleID)),
			"user_id": user.ID,
		})
	}
}

func (h *AuthHandler) Login(roleID int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.LoginInput
		if err := DecodeJSON(r, &in); err != nil {
			renderer.Error(h.render, w, h.logger, err)
			return
		}

		res, err := h.authSvc.Login(r.Context(), roleID, in)
		if err != nil {
			renderer.Error(h.render, w, h.logger, err)
			return
		}

		h.render.JSON(w, http.StatusOK, map[string]any{
			"message":    fmt.Sprintf("%s login successful", roleLabel(roleID)),
			"token":      res.Token,
			"expires_at": res.ExpiresAt,
			"role_id":    res.User.RoleID,
		})
	}
}

func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := middlewares.ClaimsFromContext(r.Context())
	renderer.Message(h.render, w, http.StatusOK, fmt.Sprintf("Welcome %s %s!", roleLabel(claims.RoleID), claims.Username))
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authSvc.Profile(r.Context(), middlewares.ClaimsFromContext(r.Context()))
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{
		"message": "Profile retrieved successfully",
		"profile": profileView{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
			Role:        models.RoleName(user.RoleID),
			RoleID:      user.RoleID,
			CreatedAt:   user.CreatedAt,
		},
	})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileUpdateInput
	if err := DecodeJSON(r, &in); err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	updated, err := h.authSvc.UpdateProfile(r.Context(), middlewares.ClaimsFromContext(r.Context()), in)
	if err != nil {
		renderer.Error(h.render, w, h.logger, err)
		return
	}

	h.render.JSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"updated": updated,
	})
}
