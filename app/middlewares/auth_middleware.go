package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/Rakhulsr/go-perfumery/app/utils/token"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

const ClaimsKey contextKey = "claims"

// ClaimsFromContext returns the claims RequireRole stored, or nil on a
// route that is not gated.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*token.Claims)
	return claims
}

// Authenticate checks the raw token in the Authorization header. A
// "Bearer " prefix is rejected on purpose: clients send the token as is.
func Authenticate(tokens *token.Manager, r *http.Request) (*token.Claims, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return nil, apperror.Unauthorized("Token missing")
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return nil, apperror.Unauthorized("Use raw token, not Bearer")
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return nil, apperror.Unauthorized("Token expired")
		}
		return nil, apperror.Unauthorized("Invalid token")
	}
	return claims, nil
}

// RequireRole gates a route on the token's role claim.
func RequireRole(tokens *token.Manager, rnd *render.Render, logger *zap.Logger, roles ...int) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := Authenticate(tokens, r)
			if err != nil {
				renderer.Error(rnd, w, logger, err)
				return
			}

			permitted := false
			for _, role := range roles {
				if claims.RoleID == role {
					permitted = true
					break
				}
			}
			if !permitted {
				logger.Warn("role denied",
					zap.Uint("user_id", claims.UserID),
					zap.Int("role_id", claims.RoleID),
					zap.String("path", r.URL.Path),
				)
				renderer.Error(rnd, w, logger, apperror.Forbidden("Access denied"))
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ClaimsKey, claims)))
		})
	}
}
