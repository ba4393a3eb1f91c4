package middleware

import (
	"context"
	"net/http"
	"strings"

	"minierp/internal/domain"
	apperror "minierp/internal/errors"
	"minierp/internal/pkg/logger"
	"minierp/internal/pkg/respond"
	"minierp/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
// Chaves não exportadas de tipo próprio evitam colisão com outras chaves string.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware valida o JWT (Authorization: Bearer <token>) e anexa as claims ao contexto.
func NewAuthMiddleware(tokenSvc TokenService, log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || strings.TrimSpace(tokenString) == "" {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Missing or malformed authorization token."))
				return
			}

			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Invalid or expired token."))
				return
			}

			userClaims := UserClaims{
				UserID: claims.UserID,
				Role:   domain.UserRole(claims.Role),
			}
			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserClaimsFromContext extrai as claims anexadas pelo NewAuthMiddleware.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware exige que o usuário autenticado tenha um dos papéis informados.
func PermissionMiddleware(log logger.Logger, requiredRoles ...domain.UserRole) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				respond.Error(w, r, log, apperror.NewUnauthorizedError("Authentication required."))
				return
			}

			for _, role := range requiredRoles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			respond.Error(w, r, log, apperror.NewForbiddenError("Access denied for role "+string(claims.Role)+"."))
		})
	}
}
