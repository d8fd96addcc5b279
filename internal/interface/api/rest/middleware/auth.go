package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"identity-api/internal/application/ports"
	"identity-api/internal/domain/user"
	"identity-api/internal/infrastructure/jwt"
)

const CtxCurrentUser = "currentUser"

// AuthMiddleware resolves the bearer token to an active user and stores it
// under CtxCurrentUser.
func AuthMiddleware(auth ports.Auth, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing Authorization header")
			return
		}

		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			unauthorized(c, "invalid token format")
			return
		}

		u, err := auth.CurrentUser(c.Request.Context(), strings.TrimSpace(tokenStr))
		switch {
		case err == nil:
		case errors.Is(err, jwt.ErrTokenExpired):
			unauthorized(c, "token expired")
			return
		case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, ports.ErrInvalidCredentials):
			unauthorized(c, "invalid token")
			return
		default:
			logger.Error("CurrentUser() error", zap.Error(err))
			c.AbortWithStatusJSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to authenticate"},
			)
			return
		}

		c.Set(CtxCurrentUser, u)

		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(CtxCurrentUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok && u != nil
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
