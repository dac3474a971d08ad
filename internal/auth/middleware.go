package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/Sujal861/Omi-Mentor/internal"
	"github.com/Sujal861/Omi-Mentor/internal/config"
	"github.com/Sujal861/Omi-Mentor/internal/response"
)

// AuthMiddleware resolves the bearer token to a *internal.User stored under "user".
// The deployment serves one owner, so any other authenticated user is refused.
func AuthMiddleware(provider Provider, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			var user *internal.User
			var err error
			if cfg.Env == "development" {
				user, err = provider.ValidateTokenLocal(token)
			} else {
				user, err = provider.ValidateTokenRemote(c.Request.Context(), token)
			}
			if err == nil && user.ID != cfg.OwnerID {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden("This deployment belongs to another user"))
				return
			}
			if err == nil {
				c.Set("user", user)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized("Unauthorized"))
	}
}

// NewProvider picks the local provider in development and the remote one elsewhere.
func NewProvider(cfg *config.Config, logger internal.Logger) Provider {
	if cfg.Env == "development" {
		owner := internal.User{ID: cfg.OwnerID, Name: cfg.OwnerName, Email: cfg.OwnerEmail}
		return NewLocalAuthProvider(cfg.AuthToken, owner, logger)
	}
	return NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
}
