package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Authenticate requires a valid Bearer token and loads the actor from
// the store so role checks always see the current role, not the one
// baked into the token at issue time.
func Authenticate(authService service.AuthService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := resolveActor(c, authService, users)
		if !ok {
			return
		}
		if actor == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuthenticate resolves the actor when a token is present and
// lets anonymous requests through; read endpoints need no credentials.
// A token that is present but invalid is still rejected.
func OptionalAuthenticate(authService service.AuthService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := resolveActor(c, authService, users)
		if !ok {
			return
		}
		if actor != nil {
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

// resolveActor returns (nil, true) for anonymous requests and
// (nil, false) after writing an error response.
func resolveActor(c *gin.Context, authService service.AuthService, users repository.UserRepository) (*models.User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, true
	}

	// format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		c.Abort()
		return nil, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return nil, false
	}

	actor, err := users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		// token may outlive its user
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return nil, false
	}
	return actor, true
}

// CurrentUser returns the authenticated actor, or nil for anonymous
// requests.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return actor
}
