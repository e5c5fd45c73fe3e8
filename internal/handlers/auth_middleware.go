package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/learning-service/internal/models"
	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

// AuthMiddleware resolves the session token from the cookie or a bearer header
type AuthMiddleware struct {
	authService services.AuthService
	cookieName  string
	logger      utils.Logger
}

func NewAuthMiddleware(authService services.AuthService, cookieName string, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookieName:  cookieName,
		logger:      logger,
	}
}

func (am *AuthMiddleware) token(c *gin.Context) string {
	if cookie, err := c.Cookie(am.cookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// RequireAuth rejects requests without a valid session
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := am.token(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
			return
		}

		actor, err := am.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, services.ErrAccountInactive) {
				status = http.StatusForbidden
			} else if !errors.Is(err, services.ErrUnauthenticated) {
				utils.GetLogger(c, am.logger).ErrorErr("Failed to authenticate request", err)
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, ErrorResponse{Message: publicMessage(err)})
			return
		}

		setActor(c, actor)
		c.Next()
	}
}

// OptionalAuth sets the actor when a valid session is present and never rejects
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := am.token(c); token != "" {
			if actor, err := am.authService.Authenticate(c.Request.Context(), token); err == nil {
				setActor(c, actor)
			}
		}
		c.Next()
	}
}

// RequireRoles allows the listed roles; admin always passes
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
			return
		}
		if actor.IsAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Message: fmt.Sprintf("insufficient permissions, required role: %v", roles),
		})
	}
}

func setActor(c *gin.Context, actor *services.Actor) {
	c.Set(ctxUserID, actor.UserID)
	c.Set(ctxUserRole, actor.Role)

	if logger := utils.GetLogger(c, nil); logger != nil {
		utils.SetLogger(c, logger.With("user_id", actor.UserID))
	}
}
