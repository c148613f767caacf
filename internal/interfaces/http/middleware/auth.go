package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fixmysite/portal/internal/infrastructure/auth"
	sharedauth "github.com/fixmysite/portal/internal/shared/auth"
	"github.com/fixmysite/portal/internal/shared/constants"
	"github.com/fixmysite/portal/internal/shared/logger"
	"github.com/fixmysite/portal/internal/shared/utils"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	admins     sharedauth.AdminList
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, admins sharedauth.AdminList, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		admins:     admins,
		logger:     logger,
	}
}

// RequireAuth accepts a bearer token, the x-access-token header, or a token
// query parameter (websocket clients cannot set headers).
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Access token required.")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err, "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token.")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.ID)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Access token required.")
			c.Abort()
			return
		}
		if !m.admins.IsAdmin(userID) {
			m.logger.Warnw("admin access denied", "user_id", userID, "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusForbidden, "Admin access required.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user set by RequireAuth.
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader(constants.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if t := c.GetHeader(constants.HeaderAccessToken); t != "" {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(c.Query("token"))
}
