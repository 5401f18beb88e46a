package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
	"github.com/killallgit/audionote/internal/services/auth"
)

const claimsKey = "claims"

// TokenValidator checks a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, types.ErrorResponse{
		Status:  types.StatusError,
		Message: message,
		Error:   code,
	})
}

// Middleware requires a valid bearer token on every request
func Middleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied - insufficient permissions")
			} else {
				abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			}
			return
		}

		c.Set(claimsKey, claims)
		c.Set("user_id", claims.Sub)
		c.Next()
	}
}

// RequireMethodPermission lets reads through with notes:read and
// everything else with notes:write
func RequireMethodPermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		required := auth.PermissionNotesWrite
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			required = auth.PermissionNotesRead
		}
		if !claims.HasPermission(required) {
			c.AbortWithStatusJSON(http.StatusForbidden, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Insufficient permissions",
				Error:   "FORBIDDEN",
				Details: gin.H{"required_permission": required},
			})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Middleware
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}

// Me returns the caller's identity
// @Summary      Get current caller
// @Description  Identity and permissions of the bearer token
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} auth.UserInfo
// @Failure      401 {object} types.ErrorResponse
// @Router       /api/v1/me [get]
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
			return
		}
		c.JSON(http.StatusOK, auth.GetUserInfo(claims))
	}
}
