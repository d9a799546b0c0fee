package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/auth"
	"github.com/lalith-99/communityhub/internal/models"
)

// Context keys for storing claims in gin.Context.
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
)

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's claims in the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status, msg := claimsFromRequest(c, secret)
		if claims == nil {
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth populates the claims when a valid token is present and lets
// anonymous requests through. A token that is present but invalid is still
// rejected, so a client with an expired session finds out.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" && c.Query("access_token") == "" {
			c.Next()
			return
		}
		claims, status, msg := claimsFromRequest(c, secret)
		if claims == nil {
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !models.IsAdmin(GetRole(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// claimsFromRequest reads "Authorization: Bearer <token>". Browsers can't
// set headers on a websocket handshake, so the access_token query
// parameter is accepted as a fallback.
func claimsFromRequest(c *gin.Context, secret string) (*auth.Claims, int, string) {
	var tokenString string
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return nil, http.StatusUnauthorized, "invalid authorization format, expected: Bearer <token>"
		}
		tokenString = parts[1]
	} else {
		tokenString = c.Query("access_token")
	}
	if tokenString == "" {
		return nil, http.StatusUnauthorized, "missing authorization header"
	}

	claims, err := auth.ParseToken(tokenString, secret)
	if err != nil {
		return nil, http.StatusUnauthorized, "invalid or expired token"
	}
	return claims, 0, ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyRole, claims.Role)
}

// GetUserID returns uuid.Nil when the request is anonymous.
func GetUserID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// Viewer is GetUserID for handlers that serve anonymous callers too.
func Viewer(c *gin.Context) *uuid.UUID {
	id := GetUserID(c)
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func GetEmail(c *gin.Context) string {
	return c.GetString(ContextKeyEmail)
}

func GetRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}
