package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jengzang/thinking-wizard-backend-go/internal/models"
	"github.com/jengzang/thinking-wizard-backend-go/pkg/response"
)

const (
	userIDKey = "user_id"
	modeKey   = "ui_mode"

	// ViewModeHeader lets an admin view the student UI
	ViewModeHeader = "X-View-Mode"

	// AnonymousUser is the user ID when auth is disabled
	AnonymousUser = "anonymous"
)

// Claims are the verified token claims
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HS256 token and returns its claims
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// SignToken issues an HS256 token; used by tests and the dashboard command
func SignToken(secret string, claims Claims) (string, error) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return s, nil
}

// Auth verifies the bearer token and stores the user ID and UI mode in the context.
// With disabled set, every request is an anonymous admin.
func Auth(secret string, disabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if disabled {
			c.Set(userIDKey, AnonymousUser)
			c.Set(modeKey, viewMode(c, models.ModeAdmin))
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Missing bearer token")
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token", err)
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(modeKey, viewMode(c, models.ParseUIMode(claims.Role)))
		c.Next()
	}
}

// viewMode lets admins opt into the student view; students cannot escalate
func viewMode(c *gin.Context, role models.UIMode) models.UIMode {
	if role == models.ModeAdmin && strings.EqualFold(c.GetHeader(ViewModeHeader), "student") {
		return models.ModeStudent
	}
	return role
}

// RequireAdmin rejects requests not served in admin mode
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Mode(c) != models.ModeAdmin {
			response.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user ID
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// Mode returns the UI mode of the request; student when unset
func Mode(c *gin.Context) models.UIMode {
	if m, ok := c.Get(modeKey); ok {
		if mode, ok := m.(models.UIMode); ok {
			return mode
		}
	}
	return models.ModeStudent
}
