package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"campusfeed/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the auth middleware for downstream handlers.
const (
	ContextUserID = "userId"
	ContextRole   = "role"
)

type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenTTL is how long issued bearer tokens stay valid.
const TokenTTL = 24 * time.Hour

// NewToken signs a bearer token embedding the user's id and role.
func NewToken(userID string, role models.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// parseBearer extracts and verifies the Authorization header. It returns
// the verified claims or the status/message pair the caller must respond
// with. No database lookup happens here; the claims are trusted for the
// request lifetime.
func parseBearer(c *gin.Context) (*Claims, int, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, http.StatusUnauthorized, "No token provided"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, "Invalid authorization header"
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, http.StatusUnauthorized, "Token expired"
		}
		return nil, http.StatusUnauthorized, "Invalid token"
	}
	if !token.Valid {
		return nil, http.StatusUnauthorized, "Invalid token"
	}

	return claims, 0, ""
}

// Authenticate verifies the bearer token and attaches the caller's
// identity to the request context.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		claims, status, msg := parseBearer(c)
		if claims == nil {
			c.AbortWithStatusJSON(status, gin.H{"message": msg})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole verifies the bearer token and additionally demands a
// specific role. A valid token with the wrong role is rejected with 403,
// distinct from the 401 a bad token gets. One gate per role keeps route
// declarations declarative.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		claims, status, msg := parseBearer(c)
		if claims == nil {
			c.AbortWithStatusJSON(status, gin.H{"message": msg})
			return
		}
		if claims.Role != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": fmt.Sprintf("Access denied: %s role required", role),
			})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

var (
	RequireStudent = RequireRole(models.RoleStudent)
	RequireTeacher = RequireRole(models.RoleTeacher)
	RequireAdmin   = RequireRole(models.RoleAdmin)
)
