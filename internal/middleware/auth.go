package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/OlaWorkspace/olla-website-sub000/internal/auth"
)

// Context keys set by the auth middlewares.
const (
	KeyUserID    = "userID"
	KeyUserEmail = "userEmail"
	KeyUserRole  = "userRole"
	KeySessionID = "sessionID"
)

// AuthMiddleware rejects requests without a valid token. The token comes
// from the Authorization header or, failing that, the session cookie.
func AuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := bearerToken(c); err == nil {
			if claims, err := tokens.Validate(raw); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

type authError string

func (e authError) Error() string { return string(e) }

const (
	errMissingAuth = authError("missing authorization header")
	errBadFormat   = authError("invalid authorization format, use 'Bearer <token>'")
)

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if cookie, err := c.Cookie(auth.SessionCookie); err == nil && cookie != "" {
			return cookie, nil
		}
		return "", errMissingAuth
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errBadFormat
	}
	return parts[1], nil
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyUserID, claims.UserID)
	c.Set(KeyUserEmail, claims.Email)
	c.Set(KeyUserRole, claims.Role)
	c.Set(KeySessionID, claims.SessionID)
}
