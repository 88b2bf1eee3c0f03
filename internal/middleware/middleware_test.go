package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/auth"
)

func testTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret-key-for-testing-only", time.Hour)
	require.NoError(t, err)
	return tokens
}

func echoRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":    c.GetString(KeyUserID),
			"userEmail": c.GetString(KeyUserEmail),
			"sessionID": c.GetString(KeySessionID),
		})
	})
	return router
}

func get(r http.Handler, header, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingAuthHeader(t *testing.T) {
	w := get(echoRouter(AuthMiddleware(testTokens(t))), "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	w := get(echoRouter(AuthMiddleware(testTokens(t))), "InvalidFormat", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	w := get(echoRouter(AuthMiddleware(testTokens(t))), "Bearer invalid_token_xyz", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := testTokens(t)
	token, claims, err := tokens.Generate("test-user-id", "test@example.com", auth.RoleProfessional)
	require.NoError(t, err)

	w := get(echoRouter(AuthMiddleware(tokens)), "Bearer "+token, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test-user-id")
	assert.Contains(t, w.Body.String(), claims.SessionID)
}

func TestAuthMiddleware_SessionCookie(t *testing.T) {
	tokens := testTokens(t)
	token, _, err := tokens.Generate("cookie-user", "c@example.com", auth.RoleProfessional)
	require.NoError(t, err)

	w := get(echoRouter(AuthMiddleware(tokens)), "", token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cookie-user")
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	w := get(echoRouter(OptionalAuth(testTokens(t))), "Bearer garbage", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":""`)
}

func TestRequireRole(t *testing.T) {
	tokens := testTokens(t)
	adminToken, _, _ := tokens.Generate("admin-1", "", auth.RoleAdmin)
	proToken, _, _ := tokens.Generate("pro-1", "", auth.RoleProfessional)

	r := echoRouter(AuthMiddleware(tokens), RequireRole(auth.RoleAdmin))

	assert.Equal(t, http.StatusOK, get(r, "Bearer "+adminToken, "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+proToken, "").Code)
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, zap.NewNop())
	r := echoRouter(limiter.Handler())

	assert.Equal(t, http.StatusOK, get(r, "", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "", "").Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := echoRouter(RequestLogger(zap.NewNop()))

	w := get(r, "", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
}

func TestPage(t *testing.T) {
	cases := []struct {
		query         string
		limit, offset int
	}{
		{"", 50, 0},
		{"?limit=10&offset=20", 10, 20},
		{"?limit=1000", 200, 0},
		{"?limit=-1&offset=-5", 50, 0},
		{"?limit=abc", 50, 0},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)

		limit, offset := Page(c)
		assert.Equal(t, tc.limit, limit, tc.query)
		assert.Equal(t, tc.offset, offset, tc.query)
	}
}
