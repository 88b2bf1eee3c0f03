package onboarding

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OlaWorkspace/olla-website-sub000/internal/middleware"
)

// IdentityFrom reads the caller attached by the auth middlewares. It returns
// nil for anonymous requests.
func IdentityFrom(c *gin.Context) *Identity {
	userID := c.GetString(middleware.KeyUserID)
	if userID == "" {
		return nil
	}
	return &Identity{
		UserID:    userID,
		SessionID: c.GetString(middleware.KeySessionID),
		Role:      c.GetString(middleware.KeyUserRole),
	}
}

// isNavigation reports whether the browser is loading a page, as opposed
// to fetching data for one.
func isNavigation(c *gin.Context) bool {
	return c.GetHeader("Sec-Fetch-Mode") == "navigate"
}

// Gate guards page-data routes. It must run after middleware.OptionalAuth.
// Denied requests get a redirect to the page the user belongs on. Page
// navigations are coordinated per session: one overtaken by a newer
// navigation is dropped with 409.
func Gate(guard *Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		check := guard.Resolve
		if isNavigation(c) {
			check = guard.Check
		}

		d, err := check(c.Request.Context(), IdentityFrom(c), c.Request.URL.Path)
		switch {
		case errors.Is(err, ErrSuperseded):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		case err != nil:
			// Client went away.
			c.Abort()
			return
		}

		c.Set("onboardingStatus", d.Effective)

		if d.Allowed {
			c.Next()
			return
		}

		code := http.StatusFound
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			code = http.StatusSeeOther
		}
		c.Redirect(code, d.Redirect)
		c.Abort()
	}
}

// StatusFrom returns the effective status the gate computed for this
// request.
func StatusFrom(c *gin.Context) Status {
	v, ok := c.Get("onboardingStatus")
	if !ok {
		return StatusNone
	}
	s, _ := v.(Status)
	return s
}
