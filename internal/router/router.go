package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/admin"
	"github.com/OlaWorkspace/olla-website-sub000/internal/auth"
	"github.com/OlaWorkspace/olla-website-sub000/internal/business"
	"github.com/OlaWorkspace/olla-website-sub000/internal/dashboard"
	"github.com/OlaWorkspace/olla-website-sub000/internal/loyalty"
	"github.com/OlaWorkspace/olla-website-sub000/internal/metrics"
	"github.com/OlaWorkspace/olla-website-sub000/internal/middleware"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
	"github.com/OlaWorkspace/olla-website-sub000/internal/staff"
	"github.com/OlaWorkspace/olla-website-sub000/internal/subscription"
)

// Deps is everything the HTTP surface is assembled from.
type Deps struct {
	Logger         *zap.Logger
	Tokens         *auth.Tokens
	Guard          *onboarding.Guard
	LoginLimiter   *middleware.RateLimiter
	AllowedOrigins []string

	Auth          *auth.Handler
	Onboarding    *onboarding.Handler
	Subscriptions *subscription.Handler
	Businesses    *business.Handler
	Loyalty       *loyalty.Handler
	Staff         *staff.Handler
	Dashboard     *dashboard.Handler
	Admin         *admin.Handler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(d.Logger),
		metrics.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Location", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	// ───────────────────────── OPS ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ───────────────────────── PUBLIC ─────────────────────────
	r.GET("/plans", d.Subscriptions.ListPlans)

	// ───────────────────────── AUTH ─────────────────────────
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", d.Auth.Register)
		authGroup.POST("/login", d.LoginLimiter.Handler(), d.Auth.Login)

		protected := authGroup.Group("")
		protected.Use(middleware.AuthMiddleware(d.Tokens))
		{
			protected.POST("/logout", d.Auth.Logout)
			protected.GET("/me", d.Auth.Me)
		}
	}

	// ───────────────────────── ONBOARDING API ─────────────────────────
	api := r.Group("/api/onboarding")
	{
		api.POST("/guard", middleware.OptionalAuth(d.Tokens), d.Onboarding.CheckGuard)
		api.GET("/status", middleware.AuthMiddleware(d.Tokens), d.Onboarding.GetStatus)
		api.GET("/events", middleware.AuthMiddleware(d.Tokens), d.Onboarding.Events)
	}

	// ───────────────────────── GUARDED PAGES ─────────────────────────
	// Every route below is reached only through the progression guard,
	// which also turns away anonymous and non-professional callers.
	pages := r.Group("")
	pages.Use(middleware.OptionalAuth(d.Tokens), onboarding.Gate(d.Guard))

	steps := pages.Group("/onboarding")
	{
		steps.GET("/plan", d.Subscriptions.GetPlanStep)
		steps.POST("/plan", d.Subscriptions.SelectPlan)

		steps.GET("/business", d.Businesses.GetInfoStep)
		steps.POST("/business", d.Businesses.SaveInfo)

		steps.GET("/loyalty", d.Loyalty.GetProgram)
		steps.POST("/loyalty", d.Loyalty.SaveProgram)
		steps.POST("/loyalty/tiers", d.Loyalty.AddTier)

		steps.GET("/welcome", d.Onboarding.GetWelcome)
		steps.POST("/welcome", d.Onboarding.CompleteWelcome)
	}

	dash := pages.Group("/dashboard")
	{
		dash.GET("", d.Dashboard.Get)

		dash.GET("/business", d.Businesses.GetSettings)
		dash.PUT("/business", d.Businesses.UpdateSettings)
		dash.POST("/business/logo", d.Businesses.UploadLogo)

		dash.GET("/loyalty", d.Loyalty.GetProgram)
		dash.PUT("/loyalty", d.Loyalty.SaveProgram)
		dash.POST("/loyalty/tiers", d.Loyalty.AddTier)
		dash.DELETE("/loyalty/tiers/:id", d.Loyalty.DeleteTier)

		dash.GET("/staff", d.Staff.List)
		dash.POST("/staff", d.Staff.Add)
		dash.DELETE("/staff/:id", d.Staff.Remove)

		dash.GET("/subscription", d.Subscriptions.GetCurrent)
	}

	// ───────────────────────── ADMIN ─────────────────────────
	adminGroup := r.Group("/admin")
	adminGroup.Use(
		middleware.AuthMiddleware(d.Tokens),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		adminGroup.GET("/overview", d.Admin.Overview)
		adminGroup.GET("/users", d.Admin.ListUsers)
		adminGroup.POST("/users/:id/onboarding/complete", d.Admin.CompleteOnboarding)
		adminGroup.GET("/businesses", d.Businesses.AdminList)
		adminGroup.GET("/subscriptions", d.Subscriptions.AdminList)
		adminGroup.PATCH("/subscriptions/:id", d.Subscriptions.AdminUpdate)
	}

	return r
}
