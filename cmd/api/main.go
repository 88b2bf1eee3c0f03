package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/OlaWorkspace/olla-website-sub000/internal/admin"
	"github.com/OlaWorkspace/olla-website-sub000/internal/auth"
	"github.com/OlaWorkspace/olla-website-sub000/internal/business"
	"github.com/OlaWorkspace/olla-website-sub000/internal/config"
	"github.com/OlaWorkspace/olla-website-sub000/internal/dashboard"
	"github.com/OlaWorkspace/olla-website-sub000/internal/db"
	"github.com/OlaWorkspace/olla-website-sub000/internal/loyalty"
	"github.com/OlaWorkspace/olla-website-sub000/internal/middleware"
	"github.com/OlaWorkspace/olla-website-sub000/internal/onboarding"
	"github.com/OlaWorkspace/olla-website-sub000/internal/profile"
	"github.com/OlaWorkspace/olla-website-sub000/internal/router"
	"github.com/OlaWorkspace/olla-website-sub000/internal/staff"
	"github.com/OlaWorkspace/olla-website-sub000/internal/storage"
	"github.com/OlaWorkspace/olla-website-sub000/internal/subscription"
)

func main() {
	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("postgres connect failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.MigratePool(ctx, pool, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// ───────────────────────── SESSION STATE ─────────────────────────
	var (
		cache onboarding.Cache = onboarding.NewMemoryCache()
		bus   onboarding.Bus   = onboarding.NewMemoryBus()
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis ping failed", zap.Error(err))
		}
		// Slots live as long as the token that owns them.
		cache = onboarding.NewRedisCache(rdb, cfg.JWTTTL)
		bus = onboarding.NewRedisBus(rdb, logger)
		logger.Info("session state in redis")
	} else {
		logger.Warn("REDIS_URL not set, session state is process-local")
	}

	// ───────────────────────── ONBOARDING ─────────────────────────
	profiles, err := profile.NewStore(cfg, pool)
	if err != nil {
		logger.Fatal("profile store init failed", zap.Error(err))
	}

	recorder := onboarding.NewRecorder(profiles, cache, bus, logger)
	guard := onboarding.NewGuard(
		onboarding.NewResolver(cache, profiles, cfg.OnboardingRemoteTimeout, logger),
		onboarding.NewCoordinator(),
	)

	// ───────────────────────── STORAGE ─────────────────────────
	var logos business.LogoUploader
	if cfg.StorageEnabled() {
		r2Client, err := storage.NewR2Client(ctx, storage.R2Config{
			Endpoint:      cfg.R2Endpoint,
			AccessKey:     cfg.R2AccessKey,
			SecretKey:     cfg.R2SecretKey,
			Bucket:        cfg.R2Bucket,
			PublicBaseURL: cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Fatal("R2 init failed", zap.Error(err))
		}
		logos = r2Client
	} else {
		logger.Warn("R2 not configured, logo uploads disabled")
	}

	// ───────────────────────── SERVICES (ORDER MATTERS) ─────────────────────────
	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Fatal("token setup failed", zap.Error(err))
	}

	catalogue, err := subscription.DefaultCatalogue()
	if err != nil {
		logger.Fatal("plan catalogue failed to load", zap.Error(err))
	}

	authService := auth.NewService(auth.NewPostgresUserRepository(pool))
	subscriptionService := subscription.NewService(subscription.NewPostgresRepository(pool), catalogue, recorder, logger)
	businessService := business.NewService(business.NewPostgresRepository(pool), recorder, logos, logger)
	loyaltyService := loyalty.NewService(loyalty.NewPostgresRepository(pool), businessService, subscriptionService, recorder, logger)
	staffService := staff.NewService(staff.NewPostgresRepository(pool), businessService, subscriptionService, logger)
	adminService := admin.NewService(authService, businessService, subscriptionService, recorder, logger)

	// ───────────────────────── HTTP ─────────────────────────
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	origins := cfg.AllowedOrigins()
	r := router.NewRouter(router.Deps{
		Logger:         logger,
		Tokens:         tokens,
		Guard:          guard,
		LoginLimiter:   middleware.NewRateLimiter(float64(cfg.LoginRatePerSecond), cfg.LoginRateBurst, logger),
		AllowedOrigins: origins,

		Auth:          auth.NewHandler(authService, tokens, recorder, cfg.IsProduction(), logger),
		Onboarding:    onboarding.NewHandler(guard, recorder, bus, originChecker(origins), logger),
		Subscriptions: subscription.NewHandler(subscriptionService, logger),
		Businesses:    business.NewHandler(businessService, logger),
		Loyalty:       loyalty.NewHandler(loyaltyService, logger),
		Staff:         staff.NewHandler(staffService, logger),
		Dashboard:     dashboard.NewHandler(businessService, loyaltyService, subscriptionService, staffService, logger),
		Admin:         admin.NewHandler(adminService, logger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ───────────────────────── START ─────────────────────────
	go func() {
		logger.Info("API listening", zap.String("addr", srv.Addr), zap.String("profile_backend", cfg.ProfileBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

// originChecker accepts websocket upgrades from the CORS allow-list.
// Requests without an Origin header (non-browser clients) pass.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return slices.Contains(allowed, u.Scheme+"://"+u.Host)
	}
}
