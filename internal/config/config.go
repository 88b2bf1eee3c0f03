// Package config loads runtime settings for the API, the worker and the CLI
// from the environment. Outside production a local .env file is read first.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	ProfileBackendPostgres = "postgres"
	ProfileBackendSupabase = "supabase"
)

type Config struct {
	AppEnv string `env:"APP_ENV,default=development"`
	Port   string `env:"PORT,default=8000"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=24h"`

	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL"`

	// ProfileBackend selects where the remote onboarding record lives.
	ProfileBackend     string `env:"PROFILE_BACKEND,default=postgres"`
	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_KEY"`

	OnboardingRemoteTimeout time.Duration `env:"ONBOARDING_REMOTE_TIMEOUT,default=3s"`

	CORSOrigins string `env:"CORS_ORIGINS,default=http://localhost:3000"`

	LoginRatePerSecond int `env:"LOGIN_RATE_PER_SECOND,default=5"`
	LoginRateBurst     int `env:"LOGIN_RATE_BURST,default=10"`

	R2Endpoint      string `env:"R2_ENDPOINT"`
	R2AccessKey     string `env:"R2_ACCESS_KEY"`
	R2SecretKey     string `env:"R2_SECRET_KEY"`
	R2Bucket        string `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL string `env:"R2_PUBLIC_BASE_URL"`

	SweepSchedule     string `env:"SWEEP_SCHEDULE,default=@every 1h"`
	WorkerMetricsAddr string `env:"WORKER_METRICS_ADDR,default=:9100"`
}

// Load reads .env (non-production only) and decodes the environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.ProfileBackend {
	case ProfileBackendPostgres:
	case ProfileBackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for the supabase profile backend")
		}
	default:
		return errors.New("PROFILE_BACKEND must be postgres or supabase")
	}
	if c.OnboardingRemoteTimeout <= 0 {
		return errors.New("ONBOARDING_REMOTE_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StorageEnabled reports whether every R2 setting is present.
func (c *Config) StorageEnabled() bool {
	return c.R2Endpoint != "" && c.R2AccessKey != "" && c.R2SecretKey != "" &&
		c.R2Bucket != "" && c.R2PublicBaseURL != ""
}

func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
