package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Anthropic AnthropicConfig
	Credits   CreditsConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
	Prompt    PromptConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type AnthropicConfig struct {
	APIKey        string
	BaseURL       string
	Version       string
	ScriptModel   string // full script generation
	LightModel    string // ideas, plans and block refinement
	Timeout       time.Duration
	MaxTokens     int
	InputCostEUR  float64 // per million input tokens
	OutputCostEUR float64 // per million output tokens
}

type CreditsConfig struct {
	DefaultAllotment int
	GenerateCost     int
	PlanCost         int
	IdeasCost        int
	RefineCost       int
	PolishCost       int
}

// RatePolicy configures one limiter instance. Each gated route owns its own
// counter space.
type RatePolicy struct {
	Limit  int
	Window time.Duration
}

type RateLimitConfig struct {
	Backend  string // "memory" or "redis"
	MaxKeys  int
	Generate RatePolicy
	Plan     RatePolicy
	Ideas    RatePolicy
	Refine   RatePolicy
	Polish   RatePolicy
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type PromptConfig struct {
	// BrandContextBudget bounds the brand knowledge block injected into
	// prompts, in characters.
	BrandContextBudget int
}

// Load builds the configuration from environment variables, with defaults for
// everything except secrets.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        envOr("PORT", "8080"),
			Environment: envOr("ENVIRONMENT", "development"),
		},
		Postgres: PostgresConfig{
			Host:     envOr("POSTGRES_HOST", "localhost"),
			Port:     envOr("POSTGRES_PORT", "5432"),
			User:     envOr("POSTGRES_USER", "postgres"),
			Password: envOr("POSTGRES_PASSWORD", "postgres"),
			DBName:   envOr("POSTGRES_DB", "writiia"),
			SSLMode:  envOr("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     envOr("REDIS_HOST", "localhost"),
			Port:     envOr("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envIntOr("REDIS_DB", 0),
			Enabled:  envBoolOr("REDIS_ENABLED", false),
		},
		Anthropic: AnthropicConfig{
			APIKey:        os.Getenv("ANTHROPIC_API_KEY"),
			BaseURL:       envOr("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			Version:       envOr("ANTHROPIC_VERSION", "2023-06-01"),
			ScriptModel:   envOr("ANTHROPIC_SCRIPT_MODEL", "claude-3-5-sonnet-20241022"),
			LightModel:    envOr("ANTHROPIC_LIGHT_MODEL", "claude-3-haiku-20240307"),
			Timeout:       envDurationOr("ANTHROPIC_TIMEOUT", 60*time.Second),
			MaxTokens:     envIntOr("ANTHROPIC_MAX_TOKENS", 4096),
			InputCostEUR:  envFloatOr("ANTHROPIC_INPUT_COST_EUR", 3.0),
			OutputCostEUR: envFloatOr("ANTHROPIC_OUTPUT_COST_EUR", 15.0),
		},
		Credits: CreditsConfig{
			DefaultAllotment: envIntOr("CREDITS_DEFAULT_ALLOTMENT", 200),
			GenerateCost:     envIntOr("CREDITS_GENERATE_COST", 5),
			PlanCost:         envIntOr("CREDITS_PLAN_COST", 5),
			IdeasCost:        envIntOr("CREDITS_IDEAS_COST", 2),
			RefineCost:       envIntOr("CREDITS_REFINE_COST", 1),
			PolishCost:       envIntOr("CREDITS_POLISH_COST", 1),
		},
		RateLimit: RateLimitConfig{
			Backend:  envOr("RATELIMIT_BACKEND", "memory"),
			MaxKeys:  envIntOr("RATELIMIT_MAX_KEYS", 500),
			Generate: RatePolicy{Limit: envIntOr("RATELIMIT_GENERATE", 10), Window: time.Minute},
			Plan:     RatePolicy{Limit: envIntOr("RATELIMIT_PLAN", 5), Window: time.Minute},
			Ideas:    RatePolicy{Limit: envIntOr("RATELIMIT_IDEAS", 15), Window: time.Minute},
			Refine:   RatePolicy{Limit: envIntOr("RATELIMIT_REFINE", 25), Window: time.Minute},
			Polish:   RatePolicy{Limit: envIntOr("RATELIMIT_POLISH", 15), Window: time.Minute},
		},
		JWT: JWTConfig{
			Secret:      envOr("JWT_SECRET", "dev-secret-change-me"),
			ExpiryHours: envIntOr("JWT_EXPIRY_HOURS", 72),
		},
		Prompt: PromptConfig{
			BrandContextBudget: envIntOr("BRAND_CONTEXT_BUDGET", 5000),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
