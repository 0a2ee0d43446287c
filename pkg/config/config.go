package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Razorpay RazorpayConfig
	OpenAI   OpenAIConfig
	Insights InsightsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GHARTAK_APP_ENV" default:"dev"`
	Port         string `envconfig:"GHARTAK_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"GHARTAK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GHARTAK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"GHARTAK_REDIS_URL"`
	Address      string        `envconfig:"GHARTAK_REDIS_ADDR"`
	Password     string        `envconfig:"GHARTAK_REDIS_PASSWORD"`
	DB           int           `envconfig:"GHARTAK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GHARTAK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GHARTAK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GHARTAK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GHARTAK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GHARTAK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig describes the bearer credentials minted by the external identity
// provider. The API only verifies them; issuance lives with the provider.
type JWTConfig struct {
	Secret            string `envconfig:"GHARTAK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GHARTAK_JWT_ISSUER" default:"ghartak-identity"`
	ExpirationMinutes int    `envconfig:"GHARTAK_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"GHARTAK_CORS_ALLOWED_ORIGINS" default:"*"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"RAZORPAY_KEY_SECRET"`
	BaseURL   string `envconfig:"RAZORPAY_BASE_URL"`
}

// Configured reports whether both credentials are present and non-blank.
func (r RazorpayConfig) Configured() bool {
	return strings.TrimSpace(r.KeyID) != "" && strings.TrimSpace(r.KeySecret) != ""
}

type OpenAIConfig struct {
	APIKey      string  `envconfig:"OPENAI_API_KEY"`
	Model       string  `envconfig:"GHARTAK_OPENAI_MODEL" default:"gpt-3.5-turbo"`
	MaxTokens   int     `envconfig:"GHARTAK_OPENAI_MAX_TOKENS" default:"500"`
	Temperature float32 `envconfig:"GHARTAK_OPENAI_TEMPERATURE" default:"0.7"`
}

// Configured reports whether the model API key is present and non-blank.
func (o OpenAIConfig) Configured() bool {
	return strings.TrimSpace(o.APIKey) != ""
}

// InsightsConfig carries the restock-suggestion thresholds. The window is how
// long a product can go unordered before it is flagged; the floor filters out
// one-off curiosities.
type InsightsConfig struct {
	RestockWindow  time.Duration `envconfig:"GHARTAK_INSIGHTS_RESTOCK_WINDOW" default:"720h"`
	RestockMinSold int           `envconfig:"GHARTAK_INSIGHTS_RESTOCK_MIN_SOLD" default:"5"`
}
