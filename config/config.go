package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	Platform PlatformConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Env             string        `envconfig:"ENV" default:"development"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	RateLimit       int           `envconfig:"RATE_LIMIT" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

type DatabaseConfig struct {
	DSN             string        `envconfig:"DB_DSN" default:"quizmart:quizmart@tcp(localhost:3306)/quizmart?charset=utf8mb4&parseTime=True&loc=Local"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" default:"change-me-in-production"`
	Expiry time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`
	Issuer string        `envconfig:"JWT_ISSUER" default:"quizmart"`
}

type RedisConfig struct {
	Addr       string        `envconfig:"REDIS_ADDR" default:""`
	Password   string        `envconfig:"REDIS_PASS" default:""`
	DB         int           `envconfig:"REDIS_DB" default:"0"`
	SettingTTL time.Duration `envconfig:"REDIS_SETTING_TTL" default:"5m"`
}

// PaymentConfig configures the hosted-checkout gateway used for recharges.
type PaymentConfig struct {
	Provider       string        `envconfig:"PAYMENT_PROVIDER" default:"stub"`
	BaseURL        string        `envconfig:"PAYMENT_BASE_URL" default:""`
	APIKey         string        `envconfig:"PAYMENT_API_KEY" default:""`
	WebhookBaseURL string        `envconfig:"PAYMENT_WEBHOOK_BASE_URL" default:""`
	Expiry         time.Duration `envconfig:"PAYMENT_EXPIRY" default:"30m"`
}

// PlatformConfig identifies the treasury account credited with the commission
// share of every purchase. The settlement engine takes it at construction
// instead of resolving an admin wallet during a settlement.
type PlatformConfig struct {
	TreasuryUserID uint `envconfig:"PLATFORM_TREASURY_USER_ID" default:"1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
