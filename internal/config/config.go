package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port string `env:"PORT, default=8080"`
	Env  string `env:"ENV, default=development"`

	DatabaseURL string `env:"DATABASE_URL, required"`

	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL, default=120m"`

	HashWorkers int `env:"HASH_WORKERS, default=4"`

	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginWindow        time.Duration `env:"LOGIN_WINDOW, default=15m"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE, default=20"`

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`
	SentryDSN string `env:"SENTRY_DSN"`

	Redis RedisConfig
}

// RedisConfig Addr 為空時停用登入節流
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load 從環境變數讀取設定
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith 以指定的 Lookuper 讀取設定，測試時可傳入 envconfig.MapLookuper
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("config: JWT_TTL must be positive")
	}
	return &cfg, nil
}

// Addr echo 監聽位址
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
