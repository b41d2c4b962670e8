package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL is the bearer token lifetime.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=168h"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Import ImportConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=voter_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type ImportConfig struct {
	// RowTTL bounds how long the parsed rows of an uncommitted upload are kept.
	RowTTL time.Duration `env:"IMPORT_ROW_TTL, default=24h"`
	// MaxUploadBytes caps the accepted upload size.
	MaxUploadBytes int64 `env:"IMPORT_MAX_UPLOAD_BYTES, default=10485760"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
