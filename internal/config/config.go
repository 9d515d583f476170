package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN      string `env:"DATABASE_DSN,required=true"`
	RedisURL         string `env:"REDIS_URL,required=true"`
	GatewayURL       string `env:"GATEWAY_URL,required=true"`
	MediaDir         string `env:"MEDIA_DIR,default=./storage/media"`
	APIPort          int    `env:"API_PORT,default=8080"`
	LogLevel         string `env:"LOG_LEVEL,default=info"`
	DefaultBatchSize int    `env:"DEFAULT_BATCH_SIZE,default=5"`
	SendRatePerSec   int    `env:"SEND_RATE_PER_SEC,default=10"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
