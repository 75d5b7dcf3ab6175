package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`

	Store    string `mapstructure:"store"`
	RedisURL string `mapstructure:"redis_url"`

	RoomTTL         time.Duration `mapstructure:"room_ttl"`
	AutoJoinCreator bool          `mapstructure:"autojoin_create"`
	MaxFrameBytes   int           `mapstructure:"max_frame_bytes"`
	STUNServers     []string      `mapstructure:"stun_servers"`

	ControlRateLimit    int           `mapstructure:"control_rate_limit"`
	ControlRateInterval time.Duration `mapstructure:"control_rate_interval"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("store", "memory")
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("room_ttl", "24h")
	v.SetDefault("autojoin_create", false)
	v.SetDefault("max_frame_bytes", 1<<20)
	v.SetDefault("stun_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("control_rate_limit", 20)
	v.SetDefault("control_rate_interval", "10s")

	v.BindEnv("port", "PORT")
	v.BindEnv("redis_url", "REDIS_URL")
	v.BindEnv("store", "STORE")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
