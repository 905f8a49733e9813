package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type ActivityConfig struct {
	RateLimit    int           `mapstructure:"rate_limit"`
	RateInterval time.Duration `mapstructure:"rate_interval"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	NamesKey string        `mapstructure:"names_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Mode         string         `mapstructure:"mode"`
	Port         int            `mapstructure:"port"`
	LogLevel     string         `mapstructure:"log_level"`
	ReadLimit    int64          `mapstructure:"read_limit"`
	PingPeriod   time.Duration  `mapstructure:"ping_period"`
	PongWait     time.Duration  `mapstructure:"pong_wait"`
	WriteWait    time.Duration  `mapstructure:"write_wait"`
	SendBuffer   int            `mapstructure:"send_buffer"`
	Secret       string         `mapstructure:"secret"`
	InternalKey  string         `mapstructure:"internal_key"`
	Backpressure string         `mapstructure:"backpressure"`
	Auth         AuthConfig     `mapstructure:"auth"`
	Activity     ActivityConfig `mapstructure:"activity"`
	Redis        RedisConfig    `mapstructure:"redis"`
}

var (
	ErrMissingJWTSecret = errors.New("auth.jwt_secret is required")
	ErrPingPeriod       = errors.New("ping_period must be shorter than pong_wait")
)

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.PingPeriod >= c.PongWait {
		return ErrPingPeriod
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("secret", "")
	v.SetDefault("internal_key", "")
	v.SetDefault("backpressure", "drop")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("activity.rate_limit", 0)
	v.SetDefault("activity.rate_interval", "1s")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.names_key", "presence:display_names")
	v.SetDefault("redis.timeout", "200ms")
}

// Load reads config/config.<CONFIG_ENV>.yaml, overlaid by PRESENCE_* env
// vars. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg("failed to read .env")
	}

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

// LoadFile is Load without the .env step and with an explicit file name.
// A missing file is not an error: defaults and env vars still apply.
func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("PRESENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("backpressure", cfg.Backpressure).Msg("config ready")
	return &cfg, nil
}
