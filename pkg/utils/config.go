package utils

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	GRPC    GrpcConfig    `mapstructure:"grpc"`
	Data    DataConfig    `mapstructure:"data"`
	Store   StoreConfig   `mapstructure:"store"`
	Auth    AuthConfig    `mapstructure:"auth"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Booking BookingConfig `mapstructure:"booking"`
	Site    SiteConfig    `mapstructure:"site"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type GrpcConfig struct {
	Addr string `mapstructure:"addr"`
}

// DataConfig points at the static JSON content.
type DataConfig struct {
	Dir            string `mapstructure:"dir"`
	Watch          bool   `mapstructure:"watch"`
	DebounceMillis int    `mapstructure:"debounce_ms"`
}

func (d DataConfig) Debounce() time.Duration {
	return time.Duration(d.DebounceMillis) * time.Millisecond
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	JWTIssuer   string `mapstructure:"jwt_issuer"`
	JWTTTLHours int    `mapstructure:"jwt_ttl_hours"`
}

func (a AuthConfig) JWTDuration() time.Duration {
	if a.JWTTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.JWTTTLHours) * time.Hour
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BookingConfig throttles the public booking endpoint per client IP.
type BookingConfig struct {
	RatePerMinute float64 `mapstructure:"rate_per_minute"`
	Burst         int     `mapstructure:"burst"`
}

type SiteConfig struct {
	DefaultLocale string `mapstructure:"default_locale"`
	Currency      string `mapstructure:"currency"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".consulthub", "data.db")
}

// LoadConfig reads config.yaml from the working directory (optional) and
// CONSULTHUB_* environment variables on top of the defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CONSULTHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.trusted_proxies", []string{"127.0.0.1"})
	v.SetDefault("grpc.addr", ":9090")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.watch", true)
	v.SetDefault("data.debounce_ms", 500)
	v.SetDefault("store.path", defaultDBPath())
	v.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	v.SetDefault("auth.jwt_issuer", "consulthub")
	v.SetDefault("auth.jwt_ttl_hours", 24)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("booking.rate_per_minute", 5)
	v.SetDefault("booking.burst", 3)
	v.SetDefault("site.default_locale", "ar")
	v.SetDefault("site.currency", "USD")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}
