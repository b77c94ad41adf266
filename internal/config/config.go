package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Session SessionConfig `mapstructure:"session"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Summary SummaryConfig `mapstructure:"summary"`
	Views   ViewsConfig   `mapstructure:"views"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	BaseURL      string        `mapstructure:"base_url"` // public origin used in the sitemap
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// StoreConfig controls the in-memory forum store.
type StoreConfig struct {
	// Latency is slept before every data service call to mimic a network hop.
	Latency time.Duration `mapstructure:"latency"`
	// Seed loads the demo users, categories, topics and posts on start-up.
	Seed bool `mapstructure:"seed"`
	// RootAdmin is the username whose admin flag can never be toggled.
	RootAdmin string `mapstructure:"root_admin"`
}

// SessionConfig holds cookie session settings.
type SessionConfig struct {
	Lifetime   int    `mapstructure:"lifetime"` // hours
	CookieName string `mapstructure:"cookie_name"`
}

// CacheConfig holds the SQLite cache settings.
type CacheConfig struct {
	FilePath   string        `mapstructure:"file_path"`
	SummaryTTL time.Duration `mapstructure:"summary_ttl"`
}

// SummaryConfig configures the OpenAI-compatible activity summarizer.
type SummaryConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ViewsConfig selects the topic view counter backend.
type ViewsConfig struct {
	Backend  string        `mapstructure:"backend"` // "store" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; real deployments use the environment.
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("store.latency", "500ms")
	v.SetDefault("store.seed", true)
	v.SetDefault("store.root_admin", "react_guru")
	v.SetDefault("session.lifetime", 12)
	v.SetDefault("session.cookie_name", "forum_session")
	v.SetDefault("cache.file_path", "file::memory:")
	v.SetDefault("cache.summary_ttl", "10m")
	v.SetDefault("summary.api_key", "")
	v.SetDefault("summary.base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("summary.model", "gemini-2.5-flash")
	v.SetDefault("summary.timeout", "30s")
	v.SetDefault("views.backend", "store")
	v.SetDefault("views.redis_url", "redis://localhost:6379/0")
	v.SetDefault("views.window", "1h")

	// Set up viper to read from config file
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/go-forum-app/")
	v.AddConfigPath("$HOME/.go-forum-app")

	// Attempt to read the config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	// Set up viper to read from environment variables
	v.SetEnvPrefix("FORUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
