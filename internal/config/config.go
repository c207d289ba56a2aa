// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Ebay      EbayConfig      `yaml:"ebay" mapstructure:"ebay"`
	Vinted    VintedConfig    `yaml:"vinted" mapstructure:"vinted"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Valuation ValuationConfig `yaml:"valuation" mapstructure:"valuation"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SearchConfig bounds one search run.
type SearchConfig struct {
	TopK              int `yaml:"top_k" mapstructure:"top_k"`
	Limit             int `yaml:"limit" mapstructure:"limit"`
	SourceTimeoutSecs int `yaml:"source_timeout_secs" mapstructure:"source_timeout_secs"`
	CacheTTLHours     int `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// CacheConfig configures the search result cache backend.
type CacheConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // sqlite or upstash
	Path   string `yaml:"path" mapstructure:"path"`
	URL    string `yaml:"url" mapstructure:"url"`
	Token  string `yaml:"token" mapstructure:"token"`
}

// StoreConfig configures the saved-items backend.
type StoreConfig struct {
	Driver      string      `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	Path        string      `yaml:"path" mapstructure:"path"`
	DatabaseURL string      `yaml:"database_url" mapstructure:"database_url"`
	Pool        *PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PoolConfig tunes the Postgres connection pool.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// EbayConfig holds eBay Browse API credentials.
type EbayConfig struct {
	ClientID     string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret string `yaml:"client_secret" mapstructure:"client_secret"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
}

// VintedConfig holds Vinted catalog settings.
type VintedConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Domain  string `yaml:"domain" mapstructure:"domain"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ValuationConfig configures the appraisal pipeline.
type ValuationConfig struct {
	HeuristicsFile   string `yaml:"heuristics_file" mapstructure:"heuristics_file"`
	ImageTimeoutSecs int    `yaml:"image_timeout_secs" mapstructure:"image_timeout_secs"`
	BreakerThreshold int    `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerResetSecs int    `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	APIKeys        []string `yaml:"api_keys" mapstructure:"api_keys"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TREASUREHUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("search.top_k", 5)
	v.SetDefault("search.limit", 10)
	v.SetDefault("search.source_timeout_secs", 10)
	v.SetDefault("search.cache_ttl_hours", 24)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.path", "treasurehunt-cache.db")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "treasurehunt.db")
	v.SetDefault("ebay.base_url", "https://api.ebay.com")
	v.SetDefault("vinted.base_url", "https://www.vinted.com")
	v.SetDefault("vinted.domain", "com")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("valuation.image_timeout_secs", 5)
	v.SetDefault("valuation.breaker_threshold", 5)
	v.SetDefault("valuation.breaker_reset_secs", 30)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
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

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
