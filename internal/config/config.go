package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	HTTPAddr string `mapstructure:"http_addr"`

	NewsAPIKey            string        `mapstructure:"news_api_key"`
	NewsAPIBaseURL        string        `mapstructure:"news_api_base_url"`
	NewsAPITimeoutSeconds int64         `mapstructure:"news_api_timeout_seconds"`
	NewsAPITimeout        time.Duration `mapstructure:"-"`

	IngestIntervalSeconds int64         `mapstructure:"ingest_interval"`
	IngestInterval        time.Duration `mapstructure:"-"`
	IngestPageSize        int           `mapstructure:"ingest_page_size"`
	EnrichArticles        bool          `mapstructure:"enrich_articles"`
	EnrichDelayMs         int           `mapstructure:"enrich_delay_ms"`

	StorageType     string `mapstructure:"storage_type"`
	BBoltPath       string `mapstructure:"bbolt_path"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`

	PublishersFile string `mapstructure:"publishers_file"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "newsai-backend")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":3000")
	v.SetDefault("news_api_key", "")
	v.SetDefault("news_api_base_url", "https://newsapi.org/v2/top-headlines")
	v.SetDefault("news_api_timeout_seconds", 15)
	v.SetDefault("ingest_interval", 900) // seconds
	v.SetDefault("ingest_page_size", 20)
	v.SetDefault("enrich_articles", false)
	v.SetDefault("enrich_delay_ms", 500)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/news.db")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_database", "newsai")
	v.SetDefault("mongo_collection", "articles")
	v.SetDefault("publishers_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.NewsAPIKey == "" {
		return nil, fmt.Errorf("news_api_key is required")
	}
	if cfg.IngestIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid ingest_interval (must be positive seconds)")
	}
	cfg.IngestInterval = time.Duration(cfg.IngestIntervalSeconds) * time.Second

	if cfg.NewsAPITimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid news_api_timeout_seconds (must be positive seconds)")
	}
	cfg.NewsAPITimeout = time.Duration(cfg.NewsAPITimeoutSeconds) * time.Second

	if cfg.IngestPageSize <= 0 {
		return nil, fmt.Errorf("invalid ingest_page_size (must be positive)")
	}

	return &cfg, nil
}
