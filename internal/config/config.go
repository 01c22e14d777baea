package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

const (
	// DefaultOverallSatisfaction is the baseline used when a payload carries
	// no numeric overall_satisfaction.
	DefaultOverallSatisfaction = 4.0

	DefaultUploadMaxBytes = 10 << 20
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string        `toml:"app_env"`
	DBPath                string        `toml:"db_path"`
	DBDriver              string        `toml:"db_driver"`
	RedisAddr             string        `toml:"redis_addr"`
	GRPCPort              int           `toml:"grpc_port"`
	GRPCReflectionEnabled bool          `toml:"grpc_reflection_enabled"`
	AnalyzerURL           string        `toml:"analyzer_url"`
	AnalyzerTimeout       time.Duration `toml:"-"`
	UploadMaxBytes        int64         `toml:"upload_max_bytes"`
	InsightProvider       string        `toml:"insight_provider"`
	InsightModel          string        `toml:"insight_model"`
	CacheTTL              time.Duration `toml:"-"`
	JitterSeed            uint64        `toml:"jitter_seed"`

	// Durations are strings in TOML.
	AnalyzerTimeoutRaw string `toml:"analyzer_timeout"`
	CacheTTLRaw        string `toml:"cache_ttl"`
}

func defaults() *Config {
	return &Config{
		AppEnv:             "development",
		DBPath:             "./data/database.db",
		DBDriver:           "sqlite3",
		RedisAddr:          "localhost:6379",
		GRPCPort:           50051,
		AnalyzerURL:        "http://localhost:5000/api/upload",
		AnalyzerTimeoutRaw: "60s",
		UploadMaxBytes:     DefaultUploadMaxBytes,
		InsightProvider:    "gemini",
		InsightModel:       "gemini-2.5-flash",
		CacheTTLRaw:        "10m",
	}
}

// Load reads the optional TOML file at path, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	cfg.AnalyzerTimeout = parseDuration(cfg.AnalyzerTimeoutRaw, 60*time.Second)
	cfg.CacheTTL = parseDuration(cfg.CacheTTLRaw, 10*time.Minute)

	if cfg.UploadMaxBytes <= 0 {
		cfg.UploadMaxBytes = DefaultUploadMaxBytes
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg, _ := Load("")
	return cfg
}

func applyEnv(cfg *Config) {
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.AnalyzerURL = getEnv("ANALYZER_URL", cfg.AnalyzerURL)
	cfg.AnalyzerTimeoutRaw = getEnv("ANALYZER_TIMEOUT", cfg.AnalyzerTimeoutRaw)
	cfg.InsightProvider = getEnv("INSIGHT_PROVIDER", cfg.InsightProvider)
	cfg.InsightModel = getEnv("INSIGHT_MODEL", cfg.InsightModel)
	cfg.CacheTTLRaw = getEnv("CACHE_TTL", cfg.CacheTTLRaw)

	if port, err := strconv.Atoi(getEnv("GRPC_PORT", "")); err == nil {
		cfg.GRPCPort = port
	}
	if reflection, err := strconv.ParseBool(getEnv("GRPC_REFLECTION_ENABLED", "")); err == nil {
		cfg.GRPCReflectionEnabled = reflection
	}
	if size, err := strconv.ParseInt(getEnv("UPLOAD_MAX_BYTES", ""), 10, 64); err == nil {
		cfg.UploadMaxBytes = size
	}
	if seed, err := strconv.ParseUint(getEnv("JITTER_SEED", ""), 10, 64); err == nil {
		cfg.JitterSeed = seed
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
