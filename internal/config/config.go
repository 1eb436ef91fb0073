package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          int      `yaml:"port"`
	DataPath      string   `yaml:"data_path"`
	DBPath        string   `yaml:"db_path"`
	JWTSecret     string   `yaml:"jwt_secret"`
	AdminUsername string   `yaml:"admin_username"`
	AdminPassword string   `yaml:"admin_password"`
	CORSOrigins   []string `yaml:"cors_origins"`
	LogLevel      string   `yaml:"log_level"`

	SupadataAPIKey  string `yaml:"supadata_api_key"`
	SupadataBaseURL string `yaml:"supadata_base_url"`

	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`

	SummaryEngine   string `yaml:"summary_engine"`
	SummaryLanguage string `yaml:"summary_language"`
	SummaryMaxChars int    `yaml:"summary_max_chars"`
	TimestampStrict bool   `yaml:"timestamp_strict"`

	RateLimitPerMinute    int           `yaml:"rate_limit_per_minute"`
	UpstreamRatePerSecond float64       `yaml:"upstream_rate_per_second"`
	TranscriptCacheTTL    time.Duration `yaml:"transcript_cache_ttl"`
	JobWorkers            int           `yaml:"job_workers"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:                  8080,
		DataPath:              "/data",
		AdminUsername:         "admin",
		AdminPassword:         "admin",
		CORSOrigins:           []string{"*"},
		LogLevel:              "info",
		SupadataBaseURL:       "https://api.supadata.ai",
		OpenAIModel:           "gpt-4o",
		GeminiModel:           "gemini-2.0-flash",
		SummaryEngine:         "openai",
		SummaryLanguage:       "Chinese",
		SummaryMaxChars:       100000,
		RateLimitPerMinute:    30,
		UpstreamRatePerSecond: 2,
		TranscriptCacheTTL:    24 * time.Hour,
		JobWorkers:            1,
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables. A .env file in the
// working directory is loaded first without overriding the real
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		cfg.DBPath = cfg.DataPath + "/captions.db"
	}

	// JWT secret: require explicit setting or generate random
	if cfg.JWTSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate JWT secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(b)
		slog.Warn("JWT_SECRET not set, using random secret; admin sessions will not survive restarts")
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error

	if c.Port, err = envInt("PORT", c.Port); err != nil {
		return err
	}
	c.DataPath = getEnv("DATA_PATH", c.DataPath)
	c.DBPath = getEnv("DB_PATH", c.DBPath)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.AdminUsername = getEnv("ADMIN_USERNAME", c.AdminUsername)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	// CORS origins: comma-separated list or "*"
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		c.CORSOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}

	c.SupadataAPIKey = getEnv("SUPADATA_API_KEY", c.SupadataAPIKey)
	c.SupadataBaseURL = getEnv("SUPADATA_BASE_URL", c.SupadataBaseURL)
	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.OpenAIModel = getEnv("OPENAI_MODEL", c.OpenAIModel)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.SummaryEngine = getEnv("SUMMARY_ENGINE", c.SummaryEngine)
	c.SummaryLanguage = getEnv("SUMMARY_LANGUAGE", c.SummaryLanguage)

	if c.SummaryMaxChars, err = envInt("SUMMARY_MAX_CHARS", c.SummaryMaxChars); err != nil {
		return err
	}
	if v := os.Getenv("TIMESTAMP_STRICT"); v != "" {
		if c.TimestampStrict, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("bad TIMESTAMP_STRICT: %w", err)
		}
	}
	if c.RateLimitPerMinute, err = envInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute); err != nil {
		return err
	}
	if v := os.Getenv("UPSTREAM_RATE_PER_SECOND"); v != "" {
		if c.UpstreamRatePerSecond, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("bad UPSTREAM_RATE_PER_SECOND: %w", err)
		}
	}
	if c.JobWorkers, err = envInt("JOB_WORKERS", c.JobWorkers); err != nil {
		return err
	}
	if v := os.Getenv("TRANSCRIPT_CACHE_TTL"); v != "" {
		if c.TranscriptCacheTTL, err = time.ParseDuration(v); err != nil {
			return fmt.Errorf("bad TRANSCRIPT_CACHE_TTL: %w", err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("bad %s: %w", key, err)
	}
	return n, nil
}
