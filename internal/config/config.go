package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort          = "8080"
	defaultDatabaseURL   = "bloodgroup.db"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "24h"
	defaultUploadDir     = "./static/uploads"
	defaultStaticURLBase = "/static/uploads"
	defaultModelPath     = "models/model_blood_group_detection_vgg16.onnx"
	defaultMetadataPath  = "models/model_metadata.json"
	defaultMaxUploadMB   = "16"
	defaultCookieSecure  = "false"
	defaultPredictLimit  = "30"
	defaultLoginLimit    = "10"
)

type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	JWTSecret          string
	JWTTTL             time.Duration
	CookieSecure       bool
	UploadDir          string
	StaticURLBase      string
	ModelPath          string
	ModelMetadataPath  string
	ONNXRuntimeLib     string
	MaxUploadBytes     int64
	CORSAllowedOrigins []string

	// RedisURL enables per-client rate limits when set.
	RedisURL         string
	PredictPerMinute int
	LoginPerMinute   int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.UploadDir = strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir))
	cfg.StaticURLBase = strings.TrimRight(strings.TrimSpace(getEnv("STATIC_URL_BASE", defaultStaticURLBase)), "/")
	cfg.ModelPath = strings.TrimSpace(getEnv("MODEL_PATH", defaultModelPath))
	cfg.ModelMetadataPath = strings.TrimSpace(getEnv("MODEL_METADATA_PATH", defaultMetadataPath))
	cfg.ONNXRuntimeLib = strings.TrimSpace(os.Getenv("ONNXRUNTIME_LIB"))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	maxMB, err := parseIntEnv("MAX_UPLOAD_MB", defaultMaxUploadMB)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	if cfg.PredictPerMinute, err = parseIntEnv("RATE_LIMIT_PREDICT", defaultPredictLimit); err != nil {
		return nil, err
	}
	if cfg.LoginPerMinute, err = parseIntEnv("RATE_LIMIT_LOGIN", defaultLoginLimit); err != nil {
		return nil, err
	}

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR must not be empty")
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be > 0")
	}
	if cfg.RedisURL != "" && (cfg.PredictPerMinute <= 0 || cfg.LoginPerMinute <= 0) {
		return fmt.Errorf("RATE_LIMIT_PREDICT and RATE_LIMIT_LOGIN must be > 0")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

// NewLogger returns the process logger: JSON in prod-like environments,
// human readable text otherwise.
func (c *Config) NewLogger() *slog.Logger {
	if c.IsProdLike() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
