package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Metrics   MetricsConfig
	Dashboard DashboardConfig
	Import    ImportConfig
	Exports   ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// DashboardConfig governs snapshot caching.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ImportConfig controls bulk mark uploads.
type ImportConfig struct {
	AllowedExtensions []string
	MaxFileSizeBytes  int64
	Atomic            bool
	StorageDir        string
}

// ExportsConfig tunes roster and mark sheet rendering.
type ExportsConfig struct {
	PDFTitle string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("DASHBOARD_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	maxImportSize := v.GetInt64("IMPORT_MAX_FILE_SIZE")
	if maxImportSize <= 0 {
		maxImportSize = 5 * 1024 * 1024
	}
	cfg.Import = ImportConfig{
		AllowedExtensions: normalizeExtensions(splitAndTrim(v.GetString("IMPORT_ALLOWED_EXTENSIONS"))),
		MaxFileSizeBytes:  maxImportSize,
		Atomic:            v.GetBool("IMPORT_ATOMIC"),
		StorageDir:        v.GetString("IMPORT_STORAGE_DIR"),
	}

	cfg.Exports = ExportsConfig{PDFTitle: v.GetString("EXPORTS_PDF_TITLE")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "student_records")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("DASHBOARD_CACHE_ENABLED", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("IMPORT_ALLOWED_EXTENSIONS", ".csv")
	v.SetDefault("IMPORT_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("IMPORT_ATOMIC", false)
	v.SetDefault("IMPORT_STORAGE_DIR", "./media")

	v.SetDefault("EXPORTS_PDF_TITLE", "Student Records")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func normalizeExtensions(exts []string) []string {
	result := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		result = append(result, ext)
	}
	return result
}
