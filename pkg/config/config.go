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

// Storage drivers understood by the entity store factory.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Metrics  MetricsConfig
	Company  CompanyConfig
	Jobs     JobsConfig
	Export   ExportConfig
}

// StorageConfig selects the entity store backend.
type StorageConfig struct {
	Driver string
	Seed   bool
	// SeedAdminPassword is the password of the seeded admin account.
	SeedAdminPassword string
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
}

type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

// CacheConfig governs caching of the coach and lesson listings.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
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

// CompanyConfig seeds defaults for the company info console.
type CompanyConfig struct {
	Name  string
	Email string
	Phone string
}

// ExportConfig configures admin exports. PDFFontPath points at a UTF-8 TrueType
// font able to render Hangul.
type ExportConfig struct {
	PDFFontPath string
}

// JobsConfig tunes the in-memory notification queue.
type JobsConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
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

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Storage = StorageConfig{
		Driver:            strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		Seed:              v.GetBool("SEED_DATA"),
		SeedAdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
	}
	if cfg.Storage.Driver != StoragePostgres {
		cfg.Storage.Driver = StorageMemory
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:        v.GetString("REDIS_HOST"),
		Port:        v.GetInt("REDIS_PORT"),
		Password:    v.GetString("REDIS_PASSWORD"),
		DB:          v.GetInt("REDIS_DB"),
		PoolSize:    v.GetInt("REDIS_POOL_SIZE"),
		DialTimeout: parseDuration(v.GetString("REDIS_DIAL_TIMEOUT"), 5*time.Second),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	cfg.Company = CompanyConfig{
		Name:  v.GetString("COMPANY_NAME"),
		Email: v.GetString("COMPANY_EMAIL"),
		Phone: v.GetString("COMPANY_PHONE"),
	}

	cfg.Jobs = JobsConfig{
		Workers:    v.GetInt("JOBS_WORKERS"),
		MaxRetries: v.GetInt("JOBS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("JOBS_RETRY_DELAY"), time.Second),
	}

	cfg.Export = ExportConfig{PDFFontPath: v.GetString("PDF_FONT_PATH")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("SEED_DATA", true)
	v.SetDefault("SEED_ADMIN_PASSWORD", "kickoff-admin")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "kickoff")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "kickoff-coach-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)

	v.SetDefault("COMPANY_NAME", "킥오프 코칭")
	v.SetDefault("COMPANY_EMAIL", "help@kickoff.example")
	v.SetDefault("COMPANY_PHONE", "02-000-0000")

	v.SetDefault("JOBS_WORKERS", 1)
	v.SetDefault("JOBS_MAX_RETRIES", 3)
	v.SetDefault("JOBS_RETRY_DELAY", "1s")

	v.SetDefault("PDF_FONT_PATH", "")
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
