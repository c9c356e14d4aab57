package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers for the idea table.
const (
	StorageCSV      = "csv"
	StoragePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	JWT       JWTConfig
	Login     LoginConfig
	Ideas     IdeasConfig
	Bootstrap BootstrapConfig
	CORS      CORSConfig
	Log       LogConfig
}

// StorageConfig locates the flat files acting as system-of-record.
type StorageConfig struct {
	Driver            string
	DataDir           string
	IdeasFile         string
	UsersFile         string
	LoginAttemptsFile string
	SavedIdeasFile    string
	MessagesFile      string
}

// Path resolves a table file name against the data directory.
func (s StorageConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.DataDir, name)
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
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig toggles the Redis-backed dashboard cache.
type CacheConfig struct {
	Enabled      bool
	DashboardTTL time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// LoginConfig tunes the failed-login rate limit.
type LoginConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// IdeasConfig carries the idea workflow switches.
type IdeasConfig struct {
	AutoAccept                 bool
	ShowPrivateToAuthenticated bool
	WindowMinDays              int
	WindowMaxDays              int
	DefaultPageSize            int
}

// BootstrapConfig seeds the first account when the user table is empty.
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
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

	driver := strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER")))
	if driver != StoragePostgres {
		driver = StorageCSV
	}
	cfg.Storage = StorageConfig{
		Driver:            driver,
		DataDir:           v.GetString("DATA_DIR"),
		IdeasFile:         v.GetString("IDEAS_FILE"),
		UsersFile:         v.GetString("USERS_FILE"),
		LoginAttemptsFile: v.GetString("LOGIN_ATTEMPTS_FILE"),
		SavedIdeasFile:    v.GetString("SAVED_IDEAS_FILE"),
		MessagesFile:      v.GetString("MESSAGES_FILE"),
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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:      v.GetBool("ENABLE_CACHE"),
		DashboardTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	maxAttempts := v.GetInt("LOGIN_MAX_ATTEMPTS")
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	cfg.Login = LoginConfig{
		MaxAttempts: maxAttempts,
		Window:      parseDuration(v.GetString("LOGIN_WINDOW"), 15*time.Minute),
	}

	minDays := v.GetInt("IDEAS_WINDOW_MIN_DAYS")
	maxDays := v.GetInt("IDEAS_WINDOW_MAX_DAYS")
	if minDays <= 0 {
		minDays = 30
	}
	if maxDays < minDays {
		maxDays = minDays
	}
	pageSize := v.GetInt("IDEAS_DEFAULT_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 10
	}
	cfg.Ideas = IdeasConfig{
		AutoAccept:                 v.GetBool("IDEAS_AUTO_ACCEPT"),
		ShowPrivateToAuthenticated: v.GetBool("IDEAS_SHOW_PRIVATE_TO_AUTHENTICATED"),
		WindowMinDays:              minDays,
		WindowMaxDays:              maxDays,
		DefaultPageSize:            pageSize,
	}

	cfg.Bootstrap = BootstrapConfig{
		AdminUsername: v.GetString("BOOTSTRAP_ADMIN_USERNAME"),
		AdminPassword: v.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORAGE_DRIVER", StorageCSV)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("IDEAS_FILE", "ideas.csv")
	v.SetDefault("USERS_FILE", "users.csv")
	v.SetDefault("LOGIN_ATTEMPTS_FILE", "login_attempts.csv")
	v.SetDefault("SAVED_IDEAS_FILE", "saved_ideas.csv")
	v.SetDefault("MESSAGES_FILE", "messages.csv")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ideaboard")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "ideaboard-api")

	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_WINDOW", "15m")

	v.SetDefault("IDEAS_AUTO_ACCEPT", false)
	v.SetDefault("IDEAS_SHOW_PRIVATE_TO_AUTHENTICATED", true)
	v.SetDefault("IDEAS_WINDOW_MIN_DAYS", 30)
	v.SetDefault("IDEAS_WINDOW_MAX_DAYS", 180)
	v.SetDefault("IDEAS_DEFAULT_PAGE_SIZE", 10)

	v.SetDefault("BOOTSTRAP_ADMIN_USERNAME", "admin")
	v.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "aA1234")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// isMissingFile reports whether viper failed only because .env does not exist.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
