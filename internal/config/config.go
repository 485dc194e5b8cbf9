package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	Addr              string
	LogLevel          string
	DbDriver          string
	DbDsn             string
	RedisAddr         string
	RedisPassword     string
	JwtSecret         string
	SmtpHost          string
	SmtpPort          int
	SmtpUser          string
	SmtpPass          string
	SmtpFrom          string
	Timezone          string
	DirectoryCacheTTL time.Duration
	LockTimeout       time.Duration
	LockLease         time.Duration
	StoreTimeout      time.Duration
	GeocoderAPIKey    string
	GeocoderURL       string
	GeocoderLanguage  string
	GeocoderRegion    string
	GeocoderTimeout   time.Duration
	AllowedOriginsRaw string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:            getEnv("APP_ENV", "local"),
		Addr:              getEnv("APP_ADDR", ":8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DbDriver:          strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DbDsn:             os.Getenv("DB_DSN"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JwtSecret:         os.Getenv("JWT_SECRET"),
		SmtpHost:          os.Getenv("SMTP_HOST"),
		SmtpPort:          getEnvInt("SMTP_PORT", 587),
		SmtpUser:          os.Getenv("SMTP_USER"),
		SmtpPass:          os.Getenv("SMTP_PASS"),
		SmtpFrom:          os.Getenv("SMTP_FROM"),
		Timezone:          getEnv("TIMEZONE", "Local"),
		DirectoryCacheTTL: getEnvDuration("DIRECTORY_CACHE_TTL", 5*time.Minute),
		LockTimeout:       getEnvDuration("LOCK_TIMEOUT", 10*time.Second),
		LockLease:         getEnvDuration("LOCK_LEASE", 30*time.Second),
		StoreTimeout:      getEnvDuration("STORE_TIMEOUT", 5*time.Second),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		GeocoderURL:       os.Getenv("GEOCODER_URL"),
		GeocoderLanguage:  getEnv("GEOCODER_LANGUAGE", "en-PH"),
		GeocoderRegion:    getEnv("GEOCODER_REGION", "ph"),
		GeocoderTimeout:   getEnvDuration("GEOCODER_TIMEOUT", 3*time.Second),
		AllowedOriginsRaw: getEnv("ALLOWED_ORIGINS", ""),
	}

	problems := []string{}
	switch cfg.DbDriver {
	case "mysql", "postgres":
		if cfg.DbDsn == "" {
			problems = append(problems, "missing env: DB_DSN")
		}
	case "memory":
	default:
		problems = append(problems, "unsupported DB_DRIVER: "+cfg.DbDriver)
	}
	if _, err := cfg.Location(); err != nil {
		problems = append(problems, "invalid TIMEZONE: "+cfg.Timezone)
	}
	if cfg.LockTimeout <= 0 {
		problems = append(problems, "LOCK_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return cfg, errors.New(strings.Join(problems, "; "))
	}

	return cfg, nil
}

// Location resolves Timezone. Calendar days, weeks and months are all
// evaluated in this zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvDuration accepts Go durations ("90s", "5m") or a bare number of
// seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
