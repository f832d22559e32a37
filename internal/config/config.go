package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort       string
	PostgresDSN    string
	JWTSecret      string
	RedisURL       string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxIdle  time.Duration
	DBConnMaxLife  time.Duration
	RequestTimeout time.Duration

	// Committee quorum policy. The rejection threshold is configurable on
	// purpose: product has not confirmed whether it mirrors the approval
	// quorum, so nothing hard-codes it.
	CommitteeRequiredApprovals  int
	CommitteeRequiredRejections int

	DocumentNumberDigits int
	DocumentNumberPrefix string
	DocumentNumberSuffix string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		PostgresDSN:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:  getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:  getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),

		CommitteeRequiredApprovals:  getInt("COMMITTEE_REQUIRED_APPROVALS", 3),
		CommitteeRequiredRejections: getInt("COMMITTEE_REQUIRED_REJECTIONS", 3),

		DocumentNumberDigits: getInt("DOCUMENT_NUMBER_DIGITS", 5),
		DocumentNumberPrefix: getEnv("DOCUMENT_NUMBER_PREFIX", ""),
		DocumentNumberSuffix: getEnv("DOCUMENT_NUMBER_SUFFIX", ""),
	}

	if cfg.PostgresDSN == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.CommitteeRequiredApprovals < 1 {
		log.Fatal("COMMITTEE_REQUIRED_APPROVALS must be at least 1")
	}
	if cfg.CommitteeRequiredRejections < 1 {
		log.Fatal("COMMITTEE_REQUIRED_REJECTIONS must be at least 1")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
