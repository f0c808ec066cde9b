package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries everything the server reads from the environment,
// including the business ceilings so tests can shrink them.
type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	SMTPHost string
	SMTPPort string
	MailFrom string

	MaxTotalCopies int64
	MaxUsers       int64
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "postgres"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "program"),
		DBPassword: getEnv("DB_PASSWORD", "test"),
		DBName:     getEnv("DB_NAME", "libmanager"),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		SMTPHost:   getEnv("SMTP_HOST", "localhost"),
		SMTPPort:   getEnv("SMTP_PORT", "25"),
		MailFrom:   getEnv("MAIL_FROM", "no-reply@libmanager.org"),

		MaxTotalCopies: getEnvInt64("MAX_TOTAL_COPIES", 100_000),
		MaxUsers:       getEnvInt64("MAX_USERS", 2_000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MaxTotalCopies <= 0 {
		return fmt.Errorf("MAX_TOTAL_COPIES must be positive")
	}
	if c.MaxUsers <= 0 {
		return fmt.Errorf("MAX_USERS must be positive")
	}
	return nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
