package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	HTTPAddr          string
	BotToken          string
	AchievementSecret string
	CORSOrigins       []string
	Database          DatabaseConfig
	Quiz              QuizConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// QuizConfig holds learning session settings, fixed at startup
type QuizConfig struct {
	SessionLength        int
	OptionCount          int
	AchievementThreshold float64
	SessionIdleTTL       time.Duration
	AchievementTTL       time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:          getEnv("HTTP_ADDR", ":8000"),
		BotToken:          os.Getenv("BOT_TOKEN"),
		AchievementSecret: os.Getenv("ACHIEVEMENT_SECRET"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "wordquiz"),
			User:     getEnv("DB_USER", "wordquiz"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	var err error
	if cfg.Quiz.SessionLength, err = getEnvInt("SESSION_LENGTH", 5); err != nil {
		return nil, err
	}
	if cfg.Quiz.OptionCount, err = getEnvInt("OPTION_COUNT", 4); err != nil {
		return nil, err
	}
	if cfg.Quiz.AchievementThreshold, err = getEnvFloat("ACHIEVEMENT_THRESHOLD", 80); err != nil {
		return nil, err
	}
	if cfg.Quiz.SessionIdleTTL, err = getEnvDuration("SESSION_IDLE_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Quiz.AchievementTTL, err = getEnvDuration("ACHIEVEMENT_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.AchievementSecret == "" {
		return nil, fmt.Errorf("ACHIEVEMENT_SECRET is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	if cfg.Quiz.SessionLength < 1 {
		return nil, fmt.Errorf("SESSION_LENGTH must be at least 1")
	}
	if cfg.Quiz.OptionCount < 2 {
		return nil, fmt.Errorf("OPTION_COUNT must be at least 2")
	}
	if cfg.Quiz.AchievementThreshold < 0 || cfg.Quiz.AchievementThreshold > 100 {
		return nil, fmt.Errorf("ACHIEVEMENT_THRESHOLD must be between 0 and 100")
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// BotEnabled reports whether the Telegram front end should run
func (c *Config) BotEnabled() bool {
	return c.BotToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 90m: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
