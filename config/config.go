package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	DBUser                string
	DBPass                string
	DBHost                string
	DBPort                string
	DBName                string
	EncryptionKey         string
	CronSecret            string
	LineAPIURL            string
	SubstituteTokenSecret string
	SubstituteBaseURL     string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
}

func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		DBUser:                getEnv("DB_USER", "membot"),
		DBPass:                getEnv("DB_PASS", ""),
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "3306"),
		DBName:                getEnv("DB_NAME", "membot"),
		EncryptionKey:         getEnv("ENCRYPTION_KEY", ""),
		CronSecret:            getEnv("CRON_SECRET", ""),
		LineAPIURL:            getEnv("LINE_API_URL", "https://api.line.me"),
		SubstituteTokenSecret: getEnv("SUBSTITUTE_TOKEN_SECRET", ""),
		SubstituteBaseURL:     getEnv("SUBSTITUTE_BASE_URL", "https://app.chapterhq.io/substitute"),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
	}

	if cfg.CronSecret == "" {
		log.Fatal("CRON_SECRET environment variable is required")
	}

	if cfg.SubstituteTokenSecret == "" {
		log.Fatal("SUBSTITUTE_TOKEN_SECRET environment variable is required")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
