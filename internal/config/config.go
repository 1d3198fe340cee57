package config

import (
	"log"
	"os"
	"strconv"
)

// Storage backends selectable with STORAGE_DRIVER.
const (
	StorageSQL    = "sql"
	StorageMemory = "memory"
)

// Summary scopes selectable with SUMMARY_SCOPE.
const (
	SummaryScopeGlobal = "global"
	SummaryScopeUser   = "user"
)

type Config struct {
	AppPort            string
	GinMode            string
	StorageDriver      string
	DBDriver           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSQLitePath       string
	DBMaxIdleConns     int
	DBMaxOpenConns     int
	JWTSecret          string
	JWTExpirationHours int
	AllowedOrigins     string
	SummaryScope       string
	OpenAIAPIKey       string
}

func Load() *Config {
	return &Config{
		AppPort:            getEnv("APP_PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		StorageDriver:      getEnv("STORAGE_DRIVER", StorageSQL),
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "3306"),
		DBUser:             getEnv("DB_USER", "taskuser"),
		DBPassword:         getEnv("DB_PASSWORD", "taskpassword"),
		DBName:             getEnv("DB_NAME", "taskassist"),
		DBSQLitePath:       getEnv("DB_SQLITE_PATH", "taskassist.db"),
		DBMaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		JWTSecret:          getEnv("JWT_SECRET", "taskassist-secret-key-change-me"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		AllowedOrigins:     getEnv("ALLOWED_ORIGINS", "*"),
		SummaryScope:       getEnv("SUMMARY_SCOPE", SummaryScopeGlobal),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
		return defaultValue
	}
	return intVal
}
