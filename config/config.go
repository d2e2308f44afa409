package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataPath     string
	HTTPAddr     string
	DefaultBins  int
	MaxTableRows int
	ChartWidth   int
	ChartHeight  int
	Debug        bool

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file (if any) and returns a populated Config.
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataPath:     getEnv("DATA_PATH", "datasets/vehicles_us.csv"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		DefaultBins:  getEnvInt("DEFAULT_BINS", 30),
		MaxTableRows: getEnvInt("MAX_TABLE_ROWS", 500),
		ChartWidth:   getEnvInt("CHART_WIDTH", 1024),
		ChartHeight:  getEnvInt("CHART_HEIGHT", 576),
		Debug:        getEnvBool("DEBUG", false),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "vehicles"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "vehicles"),
		PostgresDB:       getEnv("POSTGRES_DB", "vehicles_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
