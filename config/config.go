package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	Port       string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	JWTSecret  string

	// OPD queueing parameters.
	ServiceTimeMinutes float64 // assumed mean consultation duration
	ETASlotMinutes     float64 // minutes added per queue position when estimating service time
	IngestWorkers      int     // size of the event worker pool
	IngestBuffer       int     // capacity of the event submission buffer
}

var (
	cfg  *Config
	once sync.Once
)

func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		cfg = &Config{
			AppEnv:     os.Getenv("APP_ENV"),
			Port:       getEnv("PORT", "8080"),
			DBUser:     os.Getenv("DB_USER"),
			DBPassword: os.Getenv("DB_PASSWORD"),
			DBHost:     os.Getenv("DB_HOST"),
			DBPort:     os.Getenv("DB_PORT"),
			DBName:     os.Getenv("DB_NAME"),
			JWTSecret:  os.Getenv("JWT_SECRET"),

			ServiceTimeMinutes: getEnvFloat("OPD_SERVICE_TIME_MIN", 15),
			ETASlotMinutes:     getEnvFloat("OPD_ETA_SLOT_MIN", 15),
			IngestWorkers:      getEnvInt("OPD_INGEST_WORKERS", 4),
			IngestBuffer:       getEnvInt("OPD_INGEST_BUFFER", 64),
		}
	})
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Warning: invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Warning: invalid value for %s, using default %g", key, fallback)
	}
	return fallback
}
