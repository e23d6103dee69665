package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	ServiceName   string
	ServerPort    string
	DatabaseURL   string
	JWTSecret     []byte
	RefreshSecret []byte
	KafkaBrokers  []string
	ESURL         string
	ESUser        string
	ESPassword    string
	ESIndex       string
	LogLevel      string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment variables", err)
	}

	cfg := &Config{
		ServiceName:   getDefault("SERVICE_NAME", "stockroom"),
		ServerPort:    getDefault("SERVER_PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		RefreshSecret: []byte(os.Getenv("REFRESH_SECRET")),
		ESURL:         os.Getenv("ES_URL"),
		ESUser:        os.Getenv("ES_USER"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		ESIndex:       os.Getenv("ES_INDEX"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}

	if addr := os.Getenv("KAFKA_ADDRESS"); addr != "" {
		cfg.KafkaBrokers = strings.Split(addr, ",")
	}

	return cfg
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
