package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// StoreConfig names the live listing store. When every field is empty the
// service runs in demo mode against the fixed sample dataset; nothing else
// decides the mode.
type StoreConfig struct {
	DatabaseURL string
	Namespace   string
}

func (c StoreConfig) Configured() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

type Config struct {
	Port            string
	DatabaseURL     string
	Namespace       string
	JWTSecret       string
	SessionTTL      string
	AdminAccessCode string
	AllowOrigins    []string
	LogstashTCPAddr string
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOUseSSL     bool
	MinIOBucket     string
	MinIOPublicURL  string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     getenv("DATABASE_URL", ""),
		Namespace:       getenv("STORE_NAMESPACE", "default"),
		JWTSecret:       getenv("JWT_SECRET", "misrentas-dev-secret"),
		SessionTTL:      getenv("SESSION_TTL", "24h"),
		AdminAccessCode: getenv("ADMIN_ACCESS_CODE", ""),
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:   getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:  getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:  getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:     getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucket:     getenv("MINIO_BUCKET_MEDIA", "misrentas-media"),
		MinIOPublicURL:  getenv("MINIO_PUBLIC_URL", ""),
	}
}

// Store extracts the store credentials that decide demo vs. live mode.
func (c Config) Store() StoreConfig {
	return StoreConfig{DatabaseURL: c.DatabaseURL, Namespace: c.Namespace}
}

// MediaUploadsEnabled reports whether the optional object storage is wired.
func (c Config) MediaUploadsEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
