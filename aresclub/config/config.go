package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	JWTSecret          string
	AccessTokenMinutes int

	AdminUsername string
	AdminEmail    string
	AdminPassword string

	WhatsAppURL     string
	AllowedOrigins  []string
	PersistTimeout  time.Duration
	DeliveryTimeout time.Duration
	ClientBuffer    int
	LogDir          string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOSecure    bool
}

const defaultWhatsAppURL = "https://wa.me/5491178419956?text=Hola!%20Buenas!!%20vengo%20por%20mi%20usuario%20de%20la%20suerte%20%F0%9F%8D%80"

func LoadConfig() Config {
	// A missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	return Config{
		Port:        getEnv("PORT", "8001"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "aresclub"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:          getEnv("JWT_SECRET", "ares-club-secret-key-2024"),
		AccessTokenMinutes: getEnvInt("ACCESS_TOKEN_MINUTES", 30),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@aresclub.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		WhatsAppURL:     getEnv("WHATSAPP_URL", defaultWhatsAppURL),
		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		PersistTimeout:  getEnvDuration("PERSIST_TIMEOUT", 5*time.Second),
		DeliveryTimeout: getEnvDuration("DELIVERY_TIMEOUT", 5*time.Second),
		ClientBuffer:    getEnvInt("CLIENT_BUFFER", 32),
		LogDir:          getEnv("LOG_DIR", "./logs"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "chat-transcripts"),
		MinIOSecure:    getEnvBool("MINIO_SECURE", false),
	}
}

// DSN returns DATABASE_URL when set, otherwise a key/value postgres DSN built from the parts.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenMinutes) * time.Minute
}

func (c Config) ArchiveEnabled() bool {
	return c.MinIOEndpoint != ""
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
