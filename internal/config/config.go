package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	AccessTokenMinutes int

	CORSOrigins []string

	// Optional bootstrap admin, created on startup when no admin exists.
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	loadDotenv()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "petcare"),
		DBPassword: getEnv("DB_PASSWORD", "petcare_dev_password"),
		DBName:     getEnv("DB_NAME", "petcare"),

		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          getEnv("JWT_ISSUER", "petcare-api"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "petcare-clients"),
		AccessTokenMinutes: getEnvInt("ACCESS_TOKEN_MINUTES", 30),

		CORSOrigins: splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		AdminEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if o := strings.TrimRight(strings.TrimSpace(part), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
