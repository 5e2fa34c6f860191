package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	CORS_ORIGIN     string
	PUBLIC_BASE_URL string
	LOG_LEVEL       string

	PAGE_SIZE     int
	MEDIA_DIR     string
	MAX_UPLOAD_MB int

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")
	PUBLIC_BASE_URL = strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+PORT), "/")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")

	PAGE_SIZE = getInt("PAGE_SIZE", 12)
	MEDIA_DIR = getEnv("MEDIA_DIR", "./media")
	MAX_UPLOAD_MB = getInt("MAX_UPLOAD_MB", 10)

	// Google login stays off unless all three are set.
	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")
}

// GoogleEnabled reports whether the Google login routes should be mounted.
func GoogleEnabled() bool {
	return GOOGLE_CLIENT_ID != "" && GOOGLE_CLIENT_SECRET != "" && GOOGLE_REDIRECT_URL != ""
}

func MaxUploadBytes() int64 {
	return int64(MAX_UPLOAD_MB) << 20
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(raw) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		log.Printf("Invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}
