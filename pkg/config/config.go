package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string
	Host        string
	Port        string
	JwtSecret   string

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey string
	ImageBackend string // "openai" or "pollinations"

	// Pacing policy for per-scene image calls. ImageWorkers=1 runs scenes
	// sequentially with ImageDelay between calls; >1 runs a bounded parallel
	// fan-out with no delay.
	ImageDelay   time.Duration
	ImageWorkers int

	GenerateTimeout time.Duration

	StaticDir         string
	TrialCookieMaxAge time.Duration
	SignupCredits     int

	AdminUsername string
	AdminPassword string

	AllowedOrigins []string
	LogLevel       string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Host:              os.Getenv("HOST"),
		Port:              os.Getenv("PORT"),
		JwtSecret:         os.Getenv("JWT_SECRET"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       os.Getenv("GEMINI_MODEL"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		ImageBackend:      os.Getenv("IMAGE_BACKEND"),
		ImageDelay:        time.Duration(envInt("IMAGE_DELAY_SECONDS", 3)) * time.Second,
		ImageWorkers:      envInt("IMAGE_WORKERS", 1),
		GenerateTimeout:   time.Duration(envInt("GENERATE_TIMEOUT_SECONDS", 180)) * time.Second,
		StaticDir:         os.Getenv("STATIC_DIR"),
		TrialCookieMaxAge: time.Duration(envInt("TRIAL_COOKIE_DAYS", 365)) * 24 * time.Hour,
		SignupCredits:     envInt("SIGNUP_CREDITS", 3),
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
	}

	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-1.5-flash"
	}
	if cfg.ImageBackend == "" {
		cfg.ImageBackend = "pollinations"
	}
	if cfg.ImageWorkers < 1 {
		cfg.ImageWorkers = 1
	}
	if cfg.StaticDir == "" {
		cfg.StaticDir = "static/generated"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	if cfg.JwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set. This is critical for authentication.")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is not set")
	}
	if cfg.ImageBackend == "openai" && cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set but IMAGE_BACKEND is openai")
	}

	return cfg
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warnf("Invalid value for %s: %q, using default %d", key, raw, fallback)
		return fallback
	}
	return n
}
