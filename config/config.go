package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV          string
	PORT            int
	ALLOWED_ORIGINS string
	// Paper discovery
	SEED_URL          string
	RENDER_PROXY_URL  string
	SITE_HOST         string
	MAX_PDF_LINKS     int
	STRICT_TERM       bool
	FETCH_TIMEOUT     time.Duration
	PAPER_CACHE_TTL   time.Duration
	// Session storage
	SESSION_BACKEND string // "memory" or "redis"
	SESSION_TTL     time.Duration
	REDIS_URL       string
	// Tutor LLM (Groq's OpenAI-compatible endpoint)
	GROQ_API_KEY  string
	GROQ_BASE_URL string
	GROQ_MODEL    string
	// Background jobs
	CRON_ENABLED     bool
	PREFETCH_TARGETS string // "subject:term" pairs, comma-separated
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	seedURL := os.Getenv("SEED_URL")
	if seedURL == "" {
		seedURL = "https://pastpapers.wiki/grade-09-term-test-papers-past-papers-short-notes-2/"
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:          os.Getenv("GO_ENV"),
		PORT:            port,
		ALLOWED_ORIGINS: getEnvDefault("ALLOWED_ORIGINS", "*"),
		// Discovery
		SEED_URL:         seedURL,
		RENDER_PROXY_URL: os.Getenv("RENDER_PROXY_URL"),
		SITE_HOST:        getEnvDefault("SITE_HOST", "pastpapers.wiki"),
		MAX_PDF_LINKS:    getEnvInt("MAX_PDF_LINKS", 6),
		STRICT_TERM:      getEnvBool("STRICT_TERM", false),
		FETCH_TIMEOUT:    getEnvDuration("FETCH_TIMEOUT_SECONDS", 60*time.Second),
		PAPER_CACHE_TTL:  getEnvDuration("PAPER_CACHE_TTL_SECONDS", 6*time.Hour),
		// Sessions
		SESSION_BACKEND: getEnvDefault("SESSION_BACKEND", "memory"),
		SESSION_TTL:     getEnvDuration("SESSION_TTL_SECONDS", 24*time.Hour),
		REDIS_URL:       os.Getenv("REDIS_URL"),
		// Tutor
		GROQ_API_KEY:  os.Getenv("GROQ_API_KEY"),
		GROQ_BASE_URL: os.Getenv("GROQ_BASE_URL"),
		GROQ_MODEL:    os.Getenv("GROQ_MODEL"),
		// Cron
		CRON_ENABLED:     getEnvBool("CRON_ENABLED", false),
		PREFETCH_TARGETS: getEnvDefault("PREFETCH_TARGETS", "Maths:first,Science:third,English:third"),
	}

	return envVariables, nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v == "1" || v == "true" || v == "yes"
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	secs, err := strconv.Atoi(os.Getenv(key))
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
