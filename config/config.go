package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the server needs, loaded once at startup and
// passed by reference into the components that use it.
type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	JWTExpiry      time.Duration
	ManagerCode    string
	AllowedOrigins []string
	UploadDir      string
	MaxBodyBytes   int64

	// Email is optional; an empty token disables order confirmations.
	PostmarkToken string
	EmailSender   string
}

// Load reads configuration from the environment (and .env for local dev).
func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		MongoURI:      os.Getenv("MONGO_URI"),
		DBName:        getEnv("DB_NAME", "candyshop"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ManagerCode:   os.Getenv("MANAGER_CODE"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PostmarkToken: os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.ManagerCode == "" {
		return nil, fmt.Errorf("MANAGER_CODE must be set")
	}

	expiry := getEnv("JWT_EXPIRES_IN", "168h")
	d, err := time.ParseDuration(expiry)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", expiry, err)
	}
	cfg.JWTExpiry = d

	maxBody := getEnv("MAX_BODY_BYTES", strconv.Itoa(10<<20))
	n, err := strconv.ParseInt(maxBody, 10, 64)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid MAX_BODY_BYTES %q", maxBody)
	}
	cfg.MaxBodyBytes = n

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3003,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

// LoadDB reads only the database settings. Maintenance commands that never
// touch auth (the seeder) use this so they run without the server's
// secrets.
func LoadDB() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI: os.Getenv("MONGO_URI"),
		DBName:   getEnv("DB_NAME", "candyshop"),
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI must be set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
