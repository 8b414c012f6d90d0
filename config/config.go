package config

import (
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
)

type Config struct {
	Environment string
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	// Firebase Config
	FirebaseCredentials string

	// Twilio Config
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// External geo services
	NominatimBaseURL string
	OSRMBaseURL      string
	ExternalTimeout  int // seconds

	// App Settings
	JWTAccessTTL     int // minutes
	JWTRefreshTTL    int // hours
	RateLimitRequest int
	RateLimitWindow  int // minutes
	AllowedOrigins   string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "mongodb://localhost:27017/helpnet"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", "your-super-secret-jwt-key"),

		// Firebase
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),

		// Twilio
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),

		// External geo services
		NominatimBaseURL: getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		OSRMBaseURL:      getEnv("OSRM_BASE_URL", "https://router.project-osrm.org"),
		ExternalTimeout:  getEnvAsInt("EXTERNAL_TIMEOUT_SECONDS", 5),

		// App Settings
		JWTAccessTTL:     getEnvAsInt("JWT_ACCESS_TTL_MINUTES", 60),
		JWTRefreshTTL:    getEnvAsInt("JWT_REFRESH_TTL_HOURS", 720),
		RateLimitRequest: getEnvAsInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:  getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 1),
		AllowedOrigins:   getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
	}
}

func InitRedis(cfg *Config) *redis.Client {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		// Fallback to default config
		opt = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	return redis.NewClient(opt)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
