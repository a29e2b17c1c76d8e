package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Development defaults, only applied with the memory backend.
const (
	devJWTSecret = "dev-secret"
	devOwnerID   = "local-user"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	StoreBackend  string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	// OwnerUserID is the only user whose tokens are accepted. The engine
	// serves a single person's notifications.
	OwnerUserID   string
	AllowedOrigin string
	LogLevel      string

	// PhysicalDevice is false when running on a simulator/emulator host;
	// permission prompts are skipped there.
	PhysicalDevice bool
	// StrictPersistence makes preference saves report storage failures to
	// the caller instead of only logging them.
	StrictPersistence bool

	// NotifyEmail, when set, receives a copy of every delivered notification.
	NotifyEmail string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env vars")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "solace"),
		StoreBackend:      getEnv("STORE_BACKEND", BackendMongo),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		OwnerUserID:       getEnv("OWNER_USER_ID", ""),
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "http://localhost:8081"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		PhysicalDevice:    getBool("PHYSICAL_DEVICE", true),
		StrictPersistence: getBool("STRICT_PERSISTENCE", false),
		NotifyEmail:       getEnv("NOTIFY_EMAIL", ""),
	}

	if cfg.StoreBackend == BackendMemory {
		if cfg.JWTSecret == "" {
			log.Println("JWT_SECRET not set, using the development secret")
			cfg.JWTSecret = devJWTSecret
		}
		if cfg.OwnerUserID == "" {
			cfg.OwnerUserID = devOwnerID
		}
	}
	return cfg
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.OwnerUserID == "" {
		errs = append(errs, errors.New("OWNER_USER_ID is required"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}
