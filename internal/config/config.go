// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
	"github.com/labstack/gommon/log"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendCloudinary = "cloudinary"
	BackendMinio      = "minio"
	BackendMemory     = "memory"
)

// Config holds all runtime configuration for the service. It is built once at startup
// and treated as read-only afterwards.
type Config struct {
	Port           string
	AppEnv         string
	ServiceName    string
	AllowedOrigins []string

	StorageBackend string
	UploadFolder   string

	// Cloudinary credentials (the production provider)
	CloudName      string
	CloudAPIKey    string
	CloudAPISecret string
	CloudAPIPrefix string

	// Object storage (S3-compatible: MinIO locally)
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageBucket     string
	StorageUseSSL     bool
	StoragePublicBase string

	// Upload limits and guard
	UploadMemoryLimit string // human readable, e.g. "32MB"; larger parts spill to disk
	UploadJWTSecret   string // empty disables the bearer guard on /upload

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, reading from environment")
	}

	return &Config{
		Port:           getEnv("PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		ServiceName:    getEnv("SERVICE_NAME", "civic-lens-uploader"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendCloudinary)),
		UploadFolder:   getEnv("UPLOAD_FOLDER", "encrypted_uploads"),

		CloudName:      os.Getenv("CLOUD_NAME"),
		CloudAPIKey:    os.Getenv("CLOUD_API_KEY"),
		CloudAPISecret: os.Getenv("CLOUD_API_SECRET"),
		CloudAPIPrefix: os.Getenv("CLOUD_API_PREFIX"),

		StorageEndpoint:   getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey:  getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey:  getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "uploads"),
		StorageUseSSL:     getEnvBool("STORAGE_USE_SSL", false),
		StoragePublicBase: getEnv("STORAGE_PUBLIC_BASE", "http://localhost:9000/uploads"),

		UploadMemoryLimit: getEnv("UPLOAD_MEMORY_LIMIT", "32MB"),
		UploadJWTSecret:   os.Getenv("UPLOAD_JWT_SECRET"),

		ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 60*time.Second),
		WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
	}
}

// Validate reports settings the service cannot start with. Missing provider credentials
// are not among them: those surface per request.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendCloudinary, BackendMinio, BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %s, %s or %s)",
			c.StorageBackend, BackendCloudinary, BackendMinio, BackendMemory)
	}
	if _, err := c.MemoryLimit(); err != nil {
		return err
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q: %w", c.Port, err)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS must name at least one origin")
	}
	return nil
}

// MemoryLimit returns UploadMemoryLimit in bytes.
func (c *Config) MemoryLimit() (int64, error) {
	n, err := bytes.Parse(c.UploadMemoryLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid UPLOAD_MEMORY_LIMIT %q: %w", c.UploadMemoryLimit, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid UPLOAD_MEMORY_LIMIT %q: must be positive", c.UploadMemoryLimit)
	}
	return n, nil
}

// CloudinaryConfigured reports whether all three provider credentials are present.
func (c *Config) CloudinaryConfigured() bool {
	return c.CloudName != "" && c.CloudAPIKey != "" && c.CloudAPISecret != ""
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warnf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
