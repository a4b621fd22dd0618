package config

import (
	"errors"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting the server needs.
// DB_DSN and JWT_SECRET are mandatory: without them the process
// cannot do anything useful, so Load fails instead of limping along.
type Config struct {
	HTTPAddr   string        `env:"HTTP_ADDR" env-default:":8080"`
	CORSOrigin string        `env:"CORS_ORIGIN" env-default:"http://localhost:5173"`
	DBDSN      string        `env:"DB_DSN"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" env-default:"24h"`

	// Avatar storage (S3-compatible). Optional: when S3_BUCKET is empty
	// the server starts without avatar uploads.
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" env-default:"us-east-1"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	// Base URL prepended to object keys when building the public avatar
	// URL, e.g. "https://cdn.example.com". Defaults to endpoint/bucket.
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

// Load reads a local .env file if one exists, then the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set by the host.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}

	return &cfg, nil
}

// AvatarStorageEnabled reports whether S3 settings are present.
func (c *Config) AvatarStorageEnabled() bool {
	return c.S3Bucket != ""
}
