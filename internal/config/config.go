package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	Driver string // postgres | sqlite
	DSN    string
}

type MinIO struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type Media struct {
	Backend       string // local | minio
	Root          string
	URL           string
	MaxUploadSize int64
	MinIO         MinIO
}

type Config struct {
	Port          string
	SiteURL       string
	SessionSecret string
	DB            DB
	Media         Media
	PerPageCount  int
	IndexCacheTTL time.Duration
	CacheSize     int
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func LoadDB() DB {
	driver := getEnv("DB_DRIVER", "postgres")
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		if driver == "sqlite" {
			dsn = "yatube.db"
		} else {
			dsn = "host=localhost user=postgres password=postgres dbname=yatube port=5432 sslmode=disable"
		}
	}
	return DB{Driver: driver, DSN: dsn}
}

func LoadMedia() Media {
	return Media{
		Backend:       getEnv("MEDIA_BACKEND", "local"),
		Root:          getEnv("MEDIA_ROOT", "media"),
		URL:           getEnv("MEDIA_URL", "/media/"),
		MaxUploadSize: int64(getEnvAsInt("MAX_UPLOAD_SIZE", 5<<20)),
		MinIO: MinIO{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "yatube"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		},
	}
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		SiteURL:       getEnv("SITE_URL", "http://localhost:8080"),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		DB:            LoadDB(),
		Media:         LoadMedia(),
		PerPageCount:  getEnvAsInt("PER_PAGE_COUNT", 10),
		IndexCacheTTL: getEnvDuration("INDEX_CACHE_TTL", 20*time.Second),
		CacheSize:     getEnvAsInt("CACHE_SIZE", 500),
	}
}
