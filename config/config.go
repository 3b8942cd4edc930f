package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowedOrigins    string `mapstructure:"ALLOWED_ORIGINS"`
	CookieDomain      string `mapstructure:"COOKIE_DOMAIN"`

	// Catalog storage. An empty DATABASE_URL serves the catalog from CATALOG_FILE.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	CatalogFile  string `mapstructure:"CATALOG_FILE"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`

	// Identity provider: "firebase" or "local".
	AuthProvider           string        `mapstructure:"AUTH_PROVIDER"`
	FirebaseAPIKey         string        `mapstructure:"FIREBASE_API_KEY"`
	FirebaseProjectID      string        `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialFile string        `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	JWTSecret              string        `mapstructure:"JWT_SECRET"`
	SessionTTL             time.Duration `mapstructure:"SESSION_TTL"`

	// External REST backend.
	BackendURL     string        `mapstructure:"BACKEND_URL"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	// Worker document uploads: "cloudinary" or "firebase".
	StorageProvider       string `mapstructure:"STORAGE_PROVIDER"`
	CloudinaryCloudName   string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey      string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret   string `mapstructure:"CLOUDINARY_API_SECRET"`
	FirebaseStorageBucket string `mapstructure:"FIREBASE_STORAGE_BUCKET"`
	DocumentsFolder       string `mapstructure:"DOCUMENTS_FOLDER"`
}

var AppConfig Config

func LoadConfig() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("ALLOWED_ORIGINS", "")
	viper.SetDefault("COOKIE_DOMAIN", "")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_NAME", "choreify")
	viper.SetDefault("CATALOG_FILE", "config/catalog.yaml")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("AUTH_PROVIDER", "local")
	viper.SetDefault("FIREBASE_API_KEY", "")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("SESSION_TTL", time.Hour)
	viper.SetDefault("BACKEND_URL", "http://localhost:4000/api")
	viper.SetDefault("BACKEND_TIMEOUT", 10*time.Second)
	viper.SetDefault("STORAGE_PROVIDER", "cloudinary")
	viper.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	viper.SetDefault("CLOUDINARY_API_KEY", "")
	viper.SetDefault("CLOUDINARY_API_SECRET", "")
	viper.SetDefault("FIREBASE_STORAGE_BUCKET", "")
	viper.SetDefault("DOCUMENTS_FOLDER", "worker-documents")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
