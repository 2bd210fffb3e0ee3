package config

import (
	"os"
	"strconv"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Cloudinary CloudinaryConfig
	Mail       MailConfig
	Admin      AdminConfig
	Uploads    UploadsConfig
	Metrics    MetricsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port       string
	BaseURL    string
	CORSOrigin string
}

// DatabaseConfig holds the document database connection settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// CloudinaryConfig holds the cloud image host credentials
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// MailConfig holds the SMTP transport settings (user + app password)
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// AdminConfig holds the static admin cookie value used to gate
// the back-office routes.
type AdminConfig struct {
	Token string
}

// UploadsConfig holds the local-disk fallback upload directory
type UploadsConfig struct {
	Dir string
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Prefix string
}

// Load reads the application configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "8080"),
			BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),
			CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			URI:  getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Name: getEnv("MONGODB_DB", "modavia"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("MAIL_FROM", os.Getenv("SMTP_USER")),
		},
		Admin: AdminConfig{
			Token: os.Getenv("ADMIN_TOKEN"),
		},
		Uploads: UploadsConfig{
			Dir: getEnv("UPLOAD_DIR", "./uploads"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "modavia"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
