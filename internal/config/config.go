package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Blob     BlobConfig
	Upload   UploadConfig
	Services ServicesConfig
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host       string `envconfig:"DB_HOST" default:"localhost"`
	Port       int    `envconfig:"DB_PORT" default:"5432"`
	Username   string `envconfig:"DB_USERNAME" default:"postgres"`
	Password   string `envconfig:"DB_PASSWORD" default:"password"`
	DBName     string `envconfig:"DB_NAME" default:"fundverse"`
	SSLMode    string `envconfig:"DB_SSLMODE" default:"disable"`
	TestDBName string `envconfig:"TEST_DB_NAME" default:"fundverse_test"`
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" default:"your-secret-key-here"`
}

// BlobConfig holds the document blob store configuration. An empty DataDir
// selects an in-memory store.
type BlobConfig struct {
	DataDir string `envconfig:"BLOB_DATA_DIR" default:".fundverse/blobs"`
}

// UploadConfig holds the chunked upload configuration
type UploadConfig struct {
	SessionTTL time.Duration `envconfig:"UPLOAD_SESSION_TTL" default:"1h"`
}

// ServicesConfig holds the endpoints of the external collaborators
type ServicesConfig struct {
	ControllerURL string `envconfig:"CONTROLLER_URL" default:"http://localhost:8091"`
	MinterURL     string `envconfig:"MINTER_URL" default:"http://localhost:8092"`
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.DBName, c.SSLMode,
	)
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}
