package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `json:"server"`
	Store   StoreConfig   `json:"store"`
	MQTT    MQTTConfig    `json:"mqtt"`
	Auth    AuthConfig    `json:"auth"`
	Logging LoggingConfig `json:"logging"`
	CORS    CORSConfig    `json:"cors"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// StoreConfig selects and configures the key-value store backend.
type StoreConfig struct {
	// Backend is one of "postgres", "mongo" or "memory".
	Backend string `json:"backend"`

	// Postgres settings
	PostgresHost     string `json:"postgres_host"`
	PostgresPort     int    `json:"postgres_port"`
	PostgresUser     string `json:"postgres_user"`
	PostgresPassword string `json:"postgres_password"`
	PostgresDB       string `json:"postgres_db"`
	PostgresSSLMode  string `json:"postgres_ssl_mode"`

	// Mongo settings
	MongoURI        string `json:"mongo_uri"`
	MongoDatabase   string `json:"mongo_database"`
	MongoCollection string `json:"mongo_collection"`
}

// MQTTConfig holds MQTT-related configuration
type MQTTConfig struct {
	BrokerHost        string        `json:"broker_host"`
	BrokerPort        int           `json:"broker_port"`
	BrokerUser        string        `json:"broker_user"`
	BrokerPass        string        `json:"broker_pass"`
	UseTLS            bool          `json:"use_tls"`
	CACertPath        string        `json:"ca_cert_path"`
	Topic             string        `json:"topic"`
	ClientID          string        `json:"client_id"`
	KeepAlive         time.Duration `json:"keep_alive"`
	PingTimeout       time.Duration `json:"ping_timeout"`
	ReconnectInterval time.Duration `json:"reconnect_interval"`
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecretKey        string        `json:"jwt_secret_key"`
	JWTIssuer           string        `json:"jwt_issuer"`
	AccessTokenDuration time.Duration `json:"access_token_duration"`
	PasswordMinLength   int           `json:"password_min_length"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level        string `json:"level"`
	Format       string `json:"format"` // json or text
	Output       string `json:"output"` // stdout or stderr
	EnableCaller bool   `json:"enable_caller"`
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

// IngestorConfig holds configuration for the MQTT ingestor service
type IngestorConfig struct {
	Server        ServerConfig  `json:"server"`
	MQTT          MQTTConfig    `json:"mqtt"`
	Logging       LoggingConfig `json:"logging"`
	ApiServiceURL string        `json:"api_service_url"`
	RuleFilePath  string        `json:"rule_file_path"`
}

// LoadApiConfig loads configuration for the API service
func LoadApiConfig() (*Config, error) {
	// A missing .env file is fine; environment variables may be set directly.
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "9002"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		Store: StoreConfig{
			Backend:          getEnv("STORE_BACKEND", "postgres"),
			PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
			PostgresPort:     getInt("POSTGRES_PORT", 5432),
			PostgresUser:     getEnv("POSTGRES_USER", ""),
			PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
			PostgresDB:       getEnv("POSTGRES_DB", "wsn"),
			PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase:    getEnv("MONGO_DB", "wsn"),
			MongoCollection:  getEnv("MONGO_COLLECTION", "kv_store"),
		},
		MQTT: MQTTConfig{
			BrokerHost:        getEnv("BROKER_HOST", "localhost"),
			BrokerPort:        getInt("BROKER_PORT", 1883),
			BrokerUser:        getEnv("BROKER_USER", ""),
			BrokerPass:        getEnv("BROKER_PASS", ""),
			UseTLS:            getBool("BROKER_TLS", false),
			CACertPath:        getEnv("BROKER_CA_FILE", ""),
			Topic:             getEnv("MQTT_TOPIC", "esp32/motion"),
			ClientID:          getEnv("MQTT_CLIENT_ID", "wsn-api-service"),
			KeepAlive:         getDuration("MQTT_KEEP_ALIVE", 30*time.Second),
			PingTimeout:       getDuration("MQTT_PING_TIMEOUT", 10*time.Second),
			ReconnectInterval: getDuration("MQTT_RECONNECT_INTERVAL", 1*time.Second),
		},
		Auth: AuthConfig{
			JWTSecretKey:        getEnv("JWT_SECRET_KEY", "change-this-secret-in-production"),
			JWTIssuer:           getEnv("JWT_ISSUER", "wsn-api-service"),
			AccessTokenDuration: getDuration("JWT_ACCESS_TOKEN_DURATION", 24*time.Hour),
			PasswordMinLength:   getInt("PASSWORD_MIN_LENGTH", 8),
		},
		Logging: LoggingConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "text"),
			Output:       getEnv("LOG_OUTPUT", "stdout"),
			EnableCaller: getBool("LOG_ENABLE_CALLER", false),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			ExposedHeaders:   getStringSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getInt("CORS_MAX_AGE", 43200),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadIngestorConfig loads configuration for the MQTT ingestor service
func LoadIngestorConfig() (*IngestorConfig, error) {
	_ = godotenv.Load()

	config := &IngestorConfig{
		Server: ServerConfig{
			Port:         getEnv("INGESTOR_PORT", "9003"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		MQTT: MQTTConfig{
			BrokerHost:        getEnv("BROKER_HOST", "localhost"),
			BrokerPort:        getInt("BROKER_PORT", 1883),
			BrokerUser:        getEnv("BROKER_USER", ""),
			BrokerPass:        getEnv("BROKER_PASS", ""),
			UseTLS:            getBool("BROKER_TLS", false),
			CACertPath:        getEnv("BROKER_CA_FILE", ""),
			Topic:             getEnv("MQTT_TOPIC", "esp32/motion"),
			ClientID:          getEnv("MQTT_CLIENT_ID", "wsn-ingestor"),
			KeepAlive:         getDuration("MQTT_KEEP_ALIVE", 30*time.Second),
			PingTimeout:       getDuration("MQTT_PING_TIMEOUT", 10*time.Second),
			ReconnectInterval: getDuration("MQTT_RECONNECT_INTERVAL", 1*time.Second),
		},
		Logging: LoggingConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "text"),
			Output:       getEnv("LOG_OUTPUT", "stdout"),
			EnableCaller: getBool("LOG_ENABLE_CALLER", false),
		},
		ApiServiceURL: getEnv("API_SERVICE_URL", "http://api-service:9002"),
		RuleFilePath:  getEnv("RULE_FILE_PATH", "alert_rules.json"),
	}

	if config.ApiServiceURL == "" {
		return nil, fmt.Errorf("API_SERVICE_URL is required")
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "postgres":
		if c.Store.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required for the postgres backend")
		}
		if c.Store.PostgresPassword == "" {
			return fmt.Errorf("POSTGRES_PASSWORD is required for the postgres backend")
		}
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (expected postgres, mongo or memory)", c.Store.Backend)
	}
	if c.Auth.JWTSecretKey == "change-this-secret-in-production" {
		log.Println("WARNING: Using default JWT secret key. Change JWT_SECRET_KEY in production!")
	}
	if c.Auth.PasswordMinLength < 6 {
		return fmt.Errorf("password minimum length must be at least 6")
	}
	return nil
}

// GetPostgresDSN returns the Postgres connection string
func (c *Config) GetPostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Store.PostgresHost, c.Store.PostgresPort, c.Store.PostgresUser,
		c.Store.PostgresPassword, c.Store.PostgresDB, c.Store.PostgresSSLMode)
}

// BrokerURL returns the MQTT broker URL
func (m *MQTTConfig) BrokerURL() string {
	scheme := "tcp"
	if m.UseTLS {
		scheme = "tcps"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, m.BrokerHost, m.BrokerPort)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return intValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Fatalf("invalid %s: %q (expected true/false or 1/0)", key, value)
	}
	return boolValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return duration
}

func getStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
