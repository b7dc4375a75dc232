// Package config provides configuration management for the application.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting. The resulting structs are constructed once at
// startup and passed by reference into the constructors that need them;
// business logic never reads process-wide state directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds token-signing and password-hashing configuration. The two
// token kinds use distinct secrets so an access token can never be replayed as
// a refresh token.
type AuthConfig struct {
	AccessTokenSecret    string
	AccessTokenDuration  time.Duration
	RefreshTokenSecret   string
	RefreshTokenDuration time.Duration
	BcryptCost           int
}

// MediaConfig holds settings for the S3-compatible media hosting service that
// stores avatar and cover images.
type MediaConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Media  *MediaConfig
	Server *ServerConfig
}

// getRequiredEnv returns the value of a required environment variable,
// collecting an error when it is missing so that all configuration problems
// are reported together.
func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv returns the value of an environment variable or a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt parses an optional integer variable, falling back to the
// default and collecting an error when the value does not parse.
func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// getOptionalEnvDuration parses an optional duration variable ("15m", "168h"),
// falling back to the default and collecting an error when parsing fails.
func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// LoadConfig creates an AppConfig by reading and validating environment
// variables. All errors encountered during loading are collected and returned
// as a single error.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	// Database settings.
	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	dbPoolSize := getOptionalEnvInt("DB_POOL_SIZE", 10, &errs)
	if dbPoolSize < 1 {
		errs = append(errs, fmt.Sprintf("DB_POOL_SIZE must be positive, got %d", dbPoolSize))
		dbPoolSize = 1
	}

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  dbPoolSize,
	}

	// Token settings. The access and refresh secrets are both required and
	// must differ.
	accessSecret := getRequiredEnv("ACCESS_TOKEN_SECRET", &errs)
	refreshSecret := getRequiredEnv("REFRESH_TOKEN_SECRET", &errs)
	if accessSecret != "" && accessSecret == refreshSecret {
		errs = append(errs, "ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must not be equal")
	}
	accessTokenDuration := getOptionalEnvDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute, &errs)
	refreshTokenDuration := getOptionalEnvDuration("REFRESH_TOKEN_EXPIRY", 240*time.Hour, &errs) // 10 days

	bcryptCost := getOptionalEnvInt("BCRYPT_COST", bcrypt.DefaultCost, &errs)
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Sprintf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, bcryptCost))
		bcryptCost = bcrypt.DefaultCost
	}

	authConfig := &AuthConfig{
		AccessTokenSecret:    accessSecret,
		AccessTokenDuration:  accessTokenDuration,
		RefreshTokenSecret:   refreshSecret,
		RefreshTokenDuration: refreshTokenDuration,
		BcryptCost:           bcryptCost,
	}

	// Media storage settings.
	mediaConfig := &MediaConfig{
		Bucket:    getRequiredEnv("S3_BUCKET", &errs),
		Region:    getOptionalEnv("S3_REGION", "us-east-1"),
		Endpoint:  getRequiredEnv("S3_ENDPOINT", &errs),
		AccessKey: getRequiredEnv("S3_ACCESS_KEY", &errs),
		SecretKey: getRequiredEnv("S3_SECRET_KEY", &errs),
	}
	// Public URLs default to the endpoint itself; a CDN in front of the
	// bucket overrides this.
	mediaConfig.PublicBaseURL = strings.TrimRight(getOptionalEnv("MEDIA_PUBLIC_BASE_URL", mediaConfig.Endpoint), "/")

	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8000"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB:     dbConfig,
		Auth:   authConfig,
		Media:  mediaConfig,
		Server: serverConfig,
	}, nil
}
