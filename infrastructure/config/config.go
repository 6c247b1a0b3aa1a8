package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion        string
	DynamoDBTable    string
	GraphID          string
	NodeIndexName    string // GSI1 - direct NodeID lookups
	EdgeIndexName    string // GSI2 - outgoing relations by source
	TargetIndexName  string // GSI3 - incoming relations by target
	RecentIndexName  string // GSI4 - posts of a graph by creation time
	EventBusName     string
	MetricsNamespace string

	// Data source: "dynamodb" or "memory"
	DataSource string

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Rate limiting
	RateLimitPerMinute int

	// Sessions
	SessionIdleTTL time.Duration

	// Resilience and caching
	BreakerFailureThreshold int
	BreakerOpenTimeout      time.Duration
	NodeCacheTTL            time.Duration

	// Engine tuning overlay
	EngineConfigFile string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
	EnableEvents  bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:    getEnv("SERVER_ADDRESS", ":8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		AWSRegion:        getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable:    getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "brainstorm")),
		GraphID:          getEnv("GRAPH_ID", "default"),
		NodeIndexName:    getEnv("NODE_INDEX_NAME", "NodeIndex"),
		EdgeIndexName:    getEnv("EDGE_INDEX_NAME", "EdgeIndex"),
		TargetIndexName:  getEnv("TARGET_INDEX_NAME", "TargetIndex"),
		RecentIndexName:  getEnv("RECENT_INDEX_NAME", "RecentIndex"),
		EventBusName:     getEnv("EVENT_BUS_NAME", "brainstorm-events"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "Brainstorm"),
		DataSource:       getEnv("DATA_SOURCE", "dynamodb"),

		// Lambda configuration
		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		// Authentication
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "brainstorm"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 600),
		SessionIdleTTL:     getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),

		BreakerFailureThreshold: getEnvInt("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerOpenTimeout:      getEnvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),
		NodeCacheTTL:            getEnvDuration("NODE_CACHE_TTL", 30*time.Second),

		EngineConfigFile: getEnv("ENGINE_CONFIG_FILE", ""),

		// Logging and features
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
		EnableEvents:  getEnvBool("ENABLE_EVENTS", false),
	}

	if cfg.LambdaFunctionName != "" {
		cfg.IsLambda = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.DataSource {
	case "dynamodb", "memory":
	default:
		return fmt.Errorf("DATA_SOURCE must be dynamodb or memory, got %q", c.DataSource)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive")
	}

	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DataSource == "dynamodb" && c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required")
		}
		if c.EnableEvents && c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable such as "90s" with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
