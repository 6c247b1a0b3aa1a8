package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "dynamodb", cfg.DataSource)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.True(t, cfg.EnableCORS)
	assert.False(t, cfg.IsLambda)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("DATA_SOURCE", "memory")
	t.Setenv("SESSION_IDLE_TTL", "90s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "42")
	t.Setenv("ENABLE_METRICS", "yes")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "brainstorm-api")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DataSource)
	assert.Equal(t, 90*time.Second, cfg.SessionIdleTTL)
	assert.Equal(t, 42, cfg.RateLimitPerMinute)
	assert.True(t, cfg.EnableMetrics)
	assert.True(t, cfg.IsLambda, "running inside a function implies lambda mode")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown data source", mutate: func(c *Config) { c.DataSource = "sqlite" }, wantErr: "DATA_SOURCE"},
		{name: "non positive ttl", mutate: func(c *Config) { c.SessionIdleTTL = 0 }, wantErr: "SESSION_IDLE_TTL"},
		{
			name:    "production without secret",
			mutate:  func(c *Config) { c.Environment = "production" },
			wantErr: "JWT_SECRET",
		},
		{
			name: "production with secret",
			mutate: func(c *Config) {
				c.Environment = "production"
				c.JWTSecret = "s3cret"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Environment:    "development",
				DataSource:     "dynamodb",
				DynamoDBTable:  "brainstorm",
				SessionIdleTTL: time.Minute,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
