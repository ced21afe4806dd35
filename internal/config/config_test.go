package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Success with defaults only",
			envVars:     map[string]string{},
			expectError: false,
		},
		{
			name: "Success with all config specified",
			envVars: map[string]string{
				"API_BASE_URL":        "https://api.example.com",
				"API_TIMEOUT_SECONDS": "30",
				"LOG_LEVEL":           "debug",
				"LOG_FORMAT":          "console",
				"LOG_FILE":            "test.log",
				"UI_PAGE_SIZE":        "10",
			},
			expectError: false,
		},
		{
			name: "Error - invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL": "invalid",
			},
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name: "Error - invalid log format",
			envVars: map[string]string{
				"LOG_FORMAT": "xml",
			},
			expectError: true,
			errorMsg:    "invalid log format",
		},
		{
			name: "Error - zero page size",
			envVars: map[string]string{
				"UI_PAGE_SIZE": "0",
			},
			expectError: true,
			errorMsg:    "page size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := Load("")

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
			}

			os.Clearenv()
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3002", cfg.API.BaseURL)
	assert.Equal(t, 15, cfg.API.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "console.log", cfg.Logger.File)
	assert.Equal(t, 5, cfg.UI.PageSize)
}

func TestLoad_YAMLFile(t *testing.T) {
	os.Clearenv()

	dir := t.TempDir()
	path := filepath.Join(dir, "console.yaml")
	content := []byte(`
api:
  base_url: https://catalog.example.com
  timeout_seconds: 20
logger:
  level: warn
  format: console
  file: /tmp/console.log
ui:
  page_size: 20
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://catalog.example.com", cfg.API.BaseURL)
	assert.Equal(t, 20, cfg.API.TimeoutSeconds)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, 20, cfg.UI.PageSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	os.Clearenv()

	dir := t.TempDir()
	path := filepath.Join(dir, "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: https://from-file\n"), 0o644))

	os.Setenv("API_BASE_URL", "https://from-env")
	defer os.Clearenv()

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env", cfg.API.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	os.Clearenv()

	cfg, err := Load("/nonexistent/console.yaml")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:    APIConfig{BaseURL: "http://localhost:3002", TimeoutSeconds: 15},
			Logger: LoggerConfig{Level: "info", Format: "json"},
			UI:     UIConfig{PageSize: 5},
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "Valid configuration",
			mutate: func(c *Config) {},
		},
		{
			name:        "Invalid - empty base URL",
			mutate:      func(c *Config) { c.API.BaseURL = "" },
			expectError: true,
			errorMsg:    "base URL is required",
		},
		{
			name:        "Invalid - zero timeout",
			mutate:      func(c *Config) { c.API.TimeoutSeconds = 0 },
			expectError: true,
			errorMsg:    "timeout",
		},
		{
			name:        "Invalid - bad log level",
			mutate:      func(c *Config) { c.Logger.Level = "verbose" },
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name:        "Invalid - bad log format",
			mutate:      func(c *Config) { c.Logger.Format = "text" },
			expectError: true,
			errorMsg:    "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
