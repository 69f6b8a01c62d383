package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid json backend config",
			config: Config{
				Port:        "8081",
				DataBackend: "json",
				DataFile:    "./data/finance_data.json",
				AITimeout:   90 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "valid sqlite backend config",
			config: Config{
				Port:         "8081",
				DataBackend:  "sqlite",
				SQLiteDBPath: "./test.db",
				AITimeout:    90 * time.Second,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:        "abc",
				DataBackend: "json",
				DataFile:    "./data.json",
				AITimeout:   90 * time.Second,
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:        "70000",
				DataBackend: "json",
				DataFile:    "./data.json",
				AITimeout:   90 * time.Second,
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "invalid backend",
			config: Config{
				Port:        "8081",
				DataBackend: "memory",
				AITimeout:   90 * time.Second,
			},
			wantErr:     true,
			errorString: "invalid data backend 'memory'",
		},
		{
			name: "json backend without data file",
			config: Config{
				Port:        "8081",
				DataBackend: "json",
				DataFile:    "",
				AITimeout:   90 * time.Second,
			},
			wantErr:     true,
			errorString: "data file path cannot be empty",
		},
		{
			name: "sqlite backend without db path",
			config: Config{
				Port:         "8081",
				DataBackend:  "sqlite",
				SQLiteDBPath: "",
				AITimeout:    90 * time.Second,
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "AI timeout too small",
			config: Config{
				Port:        "8081",
				DataBackend: "json",
				DataFile:    "./data.json",
				AITimeout:   100 * time.Millisecond,
			},
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Validate() error = %q, want it to contain %q", err, tt.errorString)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "DATA_FILE", "SQLITE_DB_PATH", "OPENROUTER_API_KEY", "AI_MODEL", "AI_TIMEOUT"} {
		os.Unsetenv(key)
	}

	cfg := Load()
	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.DataBackend != "json" {
		t.Errorf("DataBackend = %q, want json", cfg.DataBackend)
	}
	if cfg.AIModel != "mistralai/mistral-7b-instruct:free" {
		t.Errorf("AIModel = %q", cfg.AIModel)
	}
	if cfg.AITimeout != 90*time.Second {
		t.Errorf("AITimeout = %v, want 90s", cfg.AITimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("AI_TIMEOUT", "30s")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("DataBackend = %q, want sqlite", cfg.DataBackend)
	}
	if cfg.AITimeout != 30*time.Second {
		t.Errorf("AITimeout = %v, want 30s", cfg.AITimeout)
	}
}
