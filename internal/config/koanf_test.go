// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateEnv clears every mapped variable and CONFIG_PATH for the test,
// and moves into an empty directory so no stray config.yaml is found.
func isolateEnv(t *testing.T) {
	t.Helper()
	for key := range envMappings {
		t.Setenv(strings.ToUpper(key), "")
		os.Unsetenv(strings.ToUpper(key))
	}
	t.Setenv(ConfigPathEnvVar, "")
	os.Unsetenv(ConfigPathEnvVar)
	t.Chdir(t.TempDir())
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Database.Path != "/data/cineniche.duckdb" {
		t.Errorf("Database.Path = %q, want /data/cineniche.duckdb", cfg.Database.Path)
	}
	if !cfg.Database.PreserveInsertionOrder {
		t.Error("Database.PreserveInsertionOrder should default to true")
	}
	if cfg.Recommend.CollaborativePath != "SeedData/collab.csv" {
		t.Errorf("Recommend.CollaborativePath = %q", cfg.Recommend.CollaborativePath)
	}
	if cfg.Recommend.DefaultCount != 10 || cfg.Recommend.DefaultTopN != 30 {
		t.Errorf("Recommend defaults = %d/%d, want 10/30", cfg.Recommend.DefaultCount, cfg.Recommend.DefaultTopN)
	}
	if cfg.Recommend.CacheSize != 1000 || cfg.Recommend.CacheTTL != 5*time.Minute {
		t.Errorf("Recommend cache = %d/%v, want 1000/5m", cfg.Recommend.CacheSize, cfg.Recommend.CacheTTL)
	}
	if cfg.Import.Enabled {
		t.Error("Import.Enabled should default to false")
	}
	if !cfg.Import.AutoStart {
		t.Error("Import.AutoStart should default to true")
	}
	if cfg.Import.Reader != "gorm" {
		t.Errorf("Import.Reader = %q, want gorm", cfg.Import.Reader)
	}
	if cfg.API.RateLimitWindow != time.Minute {
		t.Errorf("API.RateLimitWindow = %v, want 1m", cfg.API.RateLimitWindow)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"SEED_MOVIES_CSV", "database.seed_movies_csv"},
		{"COLLAB_CSV_PATH", "recommend.collaborative_path"},
		{"IMPORT_READER", "import.reader"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache_ttl"},
		{"IMPORT_AUTO_START", "import.auto_start"},
		{"RATE_LIMIT_REQUESTS", "api.rate_limit_reqs"},
		{"LOG_LEVEL", "logging.level"},
		{"log_level", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	isolateEnv(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q in empty dir, want empty", got)
	}

	if err := os.WriteFile("config.yml", []byte("server:\n  port: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("findConfigFile() = %q, want config.yml", got)
	}

	custom := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(custom, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, custom)
	if got := findConfigFile(); got != custom {
		t.Errorf("findConfigFile() = %q, want %q", got, custom)
	}

	t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("findConfigFile() with missing CONFIG_PATH = %q, want fallback config.yml", got)
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateEnv(t)

	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("COLLAB_CSV_PATH", "/seed/collab.csv")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("IMPORT_ENABLED", "true")
	t.Setenv("IMPORT_SQLITE_PATH", "/data/Movies.db")
	t.Setenv("IMPORT_BATCHES_PER_SECOND", "2.5")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.CollaborativePath != "/seed/collab.csv" {
		t.Errorf("Recommend.CollaborativePath = %q", cfg.Recommend.CollaborativePath)
	}
	if cfg.API.RequestTimeout != 3*time.Second {
		t.Errorf("API.RequestTimeout = %v, want 3s", cfg.API.RequestTimeout)
	}
	if !cfg.Import.Enabled || cfg.Import.SQLitePath != "/data/Movies.db" {
		t.Errorf("Import = %+v", cfg.Import)
	}
	if cfg.Import.BatchesPerSecond != 2.5 {
		t.Errorf("Import.BatchesPerSecond = %v, want 2.5", cfg.Import.BatchesPerSecond)
	}
	// untouched defaults survive
	if cfg.Import.BatchSize != 1000 {
		t.Errorf("Import.BatchSize = %d, want default 1000", cfg.Import.BatchSize)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	isolateEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8080
  host: 127.0.0.1
database:
  path: /file/catalog.duckdb
  seed_movies_csv: ""
recommend:
  max_count: 50
logging:
  level: warn
  format: console
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want env override 9999", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want file value", cfg.Server.Host)
	}
	if cfg.Database.Path != "/file/catalog.duckdb" {
		t.Errorf("Database.Path = %q, want file value", cfg.Database.Path)
	}
	if cfg.Database.SeedMoviesCSV != "" {
		t.Errorf("Database.SeedMoviesCSV = %q, want file override to empty", cfg.Database.SeedMoviesCSV)
	}
	if cfg.Recommend.MaxCount != 50 {
		t.Errorf("Recommend.MaxCount = %d, want 50", cfg.Recommend.MaxCount)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want error/console", cfg.Logging)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "port out of range",
			env:     map[string]string{"HTTP_PORT": "70000"},
			wantErr: "HTTP_PORT",
		},
		{
			name:    "bad log level",
			env:     map[string]string{"LOG_LEVEL": "verbose"},
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "import without path",
			env:     map[string]string{"IMPORT_ENABLED": "true"},
			wantErr: "IMPORT_SQLITE_PATH",
		},
		{
			name:    "unknown import reader",
			env:     map[string]string{"IMPORT_ENABLED": "true", "IMPORT_SQLITE_PATH": "x.db", "IMPORT_READER": "odbc"},
			wantErr: "IMPORT_READER",
		},
		{
			name:    "default count above max",
			env:     map[string]string{"RECOMMEND_DEFAULT_COUNT": "20", "RECOMMEND_MAX_COUNT": "5"},
			wantErr: "RECOMMEND_DEFAULT_COUNT",
		},
		{
			name: "rate limit bounds ignored when disabled",
			env:  map[string]string{"DISABLE_RATE_LIMIT": "true", "RATE_LIMIT_REQUESTS": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("LoadWithKoanf() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("LoadWithKoanf() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
