package config

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != defaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Server.Host != defaultServerHost {
		t.Errorf("Server.Host = %s, want %s", cfg.Server.Host, defaultServerHost)
	}

	if cfg.Database.Path != defaultDatabasePath {
		t.Errorf("Database.Path = %s, want %s", cfg.Database.Path, defaultDatabasePath)
	}
	if cfg.Database.MigrationsPath != defaultMigrationsPath {
		t.Errorf("Database.MigrationsPath = %s, want %s", cfg.Database.MigrationsPath, defaultMigrationsPath)
	}

	if cfg.Fetch.Timeout != defaultFetchTimeout {
		t.Errorf("Fetch.Timeout = %v, want %v", cfg.Fetch.Timeout, defaultFetchTimeout)
	}
	if cfg.Fetch.RelayURL != "" {
		t.Errorf("Fetch.RelayURL = %s, want empty", cfg.Fetch.RelayURL)
	}
	if cfg.Fetch.UserAgent != defaultFetchUserAgent {
		t.Errorf("Fetch.UserAgent = %s, want %s", cfg.Fetch.UserAgent, defaultFetchUserAgent)
	}

	if cfg.Logging.Level != defaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, defaultLogLevel)
	}
	if cfg.Logging.Pretty != defaultLogPretty {
		t.Errorf("Logging.Pretty = %v, want %v", cfg.Logging.Pretty, defaultLogPretty)
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("BBTV_SERVER_PORT", "9090")
	t.Setenv("BBTV_FETCH_RELAYURL", "https://relay.example.com/")
	t.Setenv("BBTV_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Fetch.RelayURL != "https://relay.example.com/" {
		t.Errorf("Fetch.RelayURL = %s, want https://relay.example.com/", cfg.Fetch.RelayURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestConfigValidation(t *testing.T) {
	valid := Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "127.0.0.1",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Database: DatabaseConfig{Path: "./data/test.db", MigrationsPath: "file://./migrations"},
		Fetch:    FetchConfig{Timeout: time.Second},
		Logging:  LoggingConfig{Level: "info"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid config: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }},
		{"zero fetch timeout", func(c *Config) { c.Fetch.Timeout = 0 }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
