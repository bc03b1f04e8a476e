package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		Database: DatabaseConfig{
			Path:              defaultDatabasePath,
			ConnectionTimeout: defaultDatabaseConnectionTimeout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		Storage: StorageConfig{
			MusicDir:       defaultMusicDir,
			CoverDir:       defaultCoverDir,
			MaxUploadBytes: defaultMaxUploadBytes,
		},
		Auth: AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  defaultTokenTTL,
		},
	}
}

func TestConfigDefaults(t *testing.T) {
	// The secret has no default, so Load only succeeds with it present
	t.Setenv("CADENZA_AUTH_JWTSECRET", "from-env")

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
	if cfg.Logging.Level != defaultLogLevel {
		t.Errorf("Logging.Level = %s, want %s", cfg.Logging.Level, defaultLogLevel)
	}
	if cfg.Storage.MusicDir != defaultMusicDir {
		t.Errorf("Storage.MusicDir = %s, want %s", cfg.Storage.MusicDir, defaultMusicDir)
	}
	if cfg.Storage.CoverDir != defaultCoverDir {
		t.Errorf("Storage.CoverDir = %s, want %s", cfg.Storage.CoverDir, defaultCoverDir)
	}
	if cfg.Storage.MaxUploadBytes != defaultMaxUploadBytes {
		t.Errorf("Storage.MaxUploadBytes = %d, want %d", cfg.Storage.MaxUploadBytes, int64(defaultMaxUploadBytes))
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("Auth.JWTSecret = %s, want from-env", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != defaultTokenTTL {
		t.Errorf("Auth.TokenTTL = %v, want %v", cfg.Auth.TokenTTL, defaultTokenTTL)
	}
}

func TestLoadFailsWithoutSecret(t *testing.T) {
	_ = os.Unsetenv("CADENZA_AUTH_JWTSECRET")

	if _, err := Load(); err == nil {
		t.Error("Load() succeeded without a JWT secret, want error")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, true},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }, true},
		{"zero connection timeout", func(c *Config) { c.Database.ConnectionTimeout = 0 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"empty music dir", func(c *Config) { c.Storage.MusicDir = "  " }, true},
		{"empty cover dir", func(c *Config) { c.Storage.CoverDir = "" }, true},
		{"zero upload limit", func(c *Config) { c.Storage.MaxUploadBytes = 0 }, true},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"zero token ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
