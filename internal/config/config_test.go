package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:              "8080",
		DataBackend:       BackendLocal,
		SQLiteDBPath:      filepath.Join(t.TempDir(), "test.db"),
		SessionCookieName: "cp_session",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{name: "valid local backend", mutate: func(c *Config) {}},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "must be between 1 and 65535",
		},
		{
			name:        "invalid backend",
			mutate:      func(c *Config) { c.DataBackend = "cloud" },
			wantErr:     true,
			errorString: "invalid data backend 'cloud'",
		},
		{
			name: "remote backend without env is still valid",
			mutate: func(c *Config) {
				c.DataBackend = BackendRemote
			},
		},
		{
			name:        "bad remote URL scheme",
			mutate:      func(c *Config) { c.RemoteURL = "ftp://example.com" },
			wantErr:     true,
			errorString: "must be 'http' or 'https'",
		},
		{
			name:        "empty cookie name",
			mutate:      func(c *Config) { c.SessionCookieName = "" },
			wantErr:     true,
			errorString: "session cookie name cannot be empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("error %q missing %q", err, tt.errorString)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRemoteConfigured(t *testing.T) {
	c := Config{}
	if c.RemoteConfigured() {
		t.Error("empty config reported configured")
	}
	c.RemoteURL = "https://example.supabase.co"
	if c.RemoteConfigured() {
		t.Error("missing key reported configured")
	}
	c.RemoteAnonKey = "anon"
	if !c.RemoteConfigured() {
		t.Error("full config reported unconfigured")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("default port = %s", cfg.Port)
	}
	if cfg.DataBackend != BackendLocal {
		t.Errorf("default backend = %s", cfg.DataBackend)
	}
	if cfg.SessionCookieName == "" {
		t.Error("default cookie name empty")
	}
}
