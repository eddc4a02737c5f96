package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Game.Lobby != "Lobby" {
		t.Errorf("lobby = %q, want Lobby", cfg.Game.Lobby)
	}
	if cfg.Game.Retention != time.Hour {
		t.Errorf("retention = %s, want 1h", cfg.Game.Retention)
	}
	if cfg.Static.Dir != "./public" {
		t.Errorf("static dir = %q, want ./public", cfg.Static.Dir)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v, want info/json", cfg.Logging)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 9000
game:
  lobby: Foyer
  retention: 30m
logging:
  level: debug
  format: console
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Game.Lobby != "Foyer" {
		t.Errorf("lobby = %q, want Foyer", cfg.Game.Lobby)
	}
	if cfg.Game.Retention != 30*time.Minute {
		t.Errorf("retention = %s, want 30m", cfg.Game.Retention)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() succeeded with a missing config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TOKENBOARD_SERVER_PORT", "9999")
	t.Setenv("TOKENBOARD_GAME_LOBBY", "Atrium")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Game.Lobby != "Atrium" {
		t.Errorf("lobby = %q, want Atrium", cfg.Game.Lobby)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:  ServerConfig{Host: "0.0.0.0", Port: 8080},
		Game:    GameConfig{Lobby: "Lobby", Retention: time.Hour},
		Static:  StaticConfig{Dir: "./public"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v for a valid config", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"empty lobby", func(c *Config) { c.Game.Lobby = "" }, "game.lobby"},
		{"zero retention", func(c *Config) { c.Game.Retention = 0 }, "game.retention"},
		{"empty static dir", func(c *Config) { c.Static.Dir = "" }, "static.dir"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
