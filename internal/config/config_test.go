package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "SERVER_HOST", "SERVER_PORT", "ENV",
		"ALLOWED_ORIGINS", "NOTIFICATION_CAP", "RECONNECT_DELAY_MS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.DBHost != "localhost" || cfg.DBPort != "3306" {
		t.Errorf("Unexpected DB defaults: %s:%s", cfg.DBHost, cfg.DBPort)
	}
	if cfg.ServerPort != "8000" {
		t.Errorf("Expected default server port 8000, got %s", cfg.ServerPort)
	}
	if cfg.NotificationCap != 5 {
		t.Errorf("Expected default notification cap 5, got %d", cfg.NotificationCap)
	}
	if cfg.ReconnectDelay != 3*time.Second {
		t.Errorf("Expected default reconnect delay 3s, got %v", cfg.ReconnectDelay)
	}
	if cfg.ServerAddr() != "localhost:8000" {
		t.Errorf("Expected ServerAddr localhost:8000, got %s", cfg.ServerAddr())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_HOST", "chat.example.com")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("NOTIFICATION_CAP", "2")
	t.Setenv("RECONNECT_DELAY_MS", "250")
	t.Setenv("ALLOWED_ORIGINS", " http://a.example , http://b.example ")

	cfg := Load()

	if cfg.ServerAddr() != "chat.example.com:9000" {
		t.Errorf("Expected ServerAddr chat.example.com:9000, got %s", cfg.ServerAddr())
	}
	if cfg.NotificationCap != 2 {
		t.Errorf("Expected notification cap 2, got %d", cfg.NotificationCap)
	}
	if cfg.ReconnectDelay != 250*time.Millisecond {
		t.Errorf("Expected reconnect delay 250ms, got %v", cfg.ReconnectDelay)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "http://a.example" {
		t.Errorf("Expected trimmed origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("NOTIFICATION_CAP", "zero")
	t.Setenv("RECONNECT_DELAY_MS", "-10")

	cfg := Load()

	if cfg.NotificationCap != 5 {
		t.Errorf("Expected cap to fall back to 5, got %d", cfg.NotificationCap)
	}
	if cfg.ReconnectDelay != 3*time.Second {
		t.Errorf("Expected delay to fall back to 3s, got %v", cfg.ReconnectDelay)
	}
}
