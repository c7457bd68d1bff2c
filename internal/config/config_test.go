package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	tests := []struct {
		name     string
		actual   time.Duration
		expected time.Duration
	}{
		{"TokenExpiry", cfg.Auth.TokenExpiry, 180 * time.Minute},
		{"ReminderWindow", cfg.Scheduler.ReminderWindow, time.Hour},
		{"QueryTimeout", cfg.Scheduler.QueryTimeout, 30 * time.Second},
		{"SendTimeout", cfg.Scheduler.SendTimeout, 30 * time.Second},
	}

	for _, tt := range tests {
		if tt.actual != tt.expected {
			t.Errorf("%s: got %v, want %v", tt.name, tt.actual, tt.expected)
		}
	}

	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr: got %q, want %q", cfg.Redis.Addr, "localhost:6379")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("TOKEN_EXPIRY", "90m")
	os.Setenv("REMINDER_WINDOW", "30m")
	os.Setenv("REDIS_ADDR", "redis.internal:6380")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.TokenExpiry != 90*time.Minute {
		t.Errorf("TokenExpiry: got %v, want %v", cfg.Auth.TokenExpiry, 90*time.Minute)
	}
	if cfg.Scheduler.ReminderWindow != 30*time.Minute {
		t.Errorf("ReminderWindow: got %v, want %v", cfg.Scheduler.ReminderWindow, 30*time.Minute)
	}
	if cfg.Redis.Addr != "redis.internal:6380" {
		t.Errorf("Redis.Addr: got %q, want %q", cfg.Redis.Addr, "redis.internal:6380")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing JWT_SECRET")
	}
}

func TestLoad_WeakJWTSecretInProduction(t *testing.T) {
	os.Setenv("JWT_SECRET", "short")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("ENV", "production")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for weak JWT_SECRET in production")
	}
}
