package config

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "WorkLink PH")
	t.Setenv("APP_ENV", "development")
	t.Setenv("HTTP_PORT", "5000")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.App.IsDevelopment() {
		t.Fatalf("expected development env")
	}
	if cfg.Database.Client != DBClientSQLite || cfg.Database.DBPath == "" {
		t.Fatalf("database defaults: %+v", cfg.Database)
	}
	if cfg.Auth.Provider != AuthProviderLocal || cfg.Auth.JWTExpire != 7*24*time.Hour {
		t.Fatalf("auth defaults: %+v", cfg.Auth)
	}
	if cfg.RateLimit.Window != 15*time.Minute || cfg.RateLimit.MaxRequests != 100 {
		t.Fatalf("rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Storage.Enabled() {
		t.Fatalf("storage must be disabled without S3_ENDPOINT")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_EXPIRE", "2d")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "60000")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.JWTExpire != 48*time.Hour {
		t.Fatalf("jwt expire: %v", cfg.Auth.JWTExpire)
	}
	if cfg.RateLimit.Window != time.Minute || cfg.RateLimit.MaxRequests != 10 {
		t.Fatalf("rate limit: %+v", cfg.RateLimit)
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Fatalf("origins: %v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Storage.Enabled() {
		t.Fatalf("storage should be enabled")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing required", func(t *testing.T) {
		t.Setenv("APP_NAME", "")
		t.Setenv("APP_ENV", "production")
		t.Setenv("HTTP_PORT", "5000")
		if _, err := Load(); !errors.Is(err, errMissingRequiredEnv) {
			t.Fatalf("expected missing env error, got %v", err)
		}
	})
	t.Run("invalid number", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("RATE_LIMIT_MAX_REQUESTS", "lots")
		if _, err := Load(); !errors.Is(err, errInvalidEnv) {
			t.Fatalf("expected invalid env error, got %v", err)
		}
	})
	t.Run("supabase needs postgres", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("AUTH_PROVIDER", "supabase")
		t.Setenv("DB_CLIENT", "sqlite")
		if _, err := Load(); !errors.Is(err, errInvalidEnv) {
			t.Fatalf("expected invalid env error, got %v", err)
		}
	})
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"15m", 15 * time.Minute, false},
		{"600", 10 * time.Minute, false},
		{"0", 0, true},
		{"-1h", 0, true},
		{"xd", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: got %v, %v want %v", tc.in, got, err, tc.want)
		}
	}
}
