package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/printtrack")
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("MYSQL_DSN")
	defer os.Unsetenv("JWT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.MySQL.DSN == "" {
		t.Error("MySQL DSN should not be empty")
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected default HTTP addr :8080, got %s", cfg.HTTPAddr)
	}

	if cfg.JWT.ExpireMinutes != 1440 {
		t.Errorf("Expected default JWT expire 1440, got %d", cfg.JWT.ExpireMinutes)
	}

	if cfg.JWT.Issuer != "printtrack" {
		t.Errorf("Expected default issuer printtrack, got %s", cfg.JWT.Issuer)
	}

	if cfg.Ingest.DedupWindowSec != 86400 {
		t.Errorf("Expected default dedup window 86400, got %d", cfg.Ingest.DedupWindowSec)
	}
}

func TestLoad_MissingDSN(t *testing.T) {
	os.Unsetenv("MYSQL_DSN")
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without MYSQL_DSN")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/printtrack")
	os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("MYSQL_DSN")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without JWT_SECRET")
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	os.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/printtrack")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("CORS_ORIGINS", "https://portal.example.com, https://admin.example.com")
	defer os.Unsetenv("MYSQL_DSN")
	defer os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("CORS_ORIGINS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("Expected 2 CORS origins, got %d", len(cfg.CORSOrigins))
	}

	if cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Errorf("Expected trimmed origin, got %q", cfg.CORSOrigins[1])
	}
}
