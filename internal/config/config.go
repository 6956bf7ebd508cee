package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all server configuration
type Config struct {
	MySQL       MySQLConfig
	Redis       RedisConfig
	JWT         JWTConfig
	LDAP        LDAPConfig
	Ingest      IngestConfig
	Migrate     bool
	SeedAdmin   bool
	HTTPAddr    string
	CORSOrigins []string
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// LDAPConfig holds directory sync configuration
type LDAPConfig struct {
	Enabled    bool
	URL        string
	BindDN     string
	BindPass   string
	BaseDN     string
	UserFilter string
}

// IngestConfig holds ingestion tuning knobs
type IngestConfig struct {
	DedupWindowSec int // submission-id de-duplication horizon
	AgentStaleSec  int // last_seen age after which an agent reads as offline
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:        os.Getenv("JWT_SECRET"),
			ExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 1440),
			Issuer:        getEnv("JWT_ISSUER", "printtrack"),
		},
		LDAP: LDAPConfig{
			Enabled:    getEnv("LDAP_ENABLED", "0") == "1",
			URL:        getEnv("LDAP_URL", ""),
			BindDN:     getEnv("LDAP_BIND_DN", ""),
			BindPass:   getEnv("LDAP_BIND_PASS", ""),
			BaseDN:     getEnv("LDAP_BASE_DN", ""),
			UserFilter: getEnv("LDAP_USER_FILTER", "(objectClass=person)"),
		},
		Ingest: IngestConfig{
			DedupWindowSec: getEnvInt("DEDUP_WINDOW_SEC", 86400),
			AgentStaleSec:  getEnvInt("AGENT_STALE_SEC", 600),
		},
		Migrate:     getEnv("MIGRATE", "0") == "1",
		SeedAdmin:   getEnv("SEED_ADMIN", "0") == "1",
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "")),
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.LDAP.Enabled && cfg.LDAP.URL == "" {
		return nil, fmt.Errorf("LDAP_URL is required when LDAP_ENABLED=1")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
