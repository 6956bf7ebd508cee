package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/ini.v1"
)

// Config holds all agent configuration. Values come from the INI file with
// environment variable override (ENV > INI > default), the same precedence
// an operator would expect from a Windows service config.
type Config struct {
	ServerURL       string
	APIKey          string
	SiteID          string
	Hostname        string
	DataDir         string
	SpoolDir        string
	PollIntervalSec int
	HeartbeatSec    int
	RetentionDays   int
	BatchSize       int

	path string
}

// DefaultPath is the agent config location relative to the data dir.
const DefaultPath = "agent.ini"

// Load reads the agent configuration from an INI file. A missing file is
// not an error: the agent can start unconfigured and register first.
func Load(path string) (*Config, error) {
	cfg := &Config{
		PollIntervalSec: 15,
		HeartbeatSec:    60,
		RetentionDays:   7,
		BatchSize:       25,
		path:            path,
	}

	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("load agent config: %w", err)
	}

	getValue := func(envKey, section, key, defaultValue string) string {
		if v := os.Getenv(envKey); v != "" {
			return v
		}
		if v := file.Section(section).Key(key).String(); v != "" {
			return v
		}
		return defaultValue
	}
	getValueInt := func(envKey, section, key string, defaultValue int) int {
		if v := os.Getenv(envKey); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		if file.Section(section).HasKey(key) {
			if n, err := file.Section(section).Key(key).Int(); err == nil {
				return n
			}
		}
		return defaultValue
	}

	hostname, _ := os.Hostname()

	cfg.ServerURL = getValue("PRINTTRACK_SERVER_URL", "server", "url", "")
	cfg.APIKey = getValue("PRINTTRACK_API_KEY", "server", "api_key", "")
	cfg.SiteID = getValue("PRINTTRACK_SITE_ID", "agent", "site_id", "default")
	cfg.Hostname = getValue("PRINTTRACK_HOSTNAME", "agent", "hostname", hostname)
	cfg.DataDir = getValue("PRINTTRACK_DATA_DIR", "agent", "data_dir", defaultDataDir())
	cfg.SpoolDir = getValue("PRINTTRACK_SPOOL_DIR", "agent", "spool_dir", "")
	cfg.PollIntervalSec = getValueInt("PRINTTRACK_POLL_SEC", "agent", "poll_interval_sec", 15)
	cfg.HeartbeatSec = getValueInt("PRINTTRACK_HEARTBEAT_SEC", "agent", "heartbeat_sec", 60)
	cfg.RetentionDays = getValueInt("PRINTTRACK_RETENTION_DAYS", "queue", "retention_days", 7)
	cfg.BatchSize = getValueInt("PRINTTRACK_BATCH_SIZE", "queue", "batch_size", 25)

	if cfg.SpoolDir == "" {
		cfg.SpoolDir = filepath.Join(cfg.DataDir, "spool")
	}

	return cfg, nil
}

// Validate checks the fields required to talk to the portal.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	return nil
}

// QueuePath is the offline queue database location.
func (c *Config) QueuePath() string {
	return filepath.Join(c.DataDir, "queue.db")
}

// SaveAPIKey persists a freshly issued API key back to the INI file so it
// survives service restarts.
func (c *Config) SaveAPIKey(key string) error {
	if c.path == "" {
		return fmt.Errorf("config path unknown")
	}

	file, err := ini.LooseLoad(c.path)
	if err != nil {
		return fmt.Errorf("reload agent config: %w", err)
	}
	file.Section("server").Key("url").SetValue(c.ServerURL)
	file.Section("server").Key("api_key").SetValue(key)

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	if err := file.SaveTo(c.path); err != nil {
		return fmt.Errorf("save agent config: %w", err)
	}

	c.APIKey = key
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "printtrack-agent"
	}
	return filepath.Join(home, "PrintTrackAgent", "data")
}
