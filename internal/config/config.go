package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DBDriver string           `yaml:"db_driver"`
	DBURL    string           `yaml:"db_url"`
	HTTPAddr string           `yaml:"http_addr"`
	LogLevel string           `yaml:"log_level"`
	APIKeys  map[string]int64 `yaml:"api_keys"` // apiKey -> userID
}

const (
	defaultDriver   = "postgres"
	defaultHTTPAddr = ":8080"
	defaultLogLevel = "info"
)

var errAPIKeysFormat = errors.New(`API_KEYS must be "user_id:key,user_id:key"`)

// Load reads configuration from an optional YAML file named by CONFIG_FILE,
// then applies environment variables on top.
// API_KEYS format: "1:key1,2:key2"
func Load() (Config, error) {
	cfg := Config{}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("DB_DRIVER")); v != "" {
		c.DBDriver = v
	}
	if v := strings.TrimSpace(os.Getenv("DB_URL")); v != "" {
		c.DBURL = v
	}
	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		c.HTTPAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if raw := strings.TrimSpace(os.Getenv("API_KEYS")); raw != "" {
		keys, err := ParseAPIKeys(raw)
		if err != nil {
			return err
		}
		c.APIKeys = keys
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DBDriver == "" {
		c.DBDriver = defaultDriver
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = defaultHTTPAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	// Local dev fallback so the service runs out-of-the-box.
	if len(c.APIKeys) == 0 {
		c.APIKeys = map[string]int64{"dev-key-123": 1}
	}
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("DB_URL required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	for key, userID := range c.APIKeys {
		if key == "" || userID <= 0 {
			return errAPIKeysFormat
		}
	}
	return nil
}

// ParseAPIKeys parses "user_id:key" pairs separated by commas.
func ParseAPIKeys(raw string) (map[string]int64, error) {
	keys := map[string]int64{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts := strings.SplitN(p, ":", 2)
		if len(parts) != 2 {
			return nil, errAPIKeysFormat
		}
		user := strings.TrimSpace(parts[0])
		key := strings.TrimSpace(parts[1])
		if user == "" || key == "" {
			return nil, errAPIKeysFormat
		}
		userID, err := strconv.ParseInt(user, 10, 64)
		if err != nil || userID <= 0 {
			return nil, errAPIKeysFormat
		}
		keys[key] = userID
	}
	return keys, nil
}
