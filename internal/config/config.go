// Package config loads fintrack settings from the environment, an optional
// YAML file and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/naveenspark/fintrack/internal/log"
	"github.com/naveenspark/fintrack/pkg/client"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backends lists every supported store backend.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendMemory}

// Config holds every fintrack setting.
type Config struct {
	APIURL   string `yaml:"api_url"`
	StateDir string `yaml:"-"`

	// Session store
	StoreBackend string `yaml:"store"`
	SQLitePath   string `yaml:"sqlite_path"`
	Scope        string `yaml:"scope"`

	// Redis
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`

	// HTTP
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	Dedup       bool          `yaml:"dedup"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// File is the YAML file that was read, empty when none was found.
	File string `yaml:"-"`

	problems []string
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		APIURL:       client.DefaultBaseURL,
		StateDir:     defaultStateDir(),
		StoreBackend: BackendFile,
		Scope:        "default",
		RedisAddr:    "localhost:6379",
		RedisPrefix:  "fintrack:",
		Dedup:        true,
		LogLevel:     "info",
	}
}

// Load reads .env (when present), the YAML file and the environment.
// Malformed values are reported by Validate rather than here; only an
// unreadable or unparseable YAML file fails Load.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	cfg.StateDir = getEnv("FINTRACK_STATE_DIR", cfg.StateDir)

	path, explicit := os.Getenv("FINTRACK_CONFIG"), true
	if path == "" {
		path, explicit = filepath.Join(cfg.StateDir, "config.yaml"), false
	}
	if err := cfg.readFile(path, explicit); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg.applyEnv()
	cfg.fillDerived()
	return cfg, nil
}

func (c *Config) readFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	c.File = path
	return nil
}

func (c *Config) applyEnv() {
	c.APIURL = getEnv("FINTRACK_API_URL", c.APIURL)
	c.StoreBackend = strings.ToLower(getEnv("FINTRACK_STORE", c.StoreBackend))
	c.SQLitePath = getEnv("FINTRACK_SQLITE_PATH", c.SQLitePath)
	c.Scope = getEnv("FINTRACK_SCOPE", c.Scope)
	c.RedisAddr = getEnv("FINTRACK_REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("FINTRACK_REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = c.getEnvInt("FINTRACK_REDIS_DB", c.RedisDB)
	c.RedisPrefix = getEnv("FINTRACK_REDIS_PREFIX", c.RedisPrefix)
	c.HTTPTimeout = c.getEnvDuration("FINTRACK_HTTP_TIMEOUT", c.HTTPTimeout)
	c.Dedup = c.getEnvBool("FINTRACK_DEDUP", c.Dedup)
	c.LogLevel = getEnv("FINTRACK_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("FINTRACK_LOG_FILE", c.LogFile)
}

func (c *Config) fillDerived() {
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.StateDir, "fintrack.db")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.StateDir, "fintrack.log")
	}
}

// SessionFile is where the file backend keeps the session.
func (c *Config) SessionFile() string {
	return filepath.Join(c.StateDir, "session.json")
}

// Validate validates the configuration and returns every problem at once.
func (c *Config) Validate() error {
	problems := append([]string(nil), c.problems...)

	if u, err := url.Parse(c.APIURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid API URL '%s': %v", c.APIURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid API URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	} else if u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid API URL '%s': missing host", c.APIURL))
	}

	validBackend := false
	for _, b := range Backends {
		if c.StoreBackend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		problems = append(problems, fmt.Sprintf("invalid store backend '%s': must be one of %v", c.StoreBackend, Backends))
	}

	if c.StoreBackend != BackendMemory && c.StateDir == "" {
		problems = append(problems, "state directory cannot be empty")
	}
	if c.StoreBackend == BackendSQLite && c.SQLitePath == "" {
		problems = append(problems, "SQLite path cannot be empty when using sqlite backend")
	}
	if c.StoreBackend == BackendRedis {
		if c.RedisAddr == "" {
			problems = append(problems, "Redis address cannot be empty when using redis backend")
		}
		if c.RedisDB < 0 {
			problems = append(problems, fmt.Sprintf("invalid Redis DB %d: must not be negative", c.RedisDB))
		}
	}
	if strings.TrimSpace(c.Scope) == "" {
		problems = append(problems, "scope cannot be empty")
	}
	if c.HTTPTimeout < 0 {
		problems = append(problems, fmt.Sprintf("invalid HTTP timeout %v: must not be negative", c.HTTPTimeout))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fintrack"
	}
	return filepath.Join(home, ".fintrack")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be a number", key, value))
		return defaultValue
	}
	return i
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be a duration such as 10s", key, value))
		return defaultValue
	}
	return d
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("invalid %s '%s': must be true or false", key, value))
		return defaultValue
	}
	return b
}
