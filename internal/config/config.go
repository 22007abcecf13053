// Package config loads settings for the API server and trainerctl.
//
// Sources are applied in order, each overriding the previous one:
//
//  1. built-in defaults
//  2. a YAML file (optional)
//  3. a .env file in the working directory (optional)
//  4. environment variables
//
// The same binary therefore runs in development with no files at all and in
// production with a config file plus a secret injected through the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSecret is only acceptable for local development.
const DefaultSecret = "changeme-use-a-real-secret-in-production"

type Config struct {
	Server struct {
		Addr     string `yaml:"addr"`
		SeedDemo bool   `yaml:"seed_demo"`
	} `yaml:"server"`
	Database struct {
		// Driver is "memory", "sqlite" or "pgx".
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Log struct {
		Level string `yaml:"level"`
		// Buffer is how many recent records the admin log view keeps.
		Buffer int `yaml:"buffer"`
	} `yaml:"log"`
	Client struct {
		APIURL      string        `yaml:"api_url"`
		Credentials string        `yaml:"credentials"`
		Timeout     time.Duration `yaml:"timeout"`
		// Fallback installs demo data when a list fails to load.
		Fallback bool `yaml:"fallback"`
	} `yaml:"client"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	c := &Config{}
	c.Server.Addr = ":8080"
	c.Server.SeedDemo = true
	c.Database.Driver = "memory"
	c.Auth.JWTSecret = DefaultSecret
	c.Log.Level = "info"
	c.Log.Buffer = 500
	c.Client.APIURL = "http://localhost:8080"
	c.Client.Credentials = defaultCredentialsPath()
	c.Client.Timeout = 30 * time.Second
	return c
}

func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".trainerhub-credentials.yaml"
	}
	return dir + "/trainerhub/credentials.yaml"
}

// Load builds the configuration. path may be empty; a missing file at a
// non-empty path is an error, a missing .env is not.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set("ADDR", &c.Server.Addr)
	set("DATABASE_DRIVER", &c.Database.Driver)
	set("DATABASE_URL", &c.Database.URL)
	set("JWT_SECRET", &c.Auth.JWTSecret)
	set("LOG_LEVEL", &c.Log.Level)
	set("TRAINERHUB_API_URL", &c.Client.APIURL)
	set("TRAINERHUB_CREDENTIALS", &c.Client.Credentials)

	if v := os.Getenv("TRAINERHUB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TRAINERHUB_TIMEOUT: %w", err)
		}
		c.Client.Timeout = d
	}
	return nil
}

// Validate checks the values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "memory":
	case "sqlite", "pgx":
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret must not be empty")
	}
	if c.Client.Timeout <= 0 {
		return errors.New("client.timeout must be positive")
	}
	return nil
}

// InsecureSecret reports whether the built-in development secret is in use.
func (c *Config) InsecureSecret() bool {
	return c.Auth.JWTSecret == DefaultSecret
}
