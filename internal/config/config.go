// Package config loads the service configuration from a YAML file, an
// optional .env file and LOSTFOUND_* environment variables, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/model"
)

// DefaultPath is read when no config file is named and it exists.
const DefaultPath = "lostfound.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LOSTFOUND_"

// Config is the service configuration.
type Config struct {
	DB            string        `yaml:"db"`
	Addr          string        `yaml:"addr"`
	Log           string        `yaml:"log"`
	EmailDomain   string        `yaml:"email_domain"`
	TokenExpiry   time.Duration `yaml:"token_expiry"`
	MaxImageBytes int64         `yaml:"max_image_bytes"`
	Seed          bool          `yaml:"seed"`
	Redis         Redis         `yaml:"redis"`
	AMQP          AMQP          `yaml:"amqp"`
}

// Redis configures the optional Redis session store. An empty Addr keeps
// sessions in the database.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// AMQP configures optional forwarding of item events to RabbitMQ.
type AMQP struct {
	URL string `yaml:"url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DB:            "lostfound.sqlite3",
		Addr:          ":8080",
		EmailDomain:   model.DefaultEmailDomain,
		TokenExpiry:   auth.TokenExpiry,
		MaxImageBytes: imaging.DefaultMaxBytes,
		Seed:          true,
	}
}

// Load builds the configuration. path names the YAML file; when empty,
// DefaultPath is used if present. envFile names a dotenv file whose
// variables are added to the environment if not already set; a missing
// envFile is ignored.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str("DB", &c.DB)
	str("ADDR", &c.Addr)
	str("LOG", &c.Log)
	str("EMAIL_DOMAIN", &c.EmailDomain)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("AMQP_URL", &c.AMQP.URL)

	if v, ok := os.LookupEnv(EnvPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sREDIS_DB: %w", EnvPrefix, err)
		}
		c.Redis.DB = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "TOKEN_EXPIRY"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sTOKEN_EXPIRY: %w", EnvPrefix, err)
		}
		c.TokenExpiry = d
	}
	if v, ok := os.LookupEnv(EnvPrefix + "MAX_IMAGE_BYTES"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_IMAGE_BYTES: %w", EnvPrefix, err)
		}
		c.MaxImageBytes = n
	}
	if v, ok := os.LookupEnv(EnvPrefix + "SEED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sSEED: %w", EnvPrefix, err)
		}
		c.Seed = b
	}
	return nil
}

// Validate checks that required settings are present and sane.
func (c *Config) Validate() error {
	if c.DB == "" {
		return errors.New("config: db is required")
	}
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.EmailDomain == "" {
		return errors.New("config: email_domain is required")
	}
	if c.TokenExpiry <= 0 {
		return errors.New("config: token_expiry must be positive")
	}
	if c.MaxImageBytes <= 0 {
		return errors.New("config: max_image_bytes must be positive")
	}
	return nil
}
