// Package config loads the waypoints configuration.
//
// Sources are applied in order, later ones winning:
//
//  1. Built-in defaults (file backend, waypoints.json, :8080, info)
//  2. A config file: waypoints.toml, waypoints.yaml or waypoints.yml in the
//     working directory, or an explicit path (.toml, .yaml, .yml)
//  3. A .env file in the working directory, if present
//  4. WAYPOINTS_* environment variables
//
// The result is validated before it is returned.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/events"
	"github.com/matzehuels/waypoints/pkg/store"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WAYPOINTS_"

// DefaultAddr is the HTTP listen address used by "waypoints serve".
const DefaultAddr = ":8080"

// DefaultFiles are searched in the working directory when no config path
// is given.
var DefaultFiles = []string{"waypoints.toml", "waypoints.yaml", "waypoints.yml"}

// Config is the complete configuration.
type Config struct {
	Store  store.Config  `toml:"store" yaml:"store" validate:"-"`
	Kafka  events.Config `toml:"kafka" yaml:"kafka"`
	Server ServerConfig  `toml:"server" yaml:"server"`
	Log    LogConfig     `toml:"log" yaml:"log"`

	// File is the config file that was read, empty if none.
	File string `toml:"-" yaml:"-"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr" validate:"required"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store:  store.Config{Backend: store.BackendFile, Path: store.DefaultPath},
		Server: ServerConfig{Addr: DefaultAddr},
		Log:    LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, the config file at path (or
// the first of [DefaultFiles] that exists when path is empty), .env and the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = findDefaultFile()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
		cfg.File = path
	}

	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read .env")
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = store.BackendFile
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config")
	}
	return c.Store.Validate()
}

var validate = validator.New()

func findDefaultFile() string {
	for _, name := range DefaultFiles {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// readFile decodes path over c, so keys missing from the file keep their
// current value. Unknown keys are rejected.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read config")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), c)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "config format %q (want .toml, .yaml or .yml)", ext)
	}
	return nil
}

// envVar binds one environment variable to a config field.
type envVar struct {
	name  string
	apply func(c *Config, v string) error
}

func setString(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

var envVars = []envVar{
	{"BACKEND", setString(func(c *Config) *string { return &c.Store.Backend })},
	{"PATH", setString(func(c *Config) *string { return &c.Store.Path })},

	{"REDIS_ADDR", setString(func(c *Config) *string { return &c.Store.Redis.Addr })},
	{"REDIS_PASSWORD", setString(func(c *Config) *string { return &c.Store.Redis.Password })},
	{"REDIS_DB", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Store.Redis.DB = n
		return nil
	}},
	{"REDIS_KEY", setString(func(c *Config) *string { return &c.Store.Redis.Key })},

	{"S3_ENDPOINT", setString(func(c *Config) *string { return &c.Store.S3.Endpoint })},
	{"S3_ACCESS_KEY", setString(func(c *Config) *string { return &c.Store.S3.AccessKey })},
	{"S3_SECRET_KEY", setString(func(c *Config) *string { return &c.Store.S3.SecretKey })},
	{"S3_USE_SSL", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Store.S3.UseSSL = b
		return nil
	}},
	{"S3_REGION", setString(func(c *Config) *string { return &c.Store.S3.Region })},
	{"S3_BUCKET", setString(func(c *Config) *string { return &c.Store.S3.Bucket })},
	{"S3_OBJECT", setString(func(c *Config) *string { return &c.Store.S3.Object })},

	{"POSTGRES_DSN", setString(func(c *Config) *string { return &c.Store.Postgres.DSN })},
	{"POSTGRES_TABLE", setString(func(c *Config) *string { return &c.Store.Postgres.Table })},
	{"POSTGRES_NAME", setString(func(c *Config) *string { return &c.Store.Postgres.Name })},

	{"MONGO_URI", setString(func(c *Config) *string { return &c.Store.Mongo.URI })},
	{"MONGO_DATABASE", setString(func(c *Config) *string { return &c.Store.Mongo.Database })},
	{"MONGO_COLLECTION", setString(func(c *Config) *string { return &c.Store.Mongo.Collection })},
	{"MONGO_NAME", setString(func(c *Config) *string { return &c.Store.Mongo.Name })},

	{"KAFKA_BROKERS", func(c *Config, v string) error {
		c.Kafka.Brokers = nil
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.Kafka.Brokers = append(c.Kafka.Brokers, b)
			}
		}
		return nil
	}},
	{"KAFKA_TOPIC", setString(func(c *Config) *string { return &c.Kafka.Topic })},

	{"ADDR", setString(func(c *Config) *string { return &c.Server.Addr })},
	{"LOG_LEVEL", setString(func(c *Config) *string { return &c.Log.Level })},
}

// EnvNames lists every supported environment variable.
func EnvNames() []string {
	names := make([]string, len(envVars))
	for i, ev := range envVars {
		names[i] = EnvPrefix + ev.name
	}
	return names
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok {
			continue
		}
		if err := ev.apply(c, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, ev.name)
		}
	}
	return nil
}
