package store

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/waypoints/pkg/errors"
)

// Backend names accepted in [Config.Backend].
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Default locations.
const (
	// DefaultPath is the document file used when no path is configured.
	DefaultPath = "waypoints.json"

	// DefaultKey names the document in key-value and database backends.
	DefaultKey = "waypoints"
)

// Config selects and configures a backend.
// Only the section matching Backend is validated and used.
type Config struct {
	Backend string `toml:"backend" yaml:"backend" validate:"omitempty,oneof=file memory redis s3 postgres mongo"`
	Path    string `toml:"path" yaml:"path"`

	Redis    RedisConfig    `toml:"redis" yaml:"redis" validate:"-"`
	S3       S3Config       `toml:"s3" yaml:"s3" validate:"-"`
	Postgres PostgresConfig `toml:"postgres" yaml:"postgres" validate:"-"`
	Mongo    MongoConfig    `toml:"mongo" yaml:"mongo" validate:"-"`
}

// RedisConfig configures [RedisStore].
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr" validate:"required,hostname_port"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db" validate:"gte=0"`
	Key      string `toml:"key" yaml:"key"`
}

// S3Config configures [S3Store].
type S3Config struct {
	Endpoint  string `toml:"endpoint" yaml:"endpoint" validate:"required"`
	AccessKey string `toml:"access_key" yaml:"access_key" validate:"required"`
	SecretKey string `toml:"secret_key" yaml:"secret_key" validate:"required"`
	UseSSL    bool   `toml:"use_ssl" yaml:"use_ssl"`
	Region    string `toml:"region" yaml:"region"`
	Bucket    string `toml:"bucket" yaml:"bucket" validate:"required,min=3,max=63"`
	Object    string `toml:"object" yaml:"object"`
}

// PostgresConfig configures [PostgresStore].
type PostgresConfig struct {
	DSN   string `toml:"dsn" yaml:"dsn" validate:"required"`
	Table string `toml:"table" yaml:"table" validate:"omitempty,max=63"`
	Name  string `toml:"name" yaml:"name"`
}

// MongoConfig configures [MongoStore].
type MongoConfig struct {
	URI        string `toml:"uri" yaml:"uri" validate:"required"`
	Database   string `toml:"database" yaml:"database" validate:"required"`
	Collection string `toml:"collection" yaml:"collection"`
	Name       string `toml:"name" yaml:"name"`
}

var validate = validator.New()

// Validate checks the backend name and the section it selects.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store")
	}

	var section any
	switch c.Backend {
	case "", BackendFile:
		if c.Path != "" {
			return errors.ValidatePath(c.Path)
		}
		return nil
	case BackendMemory:
		return nil
	case BackendRedis:
		section = c.Redis
	case BackendS3:
		section = c.S3
	case BackendPostgres:
		if err := errors.ValidateURI(c.Postgres.DSN, "postgres", "postgresql"); err != nil {
			return err
		}
		section = c.Postgres
	case BackendMongo:
		if err := errors.ValidateURI(c.Mongo.URI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
		section = c.Mongo
	}
	if err := validate.Struct(section); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store %s", c.Backend)
	}
	return nil
}

// documentKey applies the default and validates the resulting key.
func documentKey(key, def string) (string, error) {
	if key == "" {
		key = def
	}
	if err := errors.ValidateKey(key); err != nil {
		return "", err
	}
	return key, nil
}
