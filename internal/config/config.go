package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"inventory/internal/models"
)

// Store drivers understood by store.Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config is the full application configuration.
type Config struct {
	AppPort      string
	CORSOrigins  string
	SeedDemoData bool
	UpdateMerge  models.MergePolicy

	Store    Store
	Auth     Auth
	RabbitMQ RabbitMQ
	Log      Log
}

// Store selects and configures the product store.
type Store struct {
	Driver          string
	SQLitePath      string
	DSN             string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Auth configures token issuing and verification.
type Auth struct {
	Required  bool
	JWTSecret string
	TokenTTL  time.Duration
}

// RabbitMQ configures the product event publisher. An empty URL disables it.
type RabbitMQ struct {
	URL   string
	Queue string
}

type Log struct {
	Format string // "json" or "text"
	Level  slog.Level
}

// New returns a viper instance with every default set and environment
// variables bound.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("APP_PORT", ":5001")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SEED_DEMO_DATA", false)
	v.SetDefault("PRODUCT_UPDATE_MERGE", "truthy")

	v.SetDefault("STORE_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "inventory.db")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=inventory port=5432 sslmode=disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "inventory")
	v.SetDefault("MONGO_COLLECTION", "products")

	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_TTL", 24*time.Hour)

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")

	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()

	return v
}

// Load reads the configuration from the environment and, when CONFIG_FILE
// is set, from that file.
func Load() (Config, error) {
	v := New()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	merge, err := models.ParseMergePolicy(v.GetString("PRODUCT_UPDATE_MERGE"))
	if err != nil {
		return Config{}, fmt.Errorf("PRODUCT_UPDATE_MERGE: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	format := strings.ToLower(v.GetString("LOG_FORMAT"))
	if format != "json" && format != "text" {
		return Config{}, fmt.Errorf("LOG_FORMAT: unknown log format: %s", format)
	}

	driver := strings.ToLower(v.GetString("STORE_DRIVER"))
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMongo, DriverMemory:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER: unknown store driver: %s", driver)
	}

	cfg := Config{
		AppPort:      v.GetString("APP_PORT"),
		CORSOrigins:  v.GetString("CORS_ORIGINS"),
		SeedDemoData: v.GetBool("SEED_DEMO_DATA"),
		UpdateMerge:  merge,
		Store: Store{
			Driver:          driver,
			SQLitePath:      v.GetString("SQLITE_PATH"),
			DSN:             v.GetString("DATABASE_DSN"),
			MongoURI:        v.GetString("MONGO_URI"),
			MongoDatabase:   v.GetString("MONGO_DATABASE"),
			MongoCollection: v.GetString("MONGO_COLLECTION"),
		},
		Auth: Auth{
			Required:  v.GetBool("AUTH_REQUIRED"),
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  v.GetDuration("JWT_TTL"),
		},
		RabbitMQ: RabbitMQ{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
		Log: Log{
			Format: format,
			Level:  level,
		},
	}

	if cfg.Auth.Required && cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required when AUTH_REQUIRED is set")
	}

	return cfg, nil
}
