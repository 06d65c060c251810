// Package store opens the configured product store and exposes its
// repositories.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inventory/internal/config"
	"inventory/internal/models"
	"inventory/internal/repositories"
)

const connectTimeout = 10 * time.Second

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Driver   string
	Products repositories.ProductRepository
	Users    repositories.UserRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connections.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Store, logger *slog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return openGORM(cfg.Driver, sqlite.Open(cfg.SQLitePath), true)
	case config.DriverPostgres:
		return openGORM(cfg.Driver, postgres.Open(cfg.DSN), false)
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

// NewMemory returns a store kept entirely in process memory.
func NewMemory() *Store {
	return &Store{
		Driver:   config.DriverMemory,
		Products: repositories.NewMemoryProductRepository(),
		Users:    repositories.NewMemoryUserRepository(),
	}
}

// NewGORM wraps an open GORM database, migrating the schema.
func NewGORM(driver string, db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	return &Store{
		Driver:   driver,
		Products: repositories.NewGORMProductRepository(db),
		Users:    repositories.NewGORMUserRepository(db),
		ping:     sqlDB.PingContext,
		close:    func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func openGORM(driver string, dialector gorm.Dialector, single bool) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if single {
		// SQLite allows one writer; ":memory:" is per connection.
		sqlDB.SetMaxOpenConns(1)
	}

	s, err := NewGORM(driver, db)
	if err != nil {
		return nil, errors.Join(err, sqlDB.Close())
	}
	return s, nil
}

func openMongo(ctx context.Context, cfg config.Store, logger *slog.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		err = fmt.Errorf("failed to ping mongo: %w", err)
		return nil, errors.Join(err, client.Disconnect(context.Background()))
	}

	logger.Info("connected to mongo",
		slog.String("database", cfg.MongoDatabase),
		slog.String("collection", cfg.MongoCollection))

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	return &Store{
		Driver:   config.DriverMongo,
		Products: repositories.NewMongoProductRepository(coll),
		Users:    repositories.NewMemoryUserRepository(),
		ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:    client.Disconnect,
	}, nil
}
