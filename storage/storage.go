// Package storage opens the task and user store once per process.
//
// Two backends are supported: SQLite through GORM (default) and
// PostgreSQL through a pgx pool. Exactly one of Store.Gorm and Store.Pool
// is set.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/task-manager/config"
	"github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/domain/user"
)

// Store holds the opened backend.
type Store struct {
	Driver string
	Gorm   *gorm.DB
	Pool   *pgxpool.Pool
	NewID  IDFunc
}

// Open connects to the configured backend and prepares the schema.
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Store, error) {
	newID, err := NewIDFunc()
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.SQLitePath, cfg.Debug)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Driver).Str("path", cfg.SQLitePath).Msg("store opened")
		return &Store{Driver: cfg.Driver, Gorm: db, NewID: newID}, nil

	case config.DriverPostgres:
		pool, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Driver).Msg("store opened")
		return &Store{Driver: cfg.Driver, Pool: pool, NewID: newID}, nil
	}

	return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
}

// OpenSQLite opens a GORM SQLite database and migrates the models.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string, debug bool) (*gorm.DB, error) {
	mode := logger.Silent
	if debug {
		mode = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(mode),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if path == ":memory:" {
		// every connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&user.User{}, &task.Task{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// OpenPostgres opens a pgx pool and creates the tables when missing.
func OpenPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return pool, nil
}

// Ping checks the backend connection.
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.Gorm != nil:
		sqlDB, err := s.Gorm.DB()
		if err != nil {
			return fmt.Errorf("failed to get database connection: %w", err)
		}
		return sqlDB.PingContext(ctx)
	case s.Pool != nil:
		return s.Pool.Ping(ctx)
	}
	return errors.New("store not initialized")
}

// Close releases the backend connection.
func (s *Store) Close() error {
	switch {
	case s.Gorm != nil:
		sqlDB, err := s.Gorm.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	case s.Pool != nil:
		s.Pool.Close()
	}
	return nil
}
