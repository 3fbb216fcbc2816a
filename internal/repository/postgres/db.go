package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/semaphore"

	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/config"
	"github.com/Ely-Kagunza/KitchenCommandML-sub000/internal/repository"
)

// DB wraps sqlx with a semaphore bounding the number of in-flight queries
type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

var (
	dbInstance *DB
	once       sync.Once
)

var _ repository.Querier = (*DB)(nil)

// NewDB creates a new database connection pool
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	var err error
	once.Do(func() {
		connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		var db *sqlx.DB
		db, err = sqlx.Connect("postgres", connStr)
		if err != nil {
			err = fmt.Errorf("could not connect to postgres: %w", err)
			return
		}

		dbInstance = Wrap(db, cfg.MaxOpenConns, cfg.MaxInFlight)
	})

	return dbInstance, err
}

// Wrap configures the pool of an open connection and bounds concurrent queries.
func Wrap(db *sqlx.DB, maxOpen, maxInFlight int) *DB {
	if maxOpen < 1 {
		maxOpen = 25
	}
	if maxInFlight < 1 {
		maxInFlight = 10
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{
		DB:  db,
		sem: semaphore.NewWeighted(int64(maxInFlight)),
	}
}

// SelectContext runs a multi-row query once a query slot is free
func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	return db.DB.SelectContext(ctx, dest, query, args...)
}

// GetContext runs a single-row query once a query slot is free
func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	return db.DB.GetContext(ctx, dest, query, args...)
}
