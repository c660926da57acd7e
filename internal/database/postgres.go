package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
	"github.com/rs/zerolog/log"
)

type Config struct {
	URL string
}

type DB struct {
	Pool *pgxpool.Pool
}

// New creates the pool. pgxpool connects lazily, so call Ping to check the server.
func New(ctx context.Context, config Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	// Register the vector type on every connection, once the extension exists
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if err := pgxvector.RegisterTypes(ctx, conn); err != nil {
			log.Debug().Err(err).Msg("vector type not registered yet")
		}
		return nil
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{
		Pool: pgPool,
	}, nil
}

// NewWithBackoff retries the initial ping with exponential backoff. It is only
// used at startup; queries are never retried.
func NewWithBackoff(ctx context.Context, config Config, maxRetries int) (*DB, error) {
	db, err := New(ctx, config)
	if err != nil {
		return nil, err
	}

	for i := range maxRetries {
		if i > 0 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Info().Dur("backoff", backoff).Msg("Waiting before database retry")

			select {
			case <-ctx.Done():
				db.Close()
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		err = db.Ping(ctx)
		if err == nil {
			log.Info().Int("attempts_needed", i+1).Msg("Database connected")
			return db, nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Int("max_retries", maxRetries).Msg("Database ping failed")
	}

	db.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.Pool.Ping(ctx); err != nil {
		return err
	}

	return nil
}

func (db *DB) Close() {
	db.Pool.Close()
}
