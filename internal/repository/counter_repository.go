package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CounterRepository persists named integer registers. The round-robin
// counter is read and written in two separate statements on purpose: the
// source system has no compare-and-swap, and concurrent ticket creations can
// observe the same value. The assignment tests pin that behavior.
type CounterRepository interface {
	// Get returns the counter value, creating the row at zero when absent.
	Get(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value int) error
}

type counterRepository struct {
	pool *pgxpool.Pool
}

// NewCounterRepository instantiates the repository.
func NewCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &counterRepository{pool: pool}
}

func (r *counterRepository) Get(ctx context.Context, key string) (int, error) {
	var value int
	err := r.pool.QueryRow(ctx, `SELECT value FROM counters WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		const insert = `
            INSERT INTO counters (key, value) VALUES ($1, 0)
            ON CONFLICT (key) DO NOTHING`
		if _, err := r.pool.Exec(ctx, insert, key); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (r *counterRepository) Set(ctx context.Context, key string, value int) error {
	const query = `
        INSERT INTO counters (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	_, err := r.pool.Exec(ctx, query, key, value)
	return err
}
