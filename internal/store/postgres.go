package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements KV on top of a pgx connection pool. String values
// live in kv_values, field maps in kv_fields; a key is present in at most
// one of the two tables.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ KV = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	defer observeKV(ctx, "kv.get")()

	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_values WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		hash, hashErr := p.keyIsHash(ctx, key)
		if hashErr != nil {
			return "", hashErr
		}
		if hash {
			return "", ErrWrongType
		}
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	defer observeKV(ctx, "kv.set")()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	defer tx.Rollback(ctx)

	// Set replaces the key unconditionally, so any hash representation
	// under the same key has to go.
	if _, err := tx.Exec(ctx, `DELETE FROM kv_fields WHERE key = $1`, key); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO kv_values (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	defer observeKV(ctx, "kv.hgetall")()

	str, err := p.keyIsString(ctx, key)
	if err != nil {
		return nil, err
	}
	if str {
		return nil, ErrWrongType
	}

	rows, err := p.pool.Query(ctx, `SELECT field, value FROM kv_fields WHERE key = $1`, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %q: %w", key, err)
	}
	defer rows.Close()

	fields := make(map[string]string)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("hgetall %q: %w", key, err)
		}
		fields[field] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("hgetall %q: %w", key, err)
	}
	return fields, nil
}

func (p *Postgres) HSet(ctx context.Context, key string, fields map[string]string) error {
	defer observeKV(ctx, "kv.hset")()

	str, err := p.keyIsString(ctx, key)
	if err != nil {
		return err
	}
	if str {
		return ErrWrongType
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("hset %q: %w", key, err)
	}
	defer tx.Rollback(ctx)

	for field, value := range fields {
		_, err := tx.Exec(ctx, `
			INSERT INTO kv_fields (key, field, value) VALUES ($1, $2, $3)
			ON CONFLICT (key, field) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, key, field, value)
		if err != nil {
			return fmt.Errorf("hset %q field %q: %w", key, field, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("hset %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) Del(ctx context.Context, key string) error {
	defer observeKV(ctx, "kv.del")()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("del %q: %w", key, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM kv_values WHERE key = $1`, key); err != nil {
		return fmt.Errorf("del %q: %w", key, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM kv_fields WHERE key = $1`, key); err != nil {
		return fmt.Errorf("del %q: %w", key, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("del %q: %w", key, err)
	}
	return nil
}

func (p *Postgres) HealthCheck(ctx context.Context) error {
	defer observeKV(ctx, "kv.healthcheck")()
	return p.pool.Ping(ctx)
}

func (p *Postgres) keyIsString(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM kv_values WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("type check %q: %w", key, err)
	}
	return exists, nil
}

func (p *Postgres) keyIsHash(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM kv_fields WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("type check %q: %w", key, err)
	}
	return exists, nil
}
