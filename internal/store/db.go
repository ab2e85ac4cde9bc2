package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PoolConfig bounds the connection pool.
type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// Table is a query result keeping the database's column names and order.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewDB creates a Postgres connection pool and pings it.
func NewDB(connString string, pool PoolConfig) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	d := Wrap(db, pool)
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// Wrap applies pool bounds to an already opened handle.
func Wrap(db *sql.DB, pool PoolConfig) *DB {
	if pool.MaxOpen <= 0 || pool.MaxOpen > 10 {
		pool.MaxOpen = 10
	}
	if pool.MaxIdle < 1 {
		pool.MaxIdle = 1
	}
	if pool.MaxIdle > pool.MaxOpen {
		pool.MaxIdle = pool.MaxOpen
	}
	if pool.MaxLifetime <= 0 {
		pool.MaxLifetime = time.Hour
	}
	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxLifetime(pool.MaxLifetime)
	return &DB{Client: db}
}

// WithConn checks out a single connection for fn and returns it to the
// pool when fn returns, fails or panics.
func (d *DB) WithConn(ctx context.Context, fn func(*sql.Conn) error) error {
	conn, err := d.Client.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// Query runs a parameterized query and returns every row.
func (d *DB) Query(ctx context.Context, query string, args ...any) (Table, error) {
	var t Table
	err := d.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		t.Columns = cols
		for rows.Next() {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			t.Rows = append(t.Rows, vals)
		}
		return rows.Err()
	})
	return t, err
}

// Exec runs a single statement in its own transaction and commits it.
func (d *DB) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	var affected int64
	err := d.WithConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return affected, err
}

// Healthy verifies database connectivity.
func (d *DB) Healthy(ctx context.Context) bool {
	if d == nil || d.Client == nil {
		return false
	}
	return d.Client.PingContext(ctx) == nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
