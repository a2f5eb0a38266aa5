// Package postgres implements every internal/ports repository interface
// against PostgreSQL, mirroring the teacher's
// internal/adapters/postgres/<entity>/<entity>.postgresql.go shape: a
// *PostgreSQLModel per entity with FromEntity/ToEntity conversion, raw SQL
// with explicit column lists for single-row operations, squirrel for
// dynamic list filters, and *pgconn.PgError constraint-name mapping into
// this engine's apperr sentinels.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bxcodec/dbresolver/v2"

	"github.com/LerianStudio/ledger-engine/pkg/apperr"
	"github.com/LerianStudio/ledger-engine/pkg/mlog"
)

// Connection is a hub which deals with postgres primary/replica connections,
// mirroring common/mpostgres.PostgresConnection. Write-path repositories use
// GetDB and always land on the primary inside a TxRunner transaction; the
// query layer is free to let dbresolver route plain reads to a replica.
type Connection struct {
	PrimaryDSN string
	ReplicaDSN string

	MaxOpenConns int
	MaxIdleConns int

	db        dbresolver.DB
	connected bool
}

// Connect opens the primary and replica pools and wires them behind a single
// round-robin dbresolver.DB. It does not run migrations; those are applied
// separately by cmd/migrate so a server process never races a migration
// against its own startup.
func (c *Connection) Connect(ctx context.Context) error {
	logger := mlog.FromContext(ctx)

	primary, err := sql.Open("pgx", c.PrimaryDSN)
	if err != nil {
		return fmt.Errorf("open primary database: %w", err)
	}

	replica, err := sql.Open("pgx", c.replicaDSN())
	if err != nil {
		return fmt.Errorf("open replica database: %w", err)
	}

	for _, pool := range []*sql.DB{primary, replica} {
		if c.MaxOpenConns > 0 {
			pool.SetMaxOpenConns(c.MaxOpenConns)
		}

		if c.MaxIdleConns > 0 {
			pool.SetMaxIdleConns(c.MaxIdleConns)
		}
	}

	c.db = dbresolver.New(
		dbresolver.WithPrimaryDBs(primary),
		dbresolver.WithReplicaDBs(replica),
		dbresolver.WithLoadBalancer(dbresolver.RoundRobinLB),
	)

	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	c.connected = true

	logger.Info("connected to postgres")

	return nil
}

// replicaDSN falls back to the primary DSN when no replica is configured, so
// a single-node deployment never needs two DSNs.
func (c *Connection) replicaDSN() string {
	if c.ReplicaDSN == "" {
		return c.PrimaryDSN
	}

	return c.ReplicaDSN
}

// GetDB returns the resolver-backed handle, connecting lazily on first use.
func (c *Connection) GetDB(ctx context.Context) (dbresolver.DB, error) {
	if !c.connected {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return c.db, nil
}

// execer is the subset of *sql.DB / *sql.Tx / dbresolver.DB every repository
// needs; TxRunner swaps in a *sql.Tx via context so a repository method never
// has to know whether it is inside one.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txContextKey struct{}

// execerFromContext returns the active transaction if TxRunner.Run put one
// on ctx, otherwise the resolver handle itself (used by read-only query-layer
// callers that never open a transaction).
func execerFromContext(ctx context.Context, conn *Connection) (execer, error) {
	if tx, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return tx, nil
	}

	db, err := conn.GetDB(ctx)
	if err != nil {
		return nil, apperr.Database("Storage", err)
	}

	return db, nil
}

// TxRunner implements command.TxRunner against Connection: it opens one
// serializable transaction on the primary, stashes it on ctx so every
// repository call inside fn reuses it, and commits on a nil return.
type TxRunner struct {
	Conn *Connection
}

// NewTxRunner builds a TxRunner over conn.
func NewTxRunner(conn *Connection) *TxRunner {
	return &TxRunner{Conn: conn}
}

// Run executes fn inside one storage transaction.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	db, err := r.Conn.GetDB(ctx)
	if err != nil {
		return apperr.Database("Storage", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return apperr.Database("Storage", fmt.Errorf("begin transaction: %w", err))
	}

	txCtx := context.WithValue(ctx, txContextKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			mlog.FromContext(ctx).Errorf("rollback after command error: %v", rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return apperr.Database("Storage", fmt.Errorf("commit transaction: %w", err))
	}

	return nil
}
