package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"joiny/internal/domain"
)

// Postgres error codes mapped to domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// psql builds statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return db, nil
}

// dbtx is satisfied by both *sqlx.DB and *sqlx.Tx.
type dbtx interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type txKey struct{}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *sqlx.DB) dbtx {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

type txManager struct {
	db *sqlx.DB
}

// NewTxManager returns a TxManager that binds an sqlx transaction to the context.
func NewTxManager(db *sqlx.DB) domain.TxManager {
	return &txManager{db: db}
}

// WithinTx runs fn in a transaction. A nested call joins the outer transaction.
func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}

// rowsAffectedOrNotFound maps a zero-row write to ErrNotFound.
func rowsAffectedOrNotFound(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
