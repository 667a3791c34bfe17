package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ErrForeignKeyViolation is returned when a write references a missing row
// or a delete would orphan dependent rows.
var ErrForeignKeyViolation = errors.New("foreign key violation")

// DBTX is the subset of pgx shared by *pgxpool.Pool, pgx.Tx and pgxmock
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DuplicateError reports a unique constraint violation on Field
type DuplicateError struct {
	Constraint string
	Field      string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s (%s)", e.Field, e.Constraint)
}

// constraintField turns "categories_name_key" into "name" and any primary
// key constraint such as "product_variants_pkey" into "id"
func constraintField(constraint string) string {
	if strings.HasSuffix(constraint, "_pkey") {
		return "id"
	}
	name := strings.TrimSuffix(constraint, "_key")
	if i := strings.LastIndex(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// wrapError classifies PostgreSQL constraint errors and wraps the rest
func wrapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &DuplicateError{Constraint: pgErr.ConstraintName, Field: constraintField(pgErr.ConstraintName)}
		case pgForeignKeyViolation:
			return fmt.Errorf("failed to %s: %w (%s)", op, ErrForeignKeyViolation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// inTx runs fn inside a transaction, rolling back when fn fails
func inTx(ctx context.Context, db DBTX, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
