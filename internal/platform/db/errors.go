package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mobileshop/billing/internal/shared"
)

const (
	codeUndefinedTable  = "42P01"
	codeUniqueViolation = "23505"
)

// Classify maps driver errors onto the shared error taxonomy. The original error
// stays in the chain.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", shared.ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUndefinedTable:
			return fmt.Errorf("%w: %s: %w", shared.ErrSchemaMissing, pgErr.TableName, err)
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s: %w", shared.ErrValidation, pgErr.ConstraintName, err)
		default:
			// class 40 (rollback), 25 (invalid tx state) and every other server error
			return fmt.Errorf("%w: %w", shared.ErrTransactionAborted, err)
		}
	}
	return err
}
