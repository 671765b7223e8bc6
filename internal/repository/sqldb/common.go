package sqldb

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jmoiron/sqlx"

	"day-planner/internal/errors"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	return errors.NewDatabaseError(operation, err)
}

// ValidateRowsAffected checks that a statement touched at least one row
func ValidateRowsAffected(result sql.Result, entityType string, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return HandleDatabaseError("get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(entityType, id)
	}
	return nil
}

// Queryer is satisfied by *sqlx.DB and *sqlx.Tx.
type Queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

// QuerySingle runs a query expected to return one row and scans it into T
func QuerySingle[T any](ctx context.Context, q Queryer, query string, entityType string, id string, args ...interface{}) (*T, error) {
	var result T
	if err := sqlx.GetContext(ctx, q, &result, q.Rebind(query), args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError(entityType, id)
		}
		return nil, HandleDatabaseError("scan "+entityType, err)
	}
	return &result, nil
}

// QueryMultiple runs a query and scans every row into a T
func QueryMultiple[T any](ctx context.Context, q Queryer, query string, entityType string, args ...interface{}) ([]T, error) {
	results := make([]T, 0)
	if err := sqlx.SelectContext(ctx, q, &results, q.Rebind(query), args...); err != nil {
		return nil, HandleDatabaseError("query "+entityType, err)
	}
	return results, nil
}

// InTx runs fn inside a transaction, committing only when fn succeeds.
func InTx(ctx context.Context, db *sqlx.DB, operation string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin "+operation, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !stderrors.Is(rbErr, sql.ErrTxDone) {
			return HandleDatabaseError("rollback "+operation, stderrors.Join(err, rbErr))
		}
		return HandleDatabaseError(operation, err)
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit "+operation, err)
	}
	return nil
}
