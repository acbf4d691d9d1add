package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"adoption-server/internal/interfaces"
	"adoption-server/internal/schemas"
)

// BeginTransaction begins a new database transaction for the current request.
// If the transaction fails to begin, it logs and sends an error response and
// returns nil.
func BeginTransaction(ctx *gin.Context, pool interfaces.PgxPoolIface) pgx.Tx {
	LogMessageWithFields(ctx, "debug", "Beginning transaction...")

	tx, err := pool.Begin(ctx)
	if err != nil {
		LogMessageWithFieldsAndError(ctx, "error", "Error beginning transaction", err)
		WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return nil
	}

	return tx
}

// RollbackTransaction rolls back the given transaction if an error occurred.
// A transaction that was already committed is left alone.
func RollbackTransaction(ctx *gin.Context, tx pgx.Tx, err error) {
	if err == nil {
		return
	}

	LogMessageWithFieldsAndError(ctx, "debug", "Rolling back transaction", err)
	if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
		if errors.Is(rollbackErr, pgx.ErrTxClosed) {
			return
		}
		LogMessageWithFieldsAndError(ctx, "error", "Error rolling back transaction", rollbackErr)
	}
}

// CommitTransaction attempts to commit the given transaction.
// If the commit fails, it logs the error, sends an error response, and
// returns the error.
func CommitTransaction(ctx *gin.Context, tx pgx.Tx) error {
	LogMessageWithFields(ctx, "debug", "Committing transaction...")

	if err := tx.Commit(ctx); err != nil {
		LogMessageWithFieldsAndError(ctx, "error", "Error committing transaction", err)
		WriteAndLogError(ctx, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	LogMessageWithFields(ctx, "debug", "Transaction committed")
	return nil
}
