package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mathieu-neron/vixtube/internal/apperror"
)

const (
	uniqueViolation      = "23505"
	foreignKeyViolation  = "23503"
	checkViolation       = "23514"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// translate maps driver errors onto the apperror taxonomy. what names the
// entity for NotFound messages ("Video", "Playlist"). Serialization failures
// and deadlocks become Conflict since a retry resolves them.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFoundf("%s not found", what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperror.Wrap(apperror.Conflict, err, "%s already exists", what)
		case foreignKeyViolation:
			return apperror.Wrap(apperror.NotFound, err, "referenced %s not found", what)
		case checkViolation:
			return apperror.Wrap(apperror.InvalidArgument, err, "invalid %s", what)
		case serializationFailure, deadlockDetected:
			return apperror.Wrap(apperror.Conflict, err, "concurrent %s update, retry", what)
		}
	}
	return err
}

func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
