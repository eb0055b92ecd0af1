package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConcurrencyConflict means a guarded update lost the race against a
	// concurrent writer. Safe to retry from a fresh read.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")

	// ErrDuplicateAward means the (uid, event, context_id) ledger key already
	// exists. The caller answers the request from the existing row.
	ErrDuplicateAward = errors.New("duplicate xp award")
)

// isUniqueViolation recognizes unique-index violations from both backends:
// pgconn surfaces SQLSTATE 23505, the sqlite driver only a message.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
