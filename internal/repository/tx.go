package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes surfaced by PostgreSQL that the engine reacts to.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgExclusionViolation   = "23P01"
)

// IsRetryable reports whether the error is a transient serialization
// conflict worth one transparent retry.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

// IsOverlapViolation reports whether the error comes from the
// reservation_segments_no_overlap exclusion constraint.
func IsOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation && pgErr.ConstraintName == "reservation_segments_no_overlap"
	}
	return false
}
