package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories care about.
const (
	UniqueViolation      = "23505"
	ForeignKeyViolation  = "23503"
	CheckViolation       = "23514"
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
)

func pgCode(err error) (string, string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.Code, pgErr.ConstraintName, true
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	code, constraint, ok := pgCode(err)
	return ok && code == UniqueViolation && constraint == constraintName
}

// IsUniqueViolation reports any unique violation, whatever the constraint.
func IsUniqueViolation(err error) bool {
	code, _, ok := pgCode(err)
	return ok && code == UniqueViolation
}

// IsForeignKeyViolation reports a dangling reference.
func IsForeignKeyViolation(err error) bool {
	code, _, ok := pgCode(err)
	return ok && code == ForeignKeyViolation
}

// IsCheckViolation reports a failed CHECK constraint.
func IsCheckViolation(err error) bool {
	code, _, ok := pgCode(err)
	return ok && code == CheckViolation
}

// IsRetryable reports write conflicts the caller may resubmit.
func IsRetryable(err error) bool {
	code, _, ok := pgCode(err)
	return ok && (code == SerializationFailure || code == DeadlockDetected)
}

// ConstraintName returns the violated constraint, if any.
func ConstraintName(err error) string {
	_, constraint, _ := pgCode(err)
	return constraint
}
