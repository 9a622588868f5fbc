package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	unique := &pgconn.PgError{Code: UniqueViolation, ConstraintName: "fee_payments_student_month_key"}
	wrapped := fmt.Errorf("upsert fee payment: %w", unique)

	assert.True(t, IsUniqueViolation(wrapped))
	assert.True(t, IsDuplicateConstraintError(wrapped, "fee_payments_student_month_key"))
	assert.False(t, IsDuplicateConstraintError(wrapped, "other"))
	assert.Equal(t, "fee_payments_student_month_key", ConstraintName(wrapped))

	assert.True(t, IsRetryable(&pgconn.PgError{Code: SerializationFailure}))
	assert.True(t, IsRetryable(&pgconn.PgError{Code: DeadlockDetected}))
	assert.True(t, IsCheckViolation(&pgconn.PgError{Code: CheckViolation}))
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: ForeignKeyViolation}))

	plain := errors.New("plain")
	assert.False(t, IsUniqueViolation(plain))
	assert.False(t, IsRetryable(plain))
	assert.Empty(t, ConstraintName(plain))
}
