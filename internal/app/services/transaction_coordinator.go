package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/dberrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
	"github.com/yigit/schoolcore/internal/pkg/metrics"
)

// TransactionCoordinator runs named units of work. Every repository call made
// with the context handed to fn joins the unit. A context that already carries
// a unit runs fn inline, so operations compose without nested commits.
type TransactionCoordinator struct {
	tx  repositories.Transactor
	log zerolog.Logger
}

// NewTransactionCoordinator creates a coordinator over a transactor
func NewTransactionCoordinator(tx repositories.Transactor) *TransactionCoordinator {
	return &TransactionCoordinator{
		tx:  tx,
		log: logger.Component("unit_of_work"),
	}
}

// ExecuteAtomic commits fn's writes when it returns nil and discards them otherwise.
// Failures are not retried; store level races surface as conflicts the caller may resubmit.
func (c *TransactionCoordinator) ExecuteAtomic(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	started := time.Now()
	err := classifyStoreError(c.tx.WithinTransaction(ctx, fn))
	metrics.ObserveUnitOfWork(name, started, err)

	if err != nil {
		event := c.log.Debug()
		if apperrors.CategoryOf(err) == apperrors.CategoryInternal {
			event = c.log.Error()
		}
		event.Err(err).Str("unit", name).Dur("elapsed", time.Since(started)).Msg("Unit of work aborted")
		return err
	}
	return nil
}

// classifyStoreError maps raw store failures that escaped the repositories,
// such as a serialization failure reported at commit, onto the taxonomy.
func classifyStoreError(err error) error {
	if err == nil || apperrors.CategoryOf(err) != apperrors.CategoryInternal {
		return err
	}

	switch {
	case dberrors.IsRetryable(err):
		ce := apperrors.NewConflictError("concurrent modification, retry the request")
		ce.Cause = err
		return ce
	case dberrors.IsUniqueViolation(err):
		ce := apperrors.NewConflictError("duplicate key")
		ce.Cause = err
		return ce
	case errors.Is(err, context.DeadlineExceeded):
		ce := apperrors.NewConflictError("transaction timed out, retry the request")
		ce.Cause = err
		return ce
	}
	return err
}
