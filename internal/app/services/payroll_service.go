package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
	"github.com/yigit/schoolcore/internal/pkg/logger"
	"github.com/yigit/schoolcore/internal/pkg/metrics"
	"github.com/yigit/schoolcore/internal/pkg/validation"
)

// PayrollService defines the interface for the payroll ledger
type PayrollService interface {
	RequestAdvance(ctx context.Context, teacherID int64, month string, amount int64) (*models.PaymentRecord, error)
	DecideAdvance(ctx context.Context, teacherID int64, decision models.AdvanceStatus) (*models.PaymentRecord, error)
	MarkSalaryStatus(ctx context.Context, teacherID int64, month string, status models.SalaryStatus) (*models.PaymentRecord, error)
	RecordsByTeacher(ctx context.Context, teacherID int64, month string, status models.SalaryStatus) ([]models.PaymentRecord, error)
	ListPaymentRecords(ctx context.Context, filter models.PaymentRecordFilter, page, size int) (*dto.PaymentRecordListResponse, error)
	TeachersPaidWithAdvance(ctx context.Context, month string, page, size int) (*dto.PaymentRecordListResponse, error)
}

type payrollServiceImpl struct {
	repos *repositories.Repositories
	tx    *TransactionCoordinator
	log   zerolog.Logger
	now   func() time.Time
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(repos *repositories.Repositories, tx *TransactionCoordinator) PayrollService {
	return &payrollServiceImpl{
		repos: repos,
		tx:    tx,
		log:   logger.WithField("service", "payroll"),
		now:   time.Now,
	}
}

func checkYearMonth(month string) error {
	if !validation.IsYearMonth(month) {
		return fmt.Errorf("%w: month must be YYYY-MM, got %q", apperrors.ErrValidationFailed, month)
	}
	return nil
}

// RequestAdvance opens an advance request against a month's salary. A teacher
// holds at most one pending request.
func (s *payrollServiceImpl) RequestAdvance(ctx context.Context, teacherID int64, month string, amount int64) (*models.PaymentRecord, error) {
	if err := checkYearMonth(month); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperrors.NewValidationError("advance amount must be positive")
	}

	var row *models.PaymentRecord
	err := s.tx.ExecuteAtomic(ctx, "request_advance", func(ctx context.Context) error {
		if _, err := s.repos.Teachers.GetByID(ctx, teacherID); err != nil {
			return err
		}
		var err error
		row, err = s.repos.Payroll.UpsertAdvanceRequest(ctx, teacherID, month, amount, s.now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerOperation("payroll", "advance_request")
	s.log.Info().Int64("teacherId", teacherID).Str("month", month).Int64("amount", amount).Msg("Advance requested")
	return row, nil
}

// DecideAdvance approves or rejects the teacher's pending advance
func (s *payrollServiceImpl) DecideAdvance(ctx context.Context, teacherID int64, decision models.AdvanceStatus) (*models.PaymentRecord, error) {
	if !decision.IsDecision() {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", apperrors.ErrValidationFailed)
	}

	var row *models.PaymentRecord
	err := s.tx.ExecuteAtomic(ctx, "decide_advance", func(ctx context.Context) error {
		pending, err := s.repos.Payroll.PendingAdvance(ctx, teacherID)
		if err != nil {
			return err
		}
		row, err = s.repos.Payroll.SetAdvanceDecision(ctx, pending.ID, decision, s.now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerOperation("payroll", "advance_decision")
	s.log.Info().Int64("teacherId", teacherID).Str("month", row.Month).Str("decision", string(decision)).Msg("Advance decided")
	return row, nil
}

// MarkSalaryStatus upserts the salary status of (teacher, month)
func (s *payrollServiceImpl) MarkSalaryStatus(ctx context.Context, teacherID int64, month string, status models.SalaryStatus) (*models.PaymentRecord, error) {
	if err := checkYearMonth(month); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid salary status %q", apperrors.ErrValidationFailed, status)
	}

	var row *models.PaymentRecord
	err := s.tx.ExecuteAtomic(ctx, "mark_salary_status", func(ctx context.Context) error {
		if _, err := s.repos.Teachers.GetByID(ctx, teacherID); err != nil {
			return err
		}
		var err error
		row, err = s.repos.Payroll.UpsertSalaryStatus(ctx, teacherID, month, status)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerOperation("payroll", "salary_status")
	return row, nil
}

// RecordsByTeacher lists a teacher's payroll rows, optionally narrowed by month and status
func (s *payrollServiceImpl) RecordsByTeacher(ctx context.Context, teacherID int64, month string, status models.SalaryStatus) ([]models.PaymentRecord, error) {
	if month != "" {
		if err := checkYearMonth(month); err != nil {
			return nil, err
		}
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: invalid salary status %q", apperrors.ErrValidationFailed, status)
	}
	if _, err := s.repos.Teachers.GetByID(ctx, teacherID); err != nil {
		return nil, err
	}

	rows, err := s.repos.Payroll.List(ctx, models.PaymentRecordFilter{
		TeacherID: &teacherID,
		Month:     month,
		Status:    status,
	})
	if err != nil {
		return nil, fmt.Errorf("error getting payment records: %w", err)
	}
	return rows, nil
}

// ListPaymentRecords pages the payroll rows of one month, optionally narrowed
// by salary status and advance status
func (s *payrollServiceImpl) ListPaymentRecords(ctx context.Context, filter models.PaymentRecordFilter, page, size int) (*dto.PaymentRecordListResponse, error) {
	if err := checkYearMonth(filter.Month); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid salary status %q", apperrors.ErrValidationFailed, filter.Status)
	}
	if filter.AdvanceStatus != "" && !filter.AdvanceStatus.Valid() {
		return nil, fmt.Errorf("%w: invalid advance status %q", apperrors.ErrValidationFailed, filter.AdvanceStatus)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	rows, total, err := s.repos.Payroll.Page(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting payment records: %w", err)
	}
	return &dto.PaymentRecordListResponse{
		Records:        rows,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// TeachersPaidWithAdvance pages the paid rows of month that carry an approved advance
func (s *payrollServiceImpl) TeachersPaidWithAdvance(ctx context.Context, month string, page, size int) (*dto.PaymentRecordListResponse, error) {
	return s.ListPaymentRecords(ctx, models.PaymentRecordFilter{
		Month:         month,
		Status:        models.SalaryPaid,
		AdvanceStatus: models.AdvanceApproved,
	}, page, size)
}
