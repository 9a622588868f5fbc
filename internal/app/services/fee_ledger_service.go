package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
	"github.com/yigit/schoolcore/internal/pkg/metrics"
	"github.com/yigit/schoolcore/internal/pkg/validation"
)

// FeeLedgerService defines the interface for the fee ledger
type FeeLedgerService interface {
	MarkPaymentStatus(ctx context.Context, req dto.MarkFeeStatusRequest) (*models.FeePayment, error)
	ImposeLateFine(ctx context.Context, studentID int64, month string) (*models.FeePayment, error)
	ImposeLateFinesForMonth(ctx context.Context, month string) (int, error)
	FeeHistoryByStudent(ctx context.Context, studentID int64) ([]models.FeePayment, error)
	FeeStatusByClass(ctx context.Context, classID int64, month string) ([]dto.ClassFeeStatusEntry, error)
}

type feeLedgerServiceImpl struct {
	repos *repositories.Repositories
	tx    *TransactionCoordinator
	log   zerolog.Logger
	now   func() time.Time
}

// NewFeeLedgerService creates a new FeeLedgerService
func NewFeeLedgerService(repos *repositories.Repositories, tx *TransactionCoordinator) FeeLedgerService {
	return &feeLedgerServiceImpl{
		repos: repos,
		tx:    tx,
		log:   logger.WithField("service", "fee_ledger"),
		now:   time.Now,
	}
}

func canonicalMonth(month string) (string, error) {
	canonical, ok := validation.CanonicalMonth(month)
	if !ok {
		return "", fmt.Errorf("%w: invalid month %q", apperrors.ErrValidationFailed, month)
	}
	return canonical, nil
}

// MarkPaymentStatus upserts the fee row of (student, month). The base amount is
// the class fee at the time the row is first written.
func (s *feeLedgerServiceImpl) MarkPaymentStatus(ctx context.Context, req dto.MarkFeeStatusRequest) (*models.FeePayment, error) {
	month, err := canonicalMonth(req.Month)
	if err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid fee status %q", apperrors.ErrValidationFailed, req.Status)
	}
	if req.PaymentDate != nil && req.PaymentDate.After(s.now()) {
		return nil, apperrors.NewValidationError("payment date cannot be in the future")
	}

	var row *models.FeePayment
	err = s.tx.ExecuteAtomic(ctx, "mark_fee_status", func(ctx context.Context) error {
		student, err := s.repos.Students.GetByID(ctx, req.StudentID)
		if err != nil {
			return err
		}

		var base int64
		if student.ClassID != nil {
			class, err := s.repos.Classes.GetByID(ctx, *student.ClassID)
			if err != nil {
				return fmt.Errorf("error getting student's class: %w", err)
			}
			base = class.Fee
		}

		row, err = s.repos.Fees.UpsertStatus(ctx, models.FeePaymentUpsert{
			StudentID:        student.ID,
			Month:            month,
			Status:           req.Status,
			BaseAmount:       base,
			PaymentDate:      req.PaymentDate,
			Notes:            req.Notes,
			IsAdvancePayment: req.IsAdvancePayment,
			FinePaid:         req.FinePaid,
		})
		if err != nil {
			return fmt.Errorf("error upserting fee status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerOperation("fee", "mark_status")
	s.log.Info().Int64("studentId", row.StudentID).Str("month", row.Month).Str("status", string(row.Status)).Msg("Fee status marked")
	return row, nil
}

// ImposeLateFine adds the class late fine to the student's month. Every call adds
// the fine again, so imposing twice charges twice.
func (s *feeLedgerServiceImpl) ImposeLateFine(ctx context.Context, studentID int64, month string) (*models.FeePayment, error) {
	canonical, err := canonicalMonth(month)
	if err != nil {
		return nil, err
	}

	var (
		row      *models.FeePayment
		previous int64
	)
	err = s.tx.ExecuteAtomic(ctx, "impose_late_fine", func(ctx context.Context) error {
		student, err := s.repos.Students.GetByID(ctx, studentID)
		if err != nil {
			return err
		}
		if student.ClassID == nil {
			return apperrors.NewValidationError("student is not assigned to a class")
		}
		class, err := s.repos.Classes.GetByID(ctx, *student.ClassID)
		if err != nil {
			return fmt.Errorf("error getting student's class: %w", err)
		}
		if class.LateFineAmount <= 0 {
			return apperrors.NewValidationError("class has no late fine configured").
				WithDetails(map[string]interface{}{"classId": class.ID})
		}

		current, err := s.repos.Fees.Get(ctx, student.ID, canonical)
		switch {
		case err == nil:
			previous = current.LateFineAmount
		case !errors.Is(err, apperrors.ErrResourceNotFound):
			return fmt.Errorf("error reading fee row: %w", err)
		}

		row, err = s.repos.Fees.AddLateFine(ctx, models.LateFineUpsert{
			StudentID:  student.ID,
			Month:      canonical,
			BaseAmount: class.Fee,
			Fine:       class.LateFineAmount,
		})
		if err != nil {
			return fmt.Errorf("error adding late fine: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.LedgerOperation("fee", "late_fine")
	event := s.log.Info()
	if previous > 0 {
		event = s.log.Warn().Bool("cumulative", true).Int64("previousFine", previous)
	}
	event.Int64("studentId", studentID).
		Str("month", canonical).
		Int64("lateFineAmount", row.LateFineAmount).
		Msg("Late fine imposed")
	return row, nil
}

// ImposeLateFinesForMonth fines every student in a class whose fee for month is
// not paid. Students of classes without a late fine are skipped. Each student is
// its own unit of work; the first failure stops the run.
func (s *feeLedgerServiceImpl) ImposeLateFinesForMonth(ctx context.Context, month string) (int, error) {
	canonical, err := canonicalMonth(month)
	if err != nil {
		return 0, err
	}

	students, err := s.repos.Students.ListAssigned(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing students: %w", err)
	}
	classes, err := s.repos.Classes.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing classes: %w", err)
	}
	fines := make(map[int64]int64, len(classes))
	for _, c := range classes {
		fines[c.ID] = c.LateFineAmount
	}

	ids := make([]int64, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	rows, err := s.repos.Fees.ListByStudentsMonth(ctx, ids, canonical)
	if err != nil {
		return 0, fmt.Errorf("error listing fee rows: %w", err)
	}
	paid := make(map[int64]bool, len(rows))
	for _, r := range rows {
		paid[r.StudentID] = r.Status == models.FeePaid
	}

	imposed := 0
	for _, st := range students {
		if st.ClassID == nil || fines[*st.ClassID] <= 0 || paid[st.ID] {
			continue
		}
		if _, err := s.ImposeLateFine(ctx, st.ID, canonical); err != nil {
			return imposed, fmt.Errorf("error fining student %d: %w", st.ID, err)
		}
		imposed++
	}
	return imposed, nil
}

// FeeHistoryByStudent lists a student's fee rows, newest first
func (s *feeLedgerServiceImpl) FeeHistoryByStudent(ctx context.Context, studentID int64) ([]models.FeePayment, error) {
	if _, err := s.repos.Students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	rows, err := s.repos.Fees.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error getting fee history: %w", err)
	}
	return rows, nil
}

// FeeStatusByClass reports every student of a class for month. Students without
// a row are listed as not paid owing the class fee.
func (s *feeLedgerServiceImpl) FeeStatusByClass(ctx context.Context, classID int64, month string) ([]dto.ClassFeeStatusEntry, error) {
	canonical, err := canonicalMonth(month)
	if err != nil {
		return nil, err
	}

	class, err := s.repos.Classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.repos.Students.ListByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("error getting class students: %w", err)
	}

	ids := make([]int64, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	rows, err := s.repos.Fees.ListByStudentsMonth(ctx, ids, canonical)
	if err != nil {
		return nil, fmt.Errorf("error getting fee rows: %w", err)
	}
	byStudent := make(map[int64]models.FeePayment, len(rows))
	for _, r := range rows {
		byStudent[r.StudentID] = r
	}

	out := make([]dto.ClassFeeStatusEntry, 0, len(students))
	for _, st := range students {
		entry := dto.ClassFeeStatusEntry{
			StudentID:   st.ID,
			StudentName: st.Name,
			Status:      models.FeeNotPaid,
			TotalAmount: class.Fee,
		}
		if r, ok := byStudent[st.ID]; ok {
			entry.Status = r.Status
			entry.TotalAmount = r.TotalAmount()
			entry.LateFine = r.LateFine
		}
		out = append(out, entry)
	}
	return out, nil
}
