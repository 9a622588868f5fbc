package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

var (
	errFeeNotFound           = apperrors.NewResourceNotFoundError("fee record not found")
	errPaymentRecordNotFound = apperrors.NewResourceNotFoundError("payment record not found")
)

// FeeRepository is the fee ledger
type FeeRepository struct {
	s *Store
}

// UpsertStatus writes the status of (student, month). Nil optional fields keep
// their stored value.
func (r *FeeRepository) UpsertStatus(ctx context.Context, in models.FeePaymentUpsert) (*models.FeePayment, error) {
	var out models.FeePayment
	err := r.s.write(ctx, func(st *state) error {
		now := r.s.clock()
		key := feeKey{studentID: in.StudentID, month: in.Month}
		row, ok := st.fees[key]
		if !ok {
			row = models.FeePayment{
				ID:         st.newID(),
				StudentID:  in.StudentID,
				Month:      in.Month,
				BaseAmount: in.BaseAmount,
				CreatedAt:  now,
			}
		}
		row.Status = in.Status
		if in.PaymentDate != nil {
			d := *in.PaymentDate
			row.PaymentDate = &d
		}
		if in.Notes != nil {
			n := *in.Notes
			row.Notes = &n
		}
		if in.IsAdvancePayment != nil {
			row.IsAdvancePayment = *in.IsAdvancePayment
		}
		if in.FinePaid != nil {
			row.FinePaid = *in.FinePaid
		}
		row.UpdatedAt = now
		st.fees[key] = row
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddLateFine increments the late fine of (student, month), creating the row if needed
func (r *FeeRepository) AddLateFine(ctx context.Context, in models.LateFineUpsert) (*models.FeePayment, error) {
	var out models.FeePayment
	err := r.s.write(ctx, func(st *state) error {
		now := r.s.clock()
		key := feeKey{studentID: in.StudentID, month: in.Month}
		row, ok := st.fees[key]
		if !ok {
			row = models.FeePayment{
				ID:         st.newID(),
				StudentID:  in.StudentID,
				Month:      in.Month,
				Status:     models.FeeNotPaid,
				BaseAmount: in.BaseAmount,
				CreatedAt:  now,
			}
		}
		row.LateFine = true
		row.LateFineAmount += in.Fine
		row.UpdatedAt = now
		st.fees[key] = row
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the fee row of (student, month)
func (r *FeeRepository) Get(ctx context.Context, studentID int64, month string) (*models.FeePayment, error) {
	var out models.FeePayment
	err := r.s.read(ctx, func(st *state) error {
		row, ok := st.fees[feeKey{studentID: studentID, month: month}]
		if !ok {
			return errFeeNotFound
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByStudent returns the fee history of a student, newest first
func (r *FeeRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.FeePayment, error) {
	var out []models.FeePayment
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.FeePayment, 0)
		for _, row := range st.fees {
			if row.StudentID == studentID {
				out = append(out, row)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
		return nil
	})
	return out, err
}

// ListByStudentsMonth returns the fee rows of several students for one month
func (r *FeeRepository) ListByStudentsMonth(ctx context.Context, studentIDs []int64, month string) ([]models.FeePayment, error) {
	var out []models.FeePayment
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.FeePayment, 0, len(studentIDs))
		for _, id := range uniqueSorted(studentIDs) {
			if row, ok := st.fees[feeKey{studentID: id, month: month}]; ok {
				out = append(out, row)
			}
		}
		return nil
	})
	return out, err
}

// uniqueSorted dedupes and orders student ids
func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return sortedKeys(seen, nil)
}

// PayrollRepository is the payroll ledger
type PayrollRepository struct {
	s *Store
}

func (st *state) pendingAdvance(teacherID int64) (models.PaymentRecord, bool) {
	for _, row := range st.payroll {
		if row.TeacherID == teacherID && row.AdvanceStatus == models.AdvancePending {
			return row, true
		}
	}
	return models.PaymentRecord{}, false
}

func newPaymentRecord(st *state, teacherID int64, month string, now time.Time) models.PaymentRecord {
	return models.PaymentRecord{
		ID:            st.newID(),
		TeacherID:     teacherID,
		Month:         month,
		Status:        models.SalaryUnpaid,
		AdvanceStatus: models.AdvanceNone,
		CreatedAt:     now,
	}
}

// UpsertSalaryStatus writes the salary status of (teacher, month)
func (r *PayrollRepository) UpsertSalaryStatus(ctx context.Context, teacherID int64, month string, status models.SalaryStatus) (*models.PaymentRecord, error) {
	var out models.PaymentRecord
	err := r.s.write(ctx, func(st *state) error {
		now := r.s.clock()
		key := payrollKey{teacherID: teacherID, month: month}
		row, ok := st.payroll[key]
		if !ok {
			row = newPaymentRecord(st, teacherID, month, now)
		}
		row.Status = status
		row.UpdatedAt = now
		st.payroll[key] = row
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertAdvanceRequest opens a pending advance on (teacher, month). A month
// whose advance is pending or approved, or a teacher with a pending advance
// elsewhere, is a conflict.
func (r *PayrollRepository) UpsertAdvanceRequest(ctx context.Context, teacherID int64, month string, amount int64, at time.Time) (*models.PaymentRecord, error) {
	var out models.PaymentRecord
	err := r.s.write(ctx, func(st *state) error {
		now := r.s.clock()
		key := payrollKey{teacherID: teacherID, month: month}
		row, ok := st.payroll[key]
		if ok && row.AdvanceStatus != models.AdvanceNone && row.AdvanceStatus != models.AdvanceRejected {
			return conflict("advance already requested for this month")
		}
		if _, pending := st.pendingAdvance(teacherID); pending {
			return conflict("teacher already has a pending advance request")
		}
		if !ok {
			row = newPaymentRecord(st, teacherID, month, now)
		}
		requested := at
		row.AdvancePayRequest = true
		row.AdvanceAmount = amount
		row.AdvanceRequestDate = &requested
		row.AdvanceStatus = models.AdvancePending
		row.AdvanceApprovalDate = nil
		row.UpdatedAt = now
		st.payroll[key] = row
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the record of (teacher, month)
func (r *PayrollRepository) Get(ctx context.Context, teacherID int64, month string) (*models.PaymentRecord, error) {
	var out models.PaymentRecord
	err := r.s.read(ctx, func(st *state) error {
		row, ok := st.payroll[payrollKey{teacherID: teacherID, month: month}]
		if !ok {
			return errPaymentRecordNotFound
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingAdvance returns the teacher's single pending advance
func (r *PayrollRepository) PendingAdvance(ctx context.Context, teacherID int64) (*models.PaymentRecord, error) {
	var out models.PaymentRecord
	err := r.s.read(ctx, func(st *state) error {
		row, ok := st.pendingAdvance(teacherID)
		if !ok {
			return apperrors.ErrPendingAdvanceMissing
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetAdvanceDecision closes a pending advance
func (r *PayrollRepository) SetAdvanceDecision(ctx context.Context, id int64, decision models.AdvanceStatus, at time.Time) (*models.PaymentRecord, error) {
	var out models.PaymentRecord
	err := r.s.write(ctx, func(st *state) error {
		for key, row := range st.payroll {
			if row.ID != id || row.AdvanceStatus != models.AdvancePending {
				continue
			}
			decided := at
			row.AdvanceStatus = decision
			row.AdvanceApprovalDate = &decided
			row.UpdatedAt = r.s.clock()
			st.payroll[key] = row
			out = row
			return nil
		}
		return apperrors.ErrPendingAdvanceMissing
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// paymentRecordFilter matches rows the way the SQL WHERE clause does
type paymentRecordFilter models.PaymentRecordFilter

func (f paymentRecordFilter) match(row models.PaymentRecord) bool {
	switch {
	case f.TeacherID != nil && row.TeacherID != *f.TeacherID:
		return false
	case f.Month != "" && row.Month != f.Month:
		return false
	case f.Status != "" && row.Status != f.Status:
		return false
	case f.AdvanceStatus != "" && row.AdvanceStatus != f.AdvanceStatus:
		return false
	}
	return true
}

// List returns records matching filter, newest month first
func (r *PayrollRepository) List(ctx context.Context, filter models.PaymentRecordFilter) ([]models.PaymentRecord, error) {
	var out []models.PaymentRecord
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.PaymentRecord, 0)
		for _, row := range st.payroll {
			if paymentRecordFilter(filter).match(row) {
				out = append(out, row)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Month != out[j].Month {
				return out[i].Month > out[j].Month
			}
			return out[i].TeacherID < out[j].TeacherID
		})
		return nil
	})
	return out, err
}

// Page returns one page of the records matching filter and their total count
func (r *PayrollRepository) Page(ctx context.Context, filter models.PaymentRecordFilter, offset uint64, limit int) ([]models.PaymentRecord, int64, error) {
	all, err := r.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}
