package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

func TestMarkPaymentStatusConverges(t *testing.T) {
	f := newFixture(t)
	class := f.class("Class A", 1000, 500)
	s := f.student("amir", class.ID, models.GenderMale)

	first, err := f.svc.FeeLedger.MarkPaymentStatus(f.ctx, dto.MarkFeeStatusRequest{
		StudentID: s.ID, Month: "march", Status: models.FeeNotPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, "March", first.Month)
	assert.Equal(t, int64(1000), first.BaseAmount)

	paidOn := testNow.Add(-time.Hour)
	second, err := f.svc.FeeLedger.MarkPaymentStatus(f.ctx, dto.MarkFeeStatusRequest{
		StudentID: s.ID, Month: "MARCH", Status: models.FeePaid, PaymentDate: &paidOn,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.FeePaid, second.Status)

	history, err := f.svc.FeeLedger.FeeHistoryByStudent(f.ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, history, 1, "one row per student and month")
	assert.Equal(t, models.FeePaid, history[0].Status)
}

func TestMarkPaymentStatusValidation(t *testing.T) {
	f := newFixture(t)
	class := f.class("Class A", 1000, 500)
	s := f.student("amir", class.ID, models.GenderMale)
	future := testNow.Add(24 * time.Hour)

	tests := []struct {
		name    string
		req     dto.MarkFeeStatusRequest
		wantErr error
	}{
		{"unknown month", dto.MarkFeeStatusRequest{StudentID: s.ID, Month: "Marchuary", Status: models.FeePaid}, apperrors.ErrValidationFailed},
		{"unknown status", dto.MarkFeeStatusRequest{StudentID: s.ID, Month: "May", Status: "waived"}, apperrors.ErrValidationFailed},
		{"future payment date", dto.MarkFeeStatusRequest{StudentID: s.ID, Month: "May", Status: models.FeePaid, PaymentDate: &future}, apperrors.ErrValidationFailed},
		{"unknown student", dto.MarkFeeStatusRequest{StudentID: 999, Month: "May", Status: models.FeePaid}, apperrors.ErrResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.FeeLedger.MarkPaymentStatus(f.ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestImposeLateFineIsCumulative(t *testing.T) {
	f := newFixture(t)
	class := f.class("Class A", 1000, 500)
	s := f.student("amir", class.ID, models.GenderMale)

	row, err := f.svc.FeeLedger.ImposeLateFine(f.ctx, s.ID, "march")
	require.NoError(t, err)
	assert.True(t, row.LateFine)
	assert.Equal(t, int64(500), row.LateFineAmount)
	assert.Equal(t, models.FeeNotPaid, row.Status)

	row, err = f.svc.FeeLedger.ImposeLateFine(f.ctx, s.ID, "March")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), row.LateFineAmount, "each imposition adds the fine again")
	assert.Equal(t, int64(2000), row.TotalAmount())
}

func TestImposeLateFineRejects(t *testing.T) {
	f := newFixture(t)
	noFine := f.class("Free", 1000, 0)
	s := f.student("amir", noFine.ID, models.GenderMale)

	_, err := f.svc.FeeLedger.ImposeLateFine(f.ctx, s.ID, "March")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.FeeLedger.ImposeLateFine(f.ctx, 999, "March")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.svc.FeeLedger.ImposeLateFine(f.ctx, s.ID, "Smarch")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestImposeLateFinesForMonthSkipsPaid(t *testing.T) {
	f := newFixture(t)
	class := f.class("Class A", 1000, 500)
	free := f.class("Class B", 800, 0)
	paid := f.student("paid", class.ID, models.GenderMale)
	late := f.student("late", class.ID, models.GenderFemale)
	f.student("exempt", free.ID, models.GenderFemale)

	_, err := f.svc.FeeLedger.MarkPaymentStatus(f.ctx, dto.MarkFeeStatusRequest{StudentID: paid.ID, Month: "March", Status: models.FeePaid})
	require.NoError(t, err)

	n, err := f.svc.FeeLedger.ImposeLateFinesForMonth(f.ctx, "March")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	statuses, err := f.svc.FeeLedger.FeeStatusByClass(f.ctx, class.ID, "March")
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, st := range statuses {
		switch st.StudentID {
		case paid.ID:
			assert.Equal(t, models.FeePaid, st.Status)
			assert.False(t, st.LateFine)
		case late.ID:
			assert.Equal(t, models.FeeNotPaid, st.Status)
			assert.True(t, st.LateFine)
			assert.Equal(t, int64(1500), st.TotalAmount)
		}
	}
}

func TestFeeStatusByClassDefaultsMissingRows(t *testing.T) {
	f := newFixture(t)
	class := f.class("Class A", 1000, 500)
	s := f.student("amir", class.ID, models.GenderMale)

	statuses, err := f.svc.FeeLedger.FeeStatusByClass(f.ctx, class.ID, "April")
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, dto.ClassFeeStatusEntry{
		StudentID:   s.ID,
		StudentName: "amir",
		Status:      models.FeeNotPaid,
		TotalAmount: 1000,
	}, statuses[0])
}

func TestAdvanceRequestWorkflow(t *testing.T) {
	f := newFixture(t)
	tc := f.teacher("tara")

	row, err := f.svc.Payroll.RequestAdvance(f.ctx, tc.ID, "2026-03", 1500)
	require.NoError(t, err)
	assert.True(t, row.AdvancePayRequest)
	assert.Equal(t, models.AdvancePending, row.AdvanceStatus)
	assert.Equal(t, models.SalaryUnpaid, row.Status)

	t.Run("second pending request conflicts", func(t *testing.T) {
		_, err := f.svc.Payroll.RequestAdvance(f.ctx, tc.ID, "2026-04", 100)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := f.svc.Payroll.RequestAdvance(f.ctx, tc.ID, "March", 100)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		_, err = f.svc.Payroll.RequestAdvance(f.ctx, tc.ID, "2026-05", 0)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		_, err = f.svc.Payroll.DecideAdvance(f.ctx, tc.ID, models.AdvancePending)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	decided, err := f.svc.Payroll.DecideAdvance(f.ctx, tc.ID, models.AdvanceApproved)
	require.NoError(t, err)
	assert.Equal(t, models.AdvanceApproved, decided.AdvanceStatus)
	require.NotNil(t, decided.AdvanceApprovalDate)
	assert.True(t, decided.AdvanceApprovalDate.Equal(testNow))

	_, err = f.svc.Payroll.DecideAdvance(f.ctx, tc.ID, models.AdvanceRejected)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound, "nothing pending any more")

	_, err = f.svc.Payroll.RequestAdvance(f.ctx, tc.ID, "2026-03", 200)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "approved month cannot be re-requested")

	paid, err := f.svc.Payroll.TeachersPaidWithAdvance(f.ctx, "2026-03", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, paid.Records)

	_, err = f.svc.Payroll.MarkSalaryStatus(f.ctx, tc.ID, "2026-03", models.SalaryPaid)
	require.NoError(t, err)

	paid, err = f.svc.Payroll.TeachersPaidWithAdvance(f.ctx, "2026-03", 1, 10)
	require.NoError(t, err)
	require.Len(t, paid.Records, 1)
	assert.Equal(t, tc.ID, paid.Records[0].TeacherID)
	assert.Equal(t, int64(1500), paid.Records[0].AdvanceAmount)
}

func TestListPaymentRecordsFilters(t *testing.T) {
	f := newFixture(t)
	approved := f.teacher("ada")
	rejected := f.teacher("bora")
	plain := f.teacher("cem")
	other := f.teacher("dila")

	for _, tc := range []*models.Teacher{approved, rejected} {
		_, err := f.svc.Payroll.RequestAdvance(f.ctx, tc.ID, "2026-03", 300)
		require.NoError(t, err)
	}
	_, err := f.svc.Payroll.DecideAdvance(f.ctx, approved.ID, models.AdvanceApproved)
	require.NoError(t, err)
	_, err = f.svc.Payroll.DecideAdvance(f.ctx, rejected.ID, models.AdvanceRejected)
	require.NoError(t, err)
	for _, tc := range []*models.Teacher{approved, rejected, plain} {
		_, err := f.svc.Payroll.MarkSalaryStatus(f.ctx, tc.ID, "2026-03", models.SalaryPaid)
		require.NoError(t, err)
	}
	_, err = f.svc.Payroll.MarkSalaryStatus(f.ctx, other.ID, "2026-02", models.SalaryPaid)
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter models.PaymentRecordFilter
		want   []int64
	}{
		{"whole month", models.PaymentRecordFilter{Month: "2026-03"}, []int64{approved.ID, rejected.ID, plain.ID}},
		{"approved advances", models.PaymentRecordFilter{Month: "2026-03", AdvanceStatus: models.AdvanceApproved}, []int64{approved.ID}},
		{"rejected advances", models.PaymentRecordFilter{Month: "2026-03", AdvanceStatus: models.AdvanceRejected}, []int64{rejected.ID}},
		{"no advance", models.PaymentRecordFilter{Month: "2026-03", AdvanceStatus: models.AdvanceNone}, []int64{plain.ID}},
		{"unpaid", models.PaymentRecordFilter{Month: "2026-03", Status: models.SalaryUnpaid}, []int64{}},
		{"other month", models.PaymentRecordFilter{Month: "2026-02"}, []int64{other.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.Payroll.ListPaymentRecords(f.ctx, tt.filter, 1, 10)
			require.NoError(t, err)
			got := make([]int64, 0, len(resp.Records))
			for _, r := range resp.Records {
				got = append(got, r.TeacherID)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int64(len(tt.want)), resp.TotalItems)
		})
	}

	t.Run("pages", func(t *testing.T) {
		resp, err := f.svc.Payroll.ListPaymentRecords(f.ctx, models.PaymentRecordFilter{Month: "2026-03"}, 2, 2)
		require.NoError(t, err)
		require.Len(t, resp.Records, 1)
		assert.Equal(t, plain.ID, resp.Records[0].TeacherID)
		assert.Equal(t, int64(3), resp.TotalItems)
		assert.Equal(t, 2, resp.TotalPages)
	})

	t.Run("invalid filters", func(t *testing.T) {
		_, err := f.svc.Payroll.ListPaymentRecords(f.ctx, models.PaymentRecordFilter{}, 1, 10)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		_, err = f.svc.Payroll.ListPaymentRecords(f.ctx, models.PaymentRecordFilter{Month: "2026-03", AdvanceStatus: "maybe"}, 1, 10)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestMarkSalaryStatusUpserts(t *testing.T) {
	f := newFixture(t)
	tc := f.teacher("tara")

	for _, status := range []models.SalaryStatus{models.SalaryPending, models.SalaryPaid} {
		_, err := f.svc.Payroll.MarkSalaryStatus(f.ctx, tc.ID, "2026-02", status)
		require.NoError(t, err)
	}

	rows, err := f.svc.Payroll.RecordsByTeacher(f.ctx, tc.ID, "", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.SalaryPaid, rows[0].Status)

	rows, err = f.svc.Payroll.RecordsByTeacher(f.ctx, tc.ID, "", models.SalaryUnpaid)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = f.svc.Payroll.MarkSalaryStatus(f.ctx, tc.ID, "2026-02", "bonus")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = f.svc.Payroll.MarkSalaryStatus(f.ctx, 999, "2026-02", models.SalaryPaid)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
