package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

func newTestRepos(t *testing.T) (*Store, context.Context) {
	t.Helper()
	s := NewStore()
	s.SetClock(func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) })
	return s, context.Background()
}

func TestWithinTransactionRollsBackOnError(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repos.Classes.Create(ctx, &models.Class{Name: "Grade 1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	classes, err := repos.Classes.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestWithinTransactionNestedRunsInline(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repos.Classes.Create(ctx, &models.Class{Name: "Grade 1"}))
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			classes, err := repos.Classes.ListAll(ctx)
			require.NoError(t, err)
			assert.Len(t, classes, 1, "inner unit sees outer writes")
			return repos.Classes.Create(ctx, &models.Class{Name: "Grade 2"})
		})
	})
	require.NoError(t, err)

	classes, err := repos.Classes.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, classes, 2)
}

func TestUniqueKeysConflict(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)

	require.NoError(t, repos.Classes.Create(ctx, &models.Class{Name: "Grade 1"}))
	err := repos.Classes.Create(ctx, &models.Class{Name: "Grade 1"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, repos.Teachers.Create(ctx, &models.Teacher{Name: "A", Email: "a@school.test"}))
	err = repos.Teachers.Create(ctx, &models.Teacher{Name: "B", Email: "a@school.test"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestClassTeacherSlotIsOneToOne(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)

	c1 := &models.Class{Name: "Grade 1"}
	c2 := &models.Class{Name: "Grade 2"}
	t1 := &models.Teacher{Name: "A", Email: "a@school.test"}
	t2 := &models.Teacher{Name: "B", Email: "b@school.test"}
	require.NoError(t, repos.Classes.Create(ctx, c1))
	require.NoError(t, repos.Classes.Create(ctx, c2))
	require.NoError(t, repos.Teachers.Create(ctx, t1))
	require.NoError(t, repos.Teachers.Create(ctx, t2))

	require.NoError(t, repos.Relations.SetClassTeacher(ctx, c1.ID, t1.ID))
	assert.ErrorIs(t, repos.Relations.SetClassTeacher(ctx, c1.ID, t2.ID), apperrors.ErrConflict)
	assert.ErrorIs(t, repos.Relations.SetClassTeacher(ctx, c2.ID, t1.ID), apperrors.ErrConflict)
	assert.ErrorIs(t, repos.Relations.SetClassTeacher(ctx, 999, t2.ID), apperrors.ErrResourceNotFound)

	led, ok, err := repos.Relations.ClassLedBy(ctx, t1.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, c1.ID, led)
}

func TestClassDeleteDetachesDependents(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)

	class := &models.Class{Name: "Grade 1"}
	require.NoError(t, repos.Classes.Create(ctx, class))
	teacher := &models.Teacher{Name: "A", Email: "a@school.test"}
	require.NoError(t, repos.Teachers.Create(ctx, teacher))
	student := &models.Student{Name: "S", Email: "s@school.test", ClassID: &class.ID}
	require.NoError(t, repos.Students.Create(ctx, student))
	require.NoError(t, repos.Relations.AddTeacherClasses(ctx, teacher.ID, []int64{class.ID}))
	require.NoError(t, repos.Relations.SetClassTeacher(ctx, class.ID, teacher.ID))

	refs, err := repos.Classes.References(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClassReferences{Students: 1, TeacherAssigned: 1, ClassTeacherLink: 1}, refs)

	require.NoError(t, repos.Classes.Delete(ctx, class.ID))

	got, err := repos.Students.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ClassID)

	tch, err := repos.Teachers.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Nil(t, tch.ClassTeacherOf)
	assert.Empty(t, tch.AssignedClassIDs)
}

func TestLateFineAccumulates(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)

	in := models.LateFineUpsert{StudentID: 1, Month: "March", BaseAmount: 1000, Fine: 50}
	_, err := repos.Fees.AddLateFine(ctx, in)
	require.NoError(t, err)
	fee, err := repos.Fees.AddLateFine(ctx, in)
	require.NoError(t, err)

	assert.True(t, fee.LateFine)
	assert.Equal(t, int64(100), fee.LateFineAmount)
	assert.Equal(t, int64(1100), fee.TotalAmount())
	assert.Equal(t, models.FeeNotPaid, fee.Status)
}

func TestFeeUpsertKeepsOmittedFields(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)

	notes := "cash"
	advance := true
	_, err := repos.Fees.UpsertStatus(ctx, models.FeePaymentUpsert{
		StudentID: 1, Month: "March", Status: models.FeePaid, BaseAmount: 1000,
		Notes: &notes, IsAdvancePayment: &advance,
	})
	require.NoError(t, err)

	fee, err := repos.Fees.UpsertStatus(ctx, models.FeePaymentUpsert{
		StudentID: 1, Month: "March", Status: models.FeeNotPaid, BaseAmount: 2000,
	})
	require.NoError(t, err)

	assert.Equal(t, models.FeeNotPaid, fee.Status)
	assert.Equal(t, int64(1000), fee.BaseAmount, "base amount is fixed at insert")
	require.NotNil(t, fee.Notes)
	assert.Equal(t, "cash", *fee.Notes)
	assert.True(t, fee.IsAdvancePayment)
}

func TestAdvanceRequestRules(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rec, err := repos.Payroll.UpsertAdvanceRequest(ctx, 7, "2026-03", 500, at)
	require.NoError(t, err)
	assert.Equal(t, models.AdvancePending, rec.AdvanceStatus)

	_, err = repos.Payroll.UpsertAdvanceRequest(ctx, 7, "2026-03", 500, at)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = repos.Payroll.UpsertAdvanceRequest(ctx, 7, "2026-04", 500, at)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "one pending advance per teacher")

	decided, err := repos.Payroll.SetAdvanceDecision(ctx, rec.ID, models.AdvanceRejected, at)
	require.NoError(t, err)
	assert.Equal(t, models.AdvanceRejected, decided.AdvanceStatus)

	_, err = repos.Payroll.SetAdvanceDecision(ctx, rec.ID, models.AdvanceApproved, at)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	again, err := repos.Payroll.UpsertAdvanceRequest(ctx, 7, "2026-03", 800, at)
	require.NoError(t, err, "a rejected month may be requested again")
	assert.Equal(t, int64(800), again.AdvanceAmount)
	assert.Nil(t, again.AdvanceApprovalDate)
}

func TestMarksBatchIsAllOrNothing(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)

	exam := &models.Exam{Name: "Midterm", ExamDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repos.Exams.Create(ctx, exam))

	err := repos.Marks.CreateBatch(ctx, []models.Mark{
		{StudentID: 1, ClassID: 1, SubjectID: 1, ExamID: exam.ID, MarksObtained: 80, MaxMarks: 100},
		{StudentID: 1, ClassID: 1, SubjectID: 2, ExamID: exam.ID, MarksObtained: 120, MaxMarks: 100},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	marks, err := repos.Marks.ListByStudentExam(ctx, 1, exam.ID)
	require.NoError(t, err)
	assert.Empty(t, marks)
}

func TestTotalsSurviveStudentDeletion(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)

	class := &models.Class{Name: "Grade 1"}
	require.NoError(t, repos.Classes.Create(ctx, class))
	student := &models.Student{Name: "S", Email: "s@school.test", ClassID: &class.ID}
	require.NoError(t, repos.Students.Create(ctx, student))
	exam := &models.Exam{Name: "Final"}
	require.NoError(t, repos.Exams.Create(ctx, exam))

	require.NoError(t, repos.Marks.CreateBatch(ctx, []models.Mark{
		{StudentID: student.ID, ClassID: class.ID, SubjectID: 1, ExamID: exam.ID, MarksObtained: 40, MaxMarks: 50},
		{StudentID: student.ID, ClassID: class.ID, SubjectID: 2, ExamID: exam.ID, MarksObtained: 30, MaxMarks: 50},
	}))

	_, err := repos.Students.DeleteByClass(ctx, class.ID)
	require.NoError(t, err)

	totals, err := repos.Marks.TotalsByClassExam(ctx, class.ID, exam.ID)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, models.MarkTotal{StudentID: student.ID, TotalObtained: 70, TotalMax: 100}, totals[0])
}

func TestAttendanceSheetUniquePerClassDay(t *testing.T) {
	s, ctx := newTestRepos(t)
	repos := NewRepositories(s)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	sheet := &models.StudentAttendance{ClassID: 1, Date: day, Entries: []models.AttendanceEntry{
		{StudentID: 2, Status: models.Absent},
		{StudentID: 1, Status: models.Present},
	}}
	require.NoError(t, repos.Attendance.CreateSheet(ctx, sheet))

	err := repos.Attendance.CreateSheet(ctx, &models.StudentAttendance{ClassID: 1, Date: day})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got, err := repos.Attendance.GetSheet(ctx, 1, day)
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, int64(1), got.Entries[0].StudentID)

	got.Entries[0].Status = models.Absent
	again, err := repos.Attendance.GetSheet(ctx, 1, day)
	require.NoError(t, err)
	assert.Equal(t, models.Present, again.Entries[0].Status, "reads return copies")
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, page(items, 0, 2))
	assert.Equal(t, []int{5}, page(items, 4, 2))
	assert.Equal(t, []int{}, page(items, 9, 2))
}
