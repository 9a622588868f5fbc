package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

func TestAddMarks(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 10", 1000, 100)
	s := f.student("amir", class.ID, models.GenderMale)
	math := f.subject("Math", class.ID)
	art := f.subject("Art", class.ID)
	exam, err := f.svc.Exam.CreateExam(f.ctx, dto.CreateExamRequest{Name: "Midterm", ExamDate: "2026-03-01"})
	require.NoError(t, err)

	base := dto.AddMarksRequest{StudentID: s.ID, ClassID: class.ID, ExamID: exam.ID}

	t.Run("out of range", func(t *testing.T) {
		req := base
		req.Marks = []dto.MarkEntryRequest{{SubjectID: math.ID, MarksObtained: 60, MaxMarks: ptr(50)}}
		_, err := f.svc.Exam.AddMarks(f.ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown subject", func(t *testing.T) {
		req := base
		req.Marks = []dto.MarkEntryRequest{{SubjectID: math.ID, MarksObtained: 60}, {SubjectID: 999, MarksObtained: 10}}
		_, err := f.svc.Exam.AddMarks(f.ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	req := base
	req.Marks = []dto.MarkEntryRequest{
		{SubjectID: math.ID, MarksObtained: 88},
		{SubjectID: art.ID, MarksObtained: 40, MaxMarks: ptr(50)},
	}
	marks, err := f.svc.Exam.AddMarks(f.ctx, req)
	require.NoError(t, err)
	require.Len(t, marks, 2, "failed batches left nothing behind")
	assert.Equal(t, models.DefaultMaxMarks, marks[0].MaxMarks)

	t.Run("duplicate batch", func(t *testing.T) {
		_, err := f.svc.Exam.AddMarks(f.ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	n, err := f.svc.Exam.DeleteMarks(f.ctx, s.ID, art.ID, &exam.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.svc.Exam.DeleteMarks(f.ctx, s.ID, art.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	left, err := f.svc.Exam.GetMarks(f.ctx, s.ID, exam.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, math.ID, left[0].SubjectID)
}

func TestExamsNewestFirst(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Exam.CreateExam(f.ctx, dto.CreateExamRequest{Name: "Midterm", ExamDate: "2026-03-01"})
	require.NoError(t, err)
	final, err := f.svc.Exam.CreateExam(f.ctx, dto.CreateExamRequest{Name: "Final", ExamDate: "2026-06-01"})
	require.NoError(t, err)

	_, err = f.svc.Exam.CreateExam(f.ctx, dto.CreateExamRequest{Name: "Broken", ExamDate: "01/06/2026"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	require.NoError(t, f.svc.Exam.SetExamTimetable(f.ctx, final.ID, "https://files.test/final.pdf"))

	exams, err := f.svc.Exam.GetExams(f.ctx)
	require.NoError(t, err)
	require.Len(t, exams, 2)
	assert.Equal(t, "Final", exams[0].Name)
	require.NotNil(t, exams[0].TimetableURL)

	assert.ErrorIs(t, f.svc.Exam.SetExamTimetable(f.ctx, 999, "https://files.test/x.pdf"), apperrors.ErrResourceNotFound)
}

func TestStudentAttendance(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 2", 200, 20)
	a := f.student("a", class.ID, models.GenderMale)
	b := f.student("b", class.ID, models.GenderFemale)

	sheet, err := f.svc.Attendance.MarkAttendance(f.ctx, class.ID, dto.MarkAttendanceRequest{
		Date: "2026-03-09",
		Entries: []dto.AttendanceEntryRequest{
			{StudentID: b.ID, Status: models.Absent},
			{StudentID: a.ID, Status: models.Present},
		},
	})
	require.NoError(t, err)
	require.Len(t, sheet.Entries, 2)
	assert.Equal(t, a.ID, sheet.Entries[0].StudentID)

	t.Run("one sheet per class and date", func(t *testing.T) {
		_, err := f.svc.Attendance.MarkAttendance(f.ctx, class.ID, dto.MarkAttendanceRequest{
			Date:    "2026-03-09",
			Entries: []dto.AttendanceEntryRequest{{StudentID: a.ID, Status: models.Present}},
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := f.svc.Attendance.MarkAttendance(f.ctx, class.ID, dto.MarkAttendanceRequest{
			Date:    "2026-03-10",
			Entries: []dto.AttendanceEntryRequest{{StudentID: 999, Status: models.Present}},
		})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	updated, err := f.svc.Attendance.UpdateAttendance(f.ctx, class.ID, "2026-03-09", dto.UpdateAttendanceRequest{
		Entries: []dto.AttendanceEntryRequest{{StudentID: b.ID, Status: models.Present}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Entries, 1)
	assert.Equal(t, models.Present, updated.Entries[0].Status)

	history, err := f.svc.Attendance.StudentHistory(f.ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.Present, history[0].Status)

	_, err = f.svc.Attendance.GetAttendance(f.ctx, class.ID, "2026-03-08")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestTeacherAttendance(t *testing.T) {
	f := newFixture(t)
	tc := f.teacher("tara")

	for _, day := range []string{"2026-03-01", "2026-03-02", "2026-03-05"} {
		_, err := f.svc.Attendance.MarkTeacherAttendance(f.ctx, dto.TeacherAttendanceRequest{TeacherID: tc.ID, Date: day, Status: models.Present})
		require.NoError(t, err)
	}

	_, err := f.svc.Attendance.MarkTeacherAttendance(f.ctx, dto.TeacherAttendanceRequest{TeacherID: tc.ID, Date: "2026-03-01", Status: models.Absent})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	records, err := f.svc.Attendance.TeacherHistory(f.ctx, tc.ID, "2026-03-02", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-03-05", records[0].Date.Format(dto.DateLayout))

	all, err := f.svc.Attendance.TeacherHistory(f.ctx, tc.ID, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.svc.Attendance.TeacherHistory(f.ctx, tc.ID, "2026-03-31", "2026-03-01")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestExpenses(t *testing.T) {
	f := newFixture(t)

	for i, day := range []string{"2026-01-15", "2026-02-15", "2026-03-15"} {
		_, err := f.svc.Expense.CreateExpense(f.ctx, dto.CreateExpenseRequest{
			Title:       "Supplies",
			Amount:      int64(100 * (i + 1)),
			ExpenseDate: day,
		})
		require.NoError(t, err)
	}

	page, err := f.svc.Expense.GetExpenses(f.ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Expenses, 2)
	assert.Equal(t, int64(300), page.Expenses[0].Amount)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)

	require.NoError(t, f.svc.Expense.DeleteExpense(f.ctx, page.Expenses[0].ID))
	assert.ErrorIs(t, f.svc.Expense.DeleteExpense(f.ctx, page.Expenses[0].ID), apperrors.ErrResourceNotFound)
}
