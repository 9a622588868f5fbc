package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

// ExamRepository stores exams
type ExamRepository struct {
	s *Store
}

// Create inserts an exam
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	return r.s.write(ctx, func(st *state) error {
		exam.ID = st.newID()
		exam.CreatedAt = r.s.clock()
		st.exams[exam.ID] = *exam
		return nil
	})
}

// GetByID retrieves an exam
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*models.Exam, error) {
	var out models.Exam
	err := r.s.read(ctx, func(st *state) error {
		e, ok := st.exams[id]
		if !ok {
			return apperrors.ErrExamNotFound
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns all exams, newest first
func (r *ExamRepository) List(ctx context.Context) ([]models.Exam, error) {
	var out []models.Exam
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.Exam, 0, len(st.exams))
		for _, e := range st.exams {
			out = append(out, e)
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].ExamDate.Equal(out[j].ExamDate) {
				return out[i].ExamDate.After(out[j].ExamDate)
			}
			return out[i].ID > out[j].ID
		})
		return nil
	})
	return out, err
}

// SetTimetable stores the timetable URL of an exam
func (r *ExamRepository) SetTimetable(ctx context.Context, id int64, url string) error {
	return r.s.write(ctx, func(st *state) error {
		e, ok := st.exams[id]
		if !ok {
			return apperrors.ErrExamNotFound
		}
		e.TimetableURL = &url
		st.exams[id] = e
		return nil
	})
}

// ExistingIDs returns which of ids are exams
func (r *ExamRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var out []int64
	err := r.s.read(ctx, func(st *state) error {
		out = existing(st.exams, ids)
		return nil
	})
	return out, err
}

// MarkRepository stores marks. Marks keep no link to the graph and outlive it.
type MarkRepository struct {
	s *Store
}

type markKey struct {
	studentID, classID, subjectID, examID int64
}

// CreateBatch inserts marks, all or none
func (r *MarkRepository) CreateBatch(ctx context.Context, marks []models.Mark) error {
	if len(marks) == 0 {
		return nil
	}
	return r.s.write(ctx, func(st *state) error {
		taken := make(map[markKey]struct{}, len(st.marks)+len(marks))
		for _, m := range st.marks {
			taken[markKey{m.StudentID, m.ClassID, m.SubjectID, m.ExamID}] = struct{}{}
		}

		rows := make([]models.Mark, 0, len(marks))
		for _, m := range marks {
			if m.MaxMarks <= 0 || m.MarksObtained < 0 || m.MarksObtained > m.MaxMarks {
				return apperrors.NewValidationError("value out of range")
			}
			if _, ok := st.exams[m.ExamID]; !ok {
				return errReferenceMissing
			}
			key := markKey{m.StudentID, m.ClassID, m.SubjectID, m.ExamID}
			if _, dup := taken[key]; dup {
				return conflict("marks already recorded for this subject and exam")
			}
			taken[key] = struct{}{}
			rows = append(rows, m)
		}

		now := r.s.clock()
		for _, m := range rows {
			m.ID = st.newID()
			m.CreatedAt = now
			st.marks[m.ID] = m
		}
		return nil
	})
}

// ListByStudentExam returns a student's marks in one exam
func (r *MarkRepository) ListByStudentExam(ctx context.Context, studentID, examID int64) ([]models.Mark, error) {
	var out []models.Mark
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.Mark, 0)
		for _, m := range st.marks {
			if m.StudentID == studentID && m.ExamID == examID {
				out = append(out, m)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SubjectID < out[j].SubjectID })
		return nil
	})
	return out, err
}

// DeleteByStudentSubject deletes a student's marks in a subject, optionally for one exam only
func (r *MarkRepository) DeleteByStudentSubject(ctx context.Context, studentID, subjectID int64, examID *int64) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(st *state) error {
		for id, m := range st.marks {
			if m.StudentID != studentID || m.SubjectID != subjectID {
				continue
			}
			if examID != nil && m.ExamID != *examID {
				continue
			}
			delete(st.marks, id)
			n++
		}
		return nil
	})
	return n, err
}

// TotalsByClassExam sums marks per student. Deleted students keep an empty name.
func (r *MarkRepository) TotalsByClassExam(ctx context.Context, classID, examID int64) ([]models.MarkTotal, error) {
	var out []models.MarkTotal
	err := r.s.read(ctx, func(st *state) error {
		totals := make(map[int64]*models.MarkTotal)
		for _, m := range st.marks {
			if m.ClassID != classID || m.ExamID != examID {
				continue
			}
			t, ok := totals[m.StudentID]
			if !ok {
				t = &models.MarkTotal{StudentID: m.StudentID}
				if s, found := st.students[m.StudentID]; found {
					t.StudentName = s.Name
				}
				totals[m.StudentID] = t
			}
			t.TotalObtained += int64(m.MarksObtained)
			t.TotalMax += int64(m.MaxMarks)
		}

		out = make([]models.MarkTotal, 0, len(totals))
		for _, id := range sortedKeys(totals, nil) {
			out = append(out, *totals[id])
		}
		return nil
	})
	return out, err
}

// AttendanceRepository stores student sheets and teacher attendance
type AttendanceRepository struct {
	s *Store
}

func checkEntries(entries []models.AttendanceEntry) error {
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if !e.Status.Valid() {
			return apperrors.NewValidationError("value out of range")
		}
		if _, dup := seen[e.StudentID]; dup {
			return conflict("student listed twice on the sheet")
		}
		seen[e.StudentID] = struct{}{}
	}
	return nil
}

func sortedEntries(entries []models.AttendanceEntry) []models.AttendanceEntry {
	out := slices.Clone(entries)
	if out == nil {
		out = make([]models.AttendanceEntry, 0)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out
}

// CreateSheet inserts a sheet and its entries
func (r *AttendanceRepository) CreateSheet(ctx context.Context, sheet *models.StudentAttendance) error {
	return r.s.write(ctx, func(st *state) error {
		for _, other := range st.sheets {
			if other.ClassID == sheet.ClassID && other.Date.Equal(sheet.Date) {
				return conflict("attendance already marked for this class and date")
			}
		}
		if err := checkEntries(sheet.Entries); err != nil {
			return err
		}
		sheet.ID = st.newID()
		sheet.CreatedAt = r.s.clock()
		sheet.UpdatedAt = sheet.CreatedAt

		row := *sheet
		row.Entries = sortedEntries(sheet.Entries)
		st.sheets[row.ID] = row
		return nil
	})
}

// GetSheet returns the sheet of a class on a date
func (r *AttendanceRepository) GetSheet(ctx context.Context, classID int64, date time.Time) (*models.StudentAttendance, error) {
	var out models.StudentAttendance
	err := r.s.read(ctx, func(st *state) error {
		for _, sheet := range st.sheets {
			if sheet.ClassID == classID && sheet.Date.Equal(date) {
				out = sheet
				out.Entries = slices.Clone(sheet.Entries)
				return nil
			}
		}
		return apperrors.ErrAttendanceNotFound
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ReplaceEntries swaps the entries of a sheet
func (r *AttendanceRepository) ReplaceEntries(ctx context.Context, sheetID int64, entries []models.AttendanceEntry) error {
	return r.s.write(ctx, func(st *state) error {
		sheet, ok := st.sheets[sheetID]
		if !ok {
			return apperrors.ErrAttendanceNotFound
		}
		if err := checkEntries(entries); err != nil {
			return err
		}
		sheet.Entries = sortedEntries(entries)
		sheet.UpdatedAt = r.s.clock()
		st.sheets[sheetID] = sheet
		return nil
	})
}

// StudentHistory returns a student's attendance, newest first
func (r *AttendanceRepository) StudentHistory(ctx context.Context, studentID int64) ([]models.StudentAttendanceDay, error) {
	var out []models.StudentAttendanceDay
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.StudentAttendanceDay, 0)
		for _, sheet := range st.sheets {
			for _, e := range sheet.Entries {
				if e.StudentID == studentID {
					out = append(out, models.StudentAttendanceDay{ClassID: sheet.ClassID, Date: sheet.Date, Status: e.Status})
				}
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
		return nil
	})
	return out, err
}

// CreateTeacherAttendance records one teacher on one date
func (r *AttendanceRepository) CreateTeacherAttendance(ctx context.Context, record *models.TeacherAttendance) error {
	return r.s.write(ctx, func(st *state) error {
		for _, other := range st.teacherAttendance {
			if other.TeacherID == record.TeacherID && other.Date.Equal(record.Date) {
				return conflict("attendance already marked for this teacher and date")
			}
		}
		if !record.Status.Valid() {
			return apperrors.NewValidationError("value out of range")
		}
		record.ID = st.newID()
		record.CreatedAt = r.s.clock()
		st.teacherAttendance[record.ID] = *record
		return nil
	})
}

// TeacherHistory returns a teacher's attendance within the date range, newest first
func (r *AttendanceRepository) TeacherHistory(ctx context.Context, teacherID int64, dr models.DateRange) ([]models.TeacherAttendance, error) {
	var out []models.TeacherAttendance
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.TeacherAttendance, 0)
		for _, rec := range st.teacherAttendance {
			if rec.TeacherID == teacherID && dr.Contains(rec.Date) {
				out = append(out, rec)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
		return nil
	})
	return out, err
}

// ExpenseRepository stores expenses
type ExpenseRepository struct {
	s *Store
}

// Create inserts an expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.s.write(ctx, func(st *state) error {
		if expense.Amount <= 0 {
			return apperrors.NewValidationError("value out of range")
		}
		expense.ID = st.newID()
		expense.CreatedAt = r.s.clock()
		st.expenses[expense.ID] = *expense
		return nil
	})
}

// List returns a page of expenses, newest first, and the total count
func (r *ExpenseRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Expense, int64, error) {
	var all []models.Expense
	err := r.s.read(ctx, func(st *state) error {
		all = make([]models.Expense, 0, len(st.expenses))
		for _, e := range st.expenses {
			all = append(all, e)
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].ExpenseDate.Equal(all[j].ExpenseDate) {
				return all[i].ExpenseDate.After(all[j].ExpenseDate)
			}
			return all[i].ID > all[j].ID
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.expenses[id]; !ok {
			return apperrors.ErrExpenseNotFound
		}
		delete(st.expenses, id)
		return nil
	})
}
