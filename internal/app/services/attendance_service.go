package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// AttendanceService defines the interface for student and teacher attendance
type AttendanceService interface {
	MarkAttendance(ctx context.Context, classID int64, req dto.MarkAttendanceRequest) (*models.StudentAttendance, error)
	GetAttendance(ctx context.Context, classID int64, date string) (*models.StudentAttendance, error)
	UpdateAttendance(ctx context.Context, classID int64, date string, req dto.UpdateAttendanceRequest) (*models.StudentAttendance, error)
	StudentHistory(ctx context.Context, studentID int64) ([]models.StudentAttendanceDay, error)
	MarkTeacherAttendance(ctx context.Context, req dto.TeacherAttendanceRequest) (*models.TeacherAttendance, error)
	TeacherHistory(ctx context.Context, teacherID int64, from, to string) ([]models.TeacherAttendance, error)
}

type attendanceServiceImpl struct {
	repos *repositories.Repositories
	tx    *TransactionCoordinator
	gate  *ValidationGate
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(repos *repositories.Repositories, tx *TransactionCoordinator, gate *ValidationGate) AttendanceService {
	return &attendanceServiceImpl{
		repos: repos,
		tx:    tx,
		gate:  gate,
	}
}

func parseDay(s string) (time.Time, error) {
	d, err := helpers.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, err.Error())
	}
	return d, nil
}

func toEntries(in []dto.AttendanceEntryRequest) ([]models.AttendanceEntry, []int64) {
	entries := make([]models.AttendanceEntry, 0, len(in))
	ids := make([]int64, 0, len(in))
	for _, e := range in {
		entries = append(entries, models.AttendanceEntry{StudentID: e.StudentID, Status: e.Status})
		ids = append(ids, e.StudentID)
	}
	return entries, ids
}

// MarkAttendance records the sheet of a class for one date. A class has one sheet per date.
func (s *attendanceServiceImpl) MarkAttendance(ctx context.Context, classID int64, req dto.MarkAttendanceRequest) (*models.StudentAttendance, error) {
	date, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	entries, studentIDs := toEntries(req.Entries)

	sheet := &models.StudentAttendance{ClassID: classID, Date: date, Entries: entries}
	err = s.tx.ExecuteAtomic(ctx, "mark_attendance", func(ctx context.Context) error {
		if err := s.gate.ValidateReferences(ctx, models.KindClass, []int64{classID}); err != nil {
			return err
		}
		if err := s.gate.ValidateReferences(ctx, models.KindStudent, studentIDs); err != nil {
			return err
		}
		return s.repos.Attendance.CreateSheet(ctx, sheet)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Attendance.GetSheet(ctx, classID, date)
}

func (s *attendanceServiceImpl) GetAttendance(ctx context.Context, classID int64, date string) (*models.StudentAttendance, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	return s.repos.Attendance.GetSheet(ctx, classID, day)
}

// UpdateAttendance replaces the entries of an existing sheet
func (s *attendanceServiceImpl) UpdateAttendance(ctx context.Context, classID int64, date string, req dto.UpdateAttendanceRequest) (*models.StudentAttendance, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}
	entries, studentIDs := toEntries(req.Entries)

	err = s.tx.ExecuteAtomic(ctx, "update_attendance", func(ctx context.Context) error {
		sheet, err := s.repos.Attendance.GetSheet(ctx, classID, day)
		if err != nil {
			return err
		}
		if err := s.gate.ValidateReferences(ctx, models.KindStudent, studentIDs); err != nil {
			return err
		}
		return s.repos.Attendance.ReplaceEntries(ctx, sheet.ID, entries)
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Attendance.GetSheet(ctx, classID, day)
}

// StudentHistory lists a student's attendance, newest first
func (s *attendanceServiceImpl) StudentHistory(ctx context.Context, studentID int64) ([]models.StudentAttendanceDay, error) {
	if _, err := s.repos.Students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	days, err := s.repos.Attendance.StudentHistory(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error getting attendance history: %w", err)
	}
	return days, nil
}

// MarkTeacherAttendance records one teacher on one date
func (s *attendanceServiceImpl) MarkTeacherAttendance(ctx context.Context, req dto.TeacherAttendanceRequest) (*models.TeacherAttendance, error) {
	date, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}

	record := &models.TeacherAttendance{TeacherID: req.TeacherID, Date: date, Status: req.Status}
	err = s.tx.ExecuteAtomic(ctx, "mark_teacher_attendance", func(ctx context.Context) error {
		if err := s.gate.ValidateReferences(ctx, models.KindTeacher, []int64{req.TeacherID}); err != nil {
			return err
		}
		return s.repos.Attendance.CreateTeacherAttendance(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// TeacherHistory lists a teacher's attendance between from and to, inclusive.
// Empty bounds are open.
func (s *attendanceServiceImpl) TeacherHistory(ctx context.Context, teacherID int64, from, to string) ([]models.TeacherAttendance, error) {
	var (
		dr  models.DateRange
		err error
	)
	if from != "" {
		if dr.From, err = parseDay(from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if dr.To, err = parseDay(to); err != nil {
			return nil, err
		}
	}
	if !dr.From.IsZero() && !dr.To.IsZero() && dr.To.Before(dr.From) {
		return nil, apperrors.NewValidationError("date range end is before its start")
	}

	if _, err := s.repos.Teachers.GetByID(ctx, teacherID); err != nil {
		return nil, err
	}
	records, err := s.repos.Attendance.TeacherHistory(ctx, teacherID, dr)
	if err != nil {
		return nil, fmt.Errorf("error getting teacher attendance: %w", err)
	}
	return records, nil
}
