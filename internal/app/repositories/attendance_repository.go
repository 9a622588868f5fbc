package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

// PostgresAttendanceRepository handles student sheets and teacher attendance
type PostgresAttendanceRepository struct {
	db *db.PostgresDB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(database *db.PostgresDB) *PostgresAttendanceRepository {
	return &PostgresAttendanceRepository{db: database}
}

func (r *PostgresAttendanceRepository) insertEntries(ctx context.Context, sheetID int64, entries []models.AttendanceEntry) error {
	if len(entries) == 0 {
		return nil
	}
	builder := psql.Insert("student_attendance_entries").Columns("attendance_id", "student_id", "status")
	for _, e := range entries {
		builder = builder.Values(sheetID, e.StudentID, e.Status)
	}
	_, err := execAffected(ctx, r.db.Conn(ctx), builder, "student listed twice on the sheet")
	return err
}

// CreateSheet inserts a sheet and its entries. Callers run it inside a unit of work.
func (r *PostgresAttendanceRepository) CreateSheet(ctx context.Context, sheet *models.StudentAttendance) error {
	sql, args, err := psql.Insert("student_attendance").
		Columns("class_id", "attendance_date").
		Values(sheet.ClassID, sheet.Date).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create attendance SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&sheet.ID, &sheet.CreatedAt, &sheet.UpdatedAt)
	if err != nil {
		return translateError(err, nil, "attendance already marked for this class and date")
	}
	return r.insertEntries(ctx, sheet.ID, sheet.Entries)
}

// GetSheet returns the sheet of a class on a date
func (r *PostgresAttendanceRepository) GetSheet(ctx context.Context, classID int64, date time.Time) (*models.StudentAttendance, error) {
	sql, args, err := psql.Select("id", "class_id", "attendance_date", "created_at", "updated_at").
		From("student_attendance").
		Where(squirrel.Eq{"class_id": classID, "attendance_date": date}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get attendance SQL")
		return nil, err
	}

	var sheet models.StudentAttendance
	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(
		&sheet.ID, &sheet.ClassID, &sheet.Date, &sheet.CreatedAt, &sheet.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, apperrors.ErrAttendanceNotFound, "")
	}

	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT student_id, status FROM student_attendance_entries WHERE attendance_id = $1 ORDER BY student_id`,
		sheet.ID)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	sheet.Entries = make([]models.AttendanceEntry, 0)
	for rows.Next() {
		var e models.AttendanceEntry
		if err := rows.Scan(&e.StudentID, &e.Status); err != nil {
			return nil, translateError(err, nil, "")
		}
		sheet.Entries = append(sheet.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, nil, "")
	}
	return &sheet, nil
}

// ReplaceEntries swaps the entries of a sheet. Callers run it inside a unit of work.
func (r *PostgresAttendanceRepository) ReplaceEntries(ctx context.Context, sheetID int64, entries []models.AttendanceEntry) error {
	affected, err := execAffected(ctx, r.db.Conn(ctx), psql.Update("student_attendance").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": sheetID}), "")
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrAttendanceNotFound
	}

	if _, err := execAffected(ctx, r.db.Conn(ctx), psql.Delete("student_attendance_entries").
		Where(squirrel.Eq{"attendance_id": sheetID}), ""); err != nil {
		return err
	}
	return r.insertEntries(ctx, sheetID, entries)
}

// StudentHistory returns a student's attendance, newest first
func (r *PostgresAttendanceRepository) StudentHistory(ctx context.Context, studentID int64) ([]models.StudentAttendanceDay, error) {
	sql, args, err := psql.Select("a.class_id", "a.attendance_date", "e.status").
		From("student_attendance_entries e").
		Join("student_attendance a ON a.id = e.attendance_id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("a.attendance_date DESC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student attendance history SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	days := make([]models.StudentAttendanceDay, 0)
	for rows.Next() {
		var d models.StudentAttendanceDay
		if err := rows.Scan(&d.ClassID, &d.Date, &d.Status); err != nil {
			return nil, translateError(err, nil, "")
		}
		days = append(days, d)
	}
	return days, translateError(rows.Err(), nil, "")
}

// CreateTeacherAttendance records one teacher on one date
func (r *PostgresAttendanceRepository) CreateTeacherAttendance(ctx context.Context, record *models.TeacherAttendance) error {
	sql, args, err := psql.Insert("teacher_attendance").
		Columns("teacher_id", "attendance_date", "status").
		Values(record.TeacherID, record.Date, record.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building teacher attendance SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&record.ID, &record.CreatedAt)
	return translateError(err, nil, "attendance already marked for this teacher and date")
}

// TeacherHistory returns a teacher's attendance within the date range, newest first
func (r *PostgresAttendanceRepository) TeacherHistory(ctx context.Context, teacherID int64, dr models.DateRange) ([]models.TeacherAttendance, error) {
	builder := psql.Select("id", "teacher_id", "attendance_date", "status", "created_at").
		From("teacher_attendance").
		Where(squirrel.Eq{"teacher_id": teacherID})
	if !dr.From.IsZero() {
		builder = builder.Where(squirrel.GtOrEq{"attendance_date": dr.From})
	}
	if !dr.To.IsZero() {
		builder = builder.Where(squirrel.LtOrEq{"attendance_date": dr.To})
	}

	sql, args, err := builder.OrderBy("attendance_date DESC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building teacher attendance history SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	records := make([]models.TeacherAttendance, 0)
	for rows.Next() {
		var t models.TeacherAttendance
		if err := rows.Scan(&t.ID, &t.TeacherID, &t.Date, &t.Status, &t.CreatedAt); err != nil {
			return nil, translateError(err, nil, "")
		}
		records = append(records, t)
	}
	return records, translateError(rows.Err(), nil, "")
}
