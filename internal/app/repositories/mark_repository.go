package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

// PostgresMarkRepository handles database operations for marks
type PostgresMarkRepository struct {
	db *db.PostgresDB
}

// NewMarkRepository creates a new mark repository
func NewMarkRepository(database *db.PostgresDB) *PostgresMarkRepository {
	return &PostgresMarkRepository{db: database}
}

// CreateBatch inserts marks in one statement
func (r *PostgresMarkRepository) CreateBatch(ctx context.Context, marks []models.Mark) error {
	if len(marks) == 0 {
		return nil
	}

	builder := psql.Insert("marks").
		Columns("student_id", "class_id", "subject_id", "exam_id", "marks_obtained", "max_marks")
	for _, m := range marks {
		builder = builder.Values(m.StudentID, m.ClassID, m.SubjectID, m.ExamID, m.MarksObtained, m.MaxMarks)
	}

	_, err := execAffected(ctx, r.db.Conn(ctx), builder, "marks already recorded for this subject and exam")
	return err
}

// ListByStudentExam returns a student's marks in one exam
func (r *PostgresMarkRepository) ListByStudentExam(ctx context.Context, studentID, examID int64) ([]models.Mark, error) {
	sql, args, err := psql.Select("id", "student_id", "class_id", "subject_id", "exam_id",
		"marks_obtained", "max_marks", "created_at").
		From("marks").
		Where(squirrel.Eq{"student_id": studentID, "exam_id": examID}).
		OrderBy("subject_id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building marks SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	marks := make([]models.Mark, 0)
	for rows.Next() {
		var m models.Mark
		if err := rows.Scan(&m.ID, &m.StudentID, &m.ClassID, &m.SubjectID, &m.ExamID,
			&m.MarksObtained, &m.MaxMarks, &m.CreatedAt); err != nil {
			return nil, translateError(err, nil, "")
		}
		marks = append(marks, m)
	}
	return marks, translateError(rows.Err(), nil, "")
}

// DeleteByStudentSubject deletes a student's marks in a subject, optionally for one exam only
func (r *PostgresMarkRepository) DeleteByStudentSubject(ctx context.Context, studentID, subjectID int64, examID *int64) (int64, error) {
	where := squirrel.Eq{"student_id": studentID, "subject_id": subjectID}
	if examID != nil {
		where["exam_id"] = *examID
	}
	return execAffected(ctx, r.db.Conn(ctx), psql.Delete("marks").Where(where), "")
}

// TotalsByClassExam sums marks per student. Students deleted since the exam keep
// their totals with an empty name.
func (r *PostgresMarkRepository) TotalsByClassExam(ctx context.Context, classID, examID int64) ([]models.MarkTotal, error) {
	sql, args, err := psql.Select("m.student_id", "COALESCE(s.name, '')",
		"SUM(m.marks_obtained)::BIGINT", "SUM(m.max_marks)::BIGINT").
		From("marks m").
		LeftJoin("students s ON s.id = m.student_id").
		Where(squirrel.Eq{"m.class_id": classID, "m.exam_id": examID}).
		GroupBy("m.student_id", "s.name").
		OrderBy("m.student_id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark totals SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	totals := make([]models.MarkTotal, 0)
	for rows.Next() {
		var t models.MarkTotal
		if err := rows.Scan(&t.StudentID, &t.StudentName, &t.TotalObtained, &t.TotalMax); err != nil {
			return nil, translateError(err, nil, "")
		}
		totals = append(totals, t)
	}
	return totals, translateError(rows.Err(), nil, "")
}
