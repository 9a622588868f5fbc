package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

// PostgresExamRepository handles database operations for exams
type PostgresExamRepository struct {
	db *db.PostgresDB
}

// NewExamRepository creates a new exam repository
func NewExamRepository(database *db.PostgresDB) *PostgresExamRepository {
	return &PostgresExamRepository{db: database}
}

func scanExam(row pgx.Row) (models.Exam, error) {
	var e models.Exam
	err := row.Scan(&e.ID, &e.Name, &e.ExamDate, &e.TimetableURL, &e.CreatedAt)
	return e, err
}

// Create inserts an exam
func (r *PostgresExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	sql, args, err := psql.Insert("exams").
		Columns("name", "exam_date").
		Values(exam.Name, exam.ExamDate).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create exam SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&exam.ID, &exam.CreatedAt)
	return translateError(err, nil, "exam already exists")
}

// GetByID retrieves an exam
func (r *PostgresExamRepository) GetByID(ctx context.Context, id int64) (*models.Exam, error) {
	sql, args, err := psql.Select("id", "name", "exam_date", "timetable_url", "created_at").
		From("exams").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get exam SQL")
		return nil, err
	}

	e, err := scanExam(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, apperrors.ErrExamNotFound, "")
	}
	return &e, nil
}

// List returns all exams, newest first
func (r *PostgresExamRepository) List(ctx context.Context) ([]models.Exam, error) {
	sql, args, err := psql.Select("id", "name", "exam_date", "timetable_url", "created_at").
		From("exams").OrderBy("exam_date DESC", "id DESC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building exam list SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	exams := make([]models.Exam, 0)
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, translateError(err, nil, "")
		}
		exams = append(exams, e)
	}
	return exams, translateError(rows.Err(), nil, "")
}

// SetTimetable stores the timetable URL of an exam
func (r *PostgresExamRepository) SetTimetable(ctx context.Context, id int64, url string) error {
	affected, err := execAffected(ctx, r.db.Conn(ctx), psql.Update("exams").
		Set("timetable_url", url).
		Where(squirrel.Eq{"id": id}), "")
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrExamNotFound
	}
	return nil
}

// ExistingIDs returns which of ids are exams
func (r *PostgresExamRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return existingIDs(ctx, r.db.Conn(ctx), "exams", ids)
}
