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

const subjectConflict = "subject with this name already exists in the class"

// PostgresSubjectRepository handles database operations for subjects
type PostgresSubjectRepository struct {
	db *db.PostgresDB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(database *db.PostgresDB) *PostgresSubjectRepository {
	return &PostgresSubjectRepository{db: database}
}

func selectSubjectQuery() squirrel.SelectBuilder {
	return psql.Select(
		"sb.id", "sb.name", "sb.class_id", "sb.created_at",
		"ARRAY(SELECT st.teacher_id FROM subject_teachers st WHERE st.subject_id = sb.id ORDER BY st.teacher_id) AS teacher_ids",
		"ARRAY(SELECT ss.student_id FROM subject_students ss WHERE ss.subject_id = sb.id ORDER BY ss.student_id) AS student_ids",
	).From("subjects sb")
}

func scanSubject(row pgx.Row) (models.Subject, error) {
	var s models.Subject
	err := row.Scan(&s.ID, &s.Name, &s.ClassID, &s.CreatedAt, &s.TeacherIDs, &s.StudentIDs)
	return s, err
}

// Create inserts a subject
func (r *PostgresSubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	sql, args, err := psql.Insert("subjects").
		Columns("name", "class_id").
		Values(subject.Name, subject.ClassID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create subject SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&subject.ID, &subject.CreatedAt)
	return translateError(err, nil, subjectConflict)
}

// GetByID retrieves a subject with teacher and student ids
func (r *PostgresSubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	sql, args, err := selectSubjectQuery().Where(squirrel.Eq{"sb.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get subject SQL")
		return nil, err
	}

	s, err := scanSubject(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, apperrors.ErrSubjectNotFound, "")
	}
	return &s, nil
}

// ListByClass returns the subjects of a class
func (r *PostgresSubjectRepository) ListByClass(ctx context.Context, classID int64) ([]models.Subject, error) {
	sql, args, err := selectSubjectQuery().Where(squirrel.Eq{"sb.class_id": classID}).OrderBy("sb.id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building subjects by class SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	subjects := make([]models.Subject, 0)
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, translateError(err, nil, "")
		}
		subjects = append(subjects, s)
	}
	return subjects, translateError(rows.Err(), nil, "")
}

// SetClass moves subjects into classID, or out of any class when classID is nil
func (r *PostgresSubjectRepository) SetClass(ctx context.Context, subjectIDs []int64, classID *int64) error {
	if len(subjectIDs) == 0 {
		return nil
	}
	_, err := execAffected(ctx, r.db.Conn(ctx), psql.Update("subjects").
		Set("class_id", classID).
		Where(squirrel.Eq{"id": subjectIDs}), subjectConflict)
	return err
}

// DeleteByClass deletes every subject of a class
func (r *PostgresSubjectRepository) DeleteByClass(ctx context.Context, classID int64) (int64, error) {
	return execAffected(ctx, r.db.Conn(ctx), psql.Delete("subjects").Where(squirrel.Eq{"class_id": classID}), "")
}

// ExistingIDs returns which of ids are subjects
func (r *PostgresSubjectRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return existingIDs(ctx, r.db.Conn(ctx), "subjects", ids)
}
