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

const teacherEmailConflict = "teacher with this email already exists"

// PostgresTeacherRepository handles database operations for teachers
type PostgresTeacherRepository struct {
	db *db.PostgresDB
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(database *db.PostgresDB) *PostgresTeacherRepository {
	return &PostgresTeacherRepository{db: database}
}

func selectTeacherQuery() squirrel.SelectBuilder {
	return psql.Select(
		"t.id", "t.name", "t.email", "t.password_hash", "t.phone_number", "t.gender", "t.salary",
		"t.qualification", "t.created_at", "t.updated_at", "ct.class_id",
		"ARRAY(SELECT tc.class_id FROM teacher_classes tc WHERE tc.teacher_id = t.id ORDER BY tc.class_id) AS class_ids",
		"ARRAY(SELECT st.subject_id FROM subject_teachers st WHERE st.teacher_id = t.id ORDER BY st.subject_id) AS subject_ids",
	).From("teachers t").
		LeftJoin("class_teachers ct ON ct.teacher_id = t.id")
}

func scanTeacher(row pgx.Row) (models.Teacher, error) {
	var t models.Teacher
	err := row.Scan(
		&t.ID, &t.Name, &t.Email, &t.PasswordHash, &t.PhoneNumber, &t.Gender, &t.Salary,
		&t.Qualification, &t.CreatedAt, &t.UpdatedAt, &t.ClassTeacherOf,
		&t.AssignedClassIDs, &t.SubjectIDs,
	)
	return t, err
}

// Create inserts a teacher
func (r *PostgresTeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	sql, args, err := psql.Insert("teachers").
		Columns("name", "email", "password_hash", "phone_number", "gender", "salary", "qualification").
		Values(teacher.Name, teacher.Email, teacher.PasswordHash, teacher.PhoneNumber, teacher.Gender,
			teacher.Salary, teacher.Qualification).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create teacher SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&teacher.ID, &teacher.CreatedAt, &teacher.UpdatedAt)
	return translateError(err, nil, teacherEmailConflict)
}

// GetByID retrieves a teacher with class and subject references
func (r *PostgresTeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	sql, args, err := selectTeacherQuery().Where(squirrel.Eq{"t.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get teacher SQL")
		return nil, err
	}

	t, err := scanTeacher(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, apperrors.ErrTeacherNotFound, "")
	}
	return &t, nil
}

// List returns a page of teachers and the total count
func (r *PostgresTeacherRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Teacher, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := selectTeacherQuery().OrderBy("t.id").Limit(uint64(limit)).Offset(offset).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building teacher list SQL")
		return nil, 0, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, translateError(err, nil, "")
	}
	defer rows.Close()

	teachers := make([]models.Teacher, 0)
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, 0, translateError(err, nil, "")
		}
		teachers = append(teachers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, nil, "")
	}
	return teachers, total, nil
}

// ExistingIDs returns which of ids are teachers
func (r *PostgresTeacherRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return existingIDs(ctx, r.db.Conn(ctx), "teachers", ids)
}

// Count returns the number of teachers
func (r *PostgresTeacherRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Conn(ctx), psql.Select("COUNT(*)").From("teachers"))
}
