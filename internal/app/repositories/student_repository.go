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

const studentEmailConflict = "student with this email already exists"

// PostgresStudentRepository handles database operations for students
type PostgresStudentRepository struct {
	db *db.PostgresDB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(database *db.PostgresDB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: database}
}

func selectStudentQuery() squirrel.SelectBuilder {
	return psql.Select(
		"s.id", "s.name", "s.email", "s.password_hash", "s.gender", "s.class_id", "s.section",
		"s.roll_number", "s.grade", "s.parent_name", "s.parent_contact", "s.created_at", "s.updated_at",
		"ARRAY(SELECT ss.subject_id FROM subject_students ss WHERE ss.student_id = s.id ORDER BY ss.subject_id) AS subject_ids",
	).From("students s")
}

func scanStudent(row pgx.Row) (models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.Gender, &s.ClassID, &s.Section,
		&s.RollNumber, &s.Grade, &s.ParentName, &s.ParentContact, &s.CreatedAt, &s.UpdatedAt,
		&s.SubjectIDs,
	)
	return s, err
}

func (r *PostgresStudentRepository) queryStudents(ctx context.Context, builder squirrel.SelectBuilder) ([]models.Student, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student list SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, translateError(err, nil, "")
		}
		students = append(students, s)
	}
	return students, translateError(rows.Err(), nil, "")
}

// Create inserts a student
func (r *PostgresStudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := psql.Insert("students").
		Columns("name", "email", "password_hash", "gender", "class_id", "section",
			"roll_number", "grade", "parent_name", "parent_contact").
		Values(student.Name, student.Email, student.PasswordHash, student.Gender, student.ClassID, student.Section,
			student.RollNumber, student.Grade, student.ParentName, student.ParentContact).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	return translateError(err, nil, studentEmailConflict)
}

// GetByID retrieves a student with subject ids
func (r *PostgresStudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := selectStudentQuery().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, err
	}

	s, err := scanStudent(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, apperrors.ErrStudentNotFound, "")
	}
	return &s, nil
}

// List returns a page of students and the total count
func (r *PostgresStudentRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Student, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	students, err := r.queryStudents(ctx, selectStudentQuery().OrderBy("s.id").Limit(uint64(limit)).Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// ListByClass returns the students of a class
func (r *PostgresStudentRepository) ListByClass(ctx context.Context, classID int64) ([]models.Student, error) {
	return r.queryStudents(ctx, selectStudentQuery().Where(squirrel.Eq{"s.class_id": classID}).OrderBy("s.id"))
}

// ListAssigned returns every student that belongs to a class
func (r *PostgresStudentRepository) ListAssigned(ctx context.Context) ([]models.Student, error) {
	return r.queryStudents(ctx, selectStudentQuery().Where(squirrel.NotEq{"s.class_id": nil}).OrderBy("s.id"))
}

// Update replaces the profile attributes and class of a student
func (r *PostgresStudentRepository) Update(ctx context.Context, student *models.Student) error {
	affected, err := execAffected(ctx, r.db.Conn(ctx), psql.Update("students").
		Set("name", student.Name).
		Set("class_id", student.ClassID).
		Set("section", student.Section).
		Set("roll_number", student.RollNumber).
		Set("grade", student.Grade).
		Set("parent_name", student.ParentName).
		Set("parent_contact", student.ParentContact).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": student.ID}), studentEmailConflict)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// SetClass moves students into classID, or out of any class when classID is nil
func (r *PostgresStudentRepository) SetClass(ctx context.Context, studentIDs []int64, classID *int64) error {
	if len(studentIDs) == 0 {
		return nil
	}
	_, err := execAffected(ctx, r.db.Conn(ctx), psql.Update("students").
		Set("class_id", classID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": studentIDs}), "")
	return err
}

// DeleteByClass deletes every student of a class
func (r *PostgresStudentRepository) DeleteByClass(ctx context.Context, classID int64) (int64, error) {
	return execAffected(ctx, r.db.Conn(ctx), psql.Delete("students").Where(squirrel.Eq{"class_id": classID}), "")
}

// ExistingIDs returns which of ids are students
func (r *PostgresStudentRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return existingIDs(ctx, r.db.Conn(ctx), "students", ids)
}

// Count returns the number of students
func (r *PostgresStudentRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Conn(ctx), psql.Select("COUNT(*)").From("students"))
}

// CountByGender returns the number of students of a gender
func (r *PostgresStudentRepository) CountByGender(ctx context.Context, gender models.Gender) (int64, error) {
	return countRows(ctx, r.db.Conn(ctx), psql.Select("COUNT(*)").From("students").Where(squirrel.Eq{"gender": gender}))
}
