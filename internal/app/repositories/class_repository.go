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

const classNameConflict = "class with this name already exists"

// PostgresClassRepository handles database operations for classes
type PostgresClassRepository struct {
	db *db.PostgresDB
}

// NewClassRepository creates a new class repository
func NewClassRepository(database *db.PostgresDB) *PostgresClassRepository {
	return &PostgresClassRepository{db: database}
}

// selectClassQuery selects a class together with its derived references
func selectClassQuery() squirrel.SelectBuilder {
	return psql.Select(
		"c.id", "c.name", "c.section", "c.fee", "c.late_fine_amount", "c.timetable_url",
		"c.created_at", "c.updated_at", "ct.teacher_id",
		"ARRAY(SELECT s.id FROM students s WHERE s.class_id = c.id ORDER BY s.id) AS student_ids",
		"ARRAY(SELECT sb.id FROM subjects sb WHERE sb.class_id = c.id ORDER BY sb.id) AS subject_ids",
	).From("classes c").
		LeftJoin("class_teachers ct ON ct.class_id = c.id")
}

func scanClass(row pgx.Row) (models.Class, error) {
	var c models.Class
	err := row.Scan(
		&c.ID, &c.Name, &c.Section, &c.Fee, &c.LateFineAmount, &c.TimetableURL,
		&c.CreatedAt, &c.UpdatedAt, &c.ClassTeacherID, &c.StudentIDs, &c.SubjectIDs,
	)
	return c, err
}

func (r *PostgresClassRepository) queryClasses(ctx context.Context, builder squirrel.SelectBuilder) ([]models.Class, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building class list SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	classes := make([]models.Class, 0)
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, translateError(err, nil, "")
		}
		classes = append(classes, c)
	}
	return classes, translateError(rows.Err(), nil, "")
}

// Create inserts a class
func (r *PostgresClassRepository) Create(ctx context.Context, class *models.Class) error {
	sql, args, err := psql.Insert("classes").
		Columns("name", "section", "fee", "late_fine_amount", "timetable_url").
		Values(class.Name, class.Section, class.Fee, class.LateFineAmount, class.TimetableURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create class SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
	return translateError(err, nil, classNameConflict)
}

// GetByID retrieves a class with its class teacher, students and subjects ids
func (r *PostgresClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	sql, args, err := selectClassQuery().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get class SQL")
		return nil, err
	}

	c, err := scanClass(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, apperrors.ErrClassNotFound, "")
	}
	return &c, nil
}

// List returns a page of classes and the total count
func (r *PostgresClassRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Class, int64, error) {
	total, err := countRows(ctx, r.db.Conn(ctx), psql.Select("COUNT(*)").From("classes"))
	if err != nil {
		return nil, 0, err
	}

	classes, err := r.queryClasses(ctx, selectClassQuery().OrderBy("c.id").Limit(uint64(limit)).Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return classes, total, nil
}

// ListAll returns every class
func (r *PostgresClassRepository) ListAll(ctx context.Context) ([]models.Class, error) {
	return r.queryClasses(ctx, selectClassQuery().OrderBy("c.id"))
}

// Update replaces the scalar attributes of a class
func (r *PostgresClassRepository) Update(ctx context.Context, class *models.Class) error {
	affected, err := execAffected(ctx, r.db.Conn(ctx), psql.Update("classes").
		Set("name", class.Name).
		Set("section", class.Section).
		Set("fee", class.Fee).
		Set("late_fine_amount", class.LateFineAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": class.ID}), classNameConflict)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// SetTimetable stores the timetable URL of a class
func (r *PostgresClassRepository) SetTimetable(ctx context.Context, id int64, url string) error {
	affected, err := execAffected(ctx, r.db.Conn(ctx), psql.Update("classes").
		Set("timetable_url", url).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}), "")
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// Delete removes the class row
func (r *PostgresClassRepository) Delete(ctx context.Context, id int64) error {
	affected, err := execAffected(ctx, r.db.Conn(ctx), psql.Delete("classes").Where(squirrel.Eq{"id": id}), "")
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// ExistingIDs returns which of ids are classes
func (r *PostgresClassRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	return existingIDs(ctx, r.db.Conn(ctx), "classes", ids)
}

// References counts rows that still point at the class
func (r *PostgresClassRepository) References(ctx context.Context, id int64) (models.ClassReferences, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM students WHERE class_id = $1),
			(SELECT COUNT(*) FROM subjects WHERE class_id = $1),
			(SELECT COUNT(*) FROM teacher_classes WHERE class_id = $1),
			(SELECT COUNT(*) FROM class_teachers WHERE class_id = $1)
	`

	var refs models.ClassReferences
	err := r.db.Conn(ctx).QueryRow(ctx, query, id).Scan(
		&refs.Students, &refs.Subjects, &refs.TeacherAssigned, &refs.ClassTeacherLink,
	)
	if err != nil {
		return refs, translateError(err, nil, "")
	}
	return refs, nil
}
