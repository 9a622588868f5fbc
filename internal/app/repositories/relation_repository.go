package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

const classTeacherConflict = "class teacher slot already taken"

// PostgresRelationRepository maintains the join tables of the entity graph
type PostgresRelationRepository struct {
	db *db.PostgresDB
}

// NewRelationRepository creates a new relation repository
func NewRelationRepository(database *db.PostgresDB) *PostgresRelationRepository {
	return &PostgresRelationRepository{db: database}
}

// lookupOne returns the single id selected by builder, if any
func (r *PostgresRelationRepository) lookupOne(ctx context.Context, builder squirrel.SelectBuilder) (int64, bool, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building relation lookup SQL")
		return 0, false, err
	}

	var id int64
	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, translateError(err, nil, "")
	}
	return id, true, nil
}

// listIDs returns the ids selected by builder
func (r *PostgresRelationRepository) listIDs(ctx context.Context, builder squirrel.SelectBuilder) ([]int64, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building relation list SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	return ids, nil
}

// link inserts (owner, other) pairs, ignoring pairs that already exist
func (r *PostgresRelationRepository) link(ctx context.Context, table, ownerCol, otherCol string, owner int64, others []int64) error {
	if len(others) == 0 {
		return nil
	}

	builder := psql.Insert(table).Columns(ownerCol, otherCol)
	for _, id := range others {
		builder = builder.Values(owner, id)
	}
	_, err := execAffected(ctx, r.db.Conn(ctx), builder.Suffix("ON CONFLICT DO NOTHING"), "")
	return err
}

// unlink deletes (owner, other) pairs
func (r *PostgresRelationRepository) unlink(ctx context.Context, table, ownerCol, otherCol string, owner int64, others []int64) error {
	if len(others) == 0 {
		return nil
	}
	_, err := execAffected(ctx, r.db.Conn(ctx), psql.Delete(table).
		Where(squirrel.Eq{ownerCol: owner, otherCol: others}), "")
	return err
}

// ClassTeacherOf returns the class teacher of a class
func (r *PostgresRelationRepository) ClassTeacherOf(ctx context.Context, classID int64) (int64, bool, error) {
	return r.lookupOne(ctx, psql.Select("teacher_id").From("class_teachers").Where(squirrel.Eq{"class_id": classID}))
}

// ClassLedBy returns the class a teacher leads
func (r *PostgresRelationRepository) ClassLedBy(ctx context.Context, teacherID int64) (int64, bool, error) {
	return r.lookupOne(ctx, psql.Select("class_id").From("class_teachers").Where(squirrel.Eq{"teacher_id": teacherID}))
}

// SetClassTeacher links a class and its class teacher. Both sides are unique keys,
// so a concurrent claim on either side fails with a conflict.
func (r *PostgresRelationRepository) SetClassTeacher(ctx context.Context, classID, teacherID int64) error {
	_, err := execAffected(ctx, r.db.Conn(ctx), psql.Insert("class_teachers").
		Columns("class_id", "teacher_id").
		Values(classID, teacherID), classTeacherConflict)
	return err
}

// UnsetClassTeacher removes the class teacher of a class
func (r *PostgresRelationRepository) UnsetClassTeacher(ctx context.Context, classID int64) error {
	_, err := execAffected(ctx, r.db.Conn(ctx), psql.Delete("class_teachers").Where(squirrel.Eq{"class_id": classID}), "")
	return err
}

// TeacherClassIDs returns the classes assigned to a teacher
func (r *PostgresRelationRepository) TeacherClassIDs(ctx context.Context, teacherID int64) ([]int64, error) {
	return r.listIDs(ctx, psql.Select("class_id").From("teacher_classes").
		Where(squirrel.Eq{"teacher_id": teacherID}).OrderBy("class_id"))
}

// AddTeacherClasses assigns classes to a teacher
func (r *PostgresRelationRepository) AddTeacherClasses(ctx context.Context, teacherID int64, classIDs []int64) error {
	return r.link(ctx, "teacher_classes", "teacher_id", "class_id", teacherID, classIDs)
}

// RemoveTeacherClasses unassigns classes from a teacher
func (r *PostgresRelationRepository) RemoveTeacherClasses(ctx context.Context, teacherID int64, classIDs []int64) error {
	return r.unlink(ctx, "teacher_classes", "teacher_id", "class_id", teacherID, classIDs)
}

// RemoveClassFromTeachers drops a class from every teacher's assigned classes
func (r *PostgresRelationRepository) RemoveClassFromTeachers(ctx context.Context, classID int64) (int64, error) {
	return execAffected(ctx, r.db.Conn(ctx), psql.Delete("teacher_classes").Where(squirrel.Eq{"class_id": classID}), "")
}

// TeacherSubjectIDs returns the subjects a teacher teaches
func (r *PostgresRelationRepository) TeacherSubjectIDs(ctx context.Context, teacherID int64) ([]int64, error) {
	return r.listIDs(ctx, psql.Select("subject_id").From("subject_teachers").
		Where(squirrel.Eq{"teacher_id": teacherID}).OrderBy("subject_id"))
}

// SubjectTeacherIDs returns the teachers of a subject
func (r *PostgresRelationRepository) SubjectTeacherIDs(ctx context.Context, subjectID int64) ([]int64, error) {
	return r.listIDs(ctx, psql.Select("teacher_id").From("subject_teachers").
		Where(squirrel.Eq{"subject_id": subjectID}).OrderBy("teacher_id"))
}

// AddTeacherSubjects links subjects to a teacher
func (r *PostgresRelationRepository) AddTeacherSubjects(ctx context.Context, teacherID int64, subjectIDs []int64) error {
	return r.link(ctx, "subject_teachers", "teacher_id", "subject_id", teacherID, subjectIDs)
}

// RemoveTeacherSubjects unlinks subjects from a teacher
func (r *PostgresRelationRepository) RemoveTeacherSubjects(ctx context.Context, teacherID int64, subjectIDs []int64) error {
	return r.unlink(ctx, "subject_teachers", "teacher_id", "subject_id", teacherID, subjectIDs)
}

// StudentSubjectIDs returns the subjects a student takes
func (r *PostgresRelationRepository) StudentSubjectIDs(ctx context.Context, studentID int64) ([]int64, error) {
	return r.listIDs(ctx, psql.Select("subject_id").From("subject_students").
		Where(squirrel.Eq{"student_id": studentID}).OrderBy("subject_id"))
}

// SubjectStudentIDs returns the students of a subject
func (r *PostgresRelationRepository) SubjectStudentIDs(ctx context.Context, subjectID int64) ([]int64, error) {
	return r.listIDs(ctx, psql.Select("student_id").From("subject_students").
		Where(squirrel.Eq{"subject_id": subjectID}).OrderBy("student_id"))
}

// AddStudentSubjects enrolls a student in subjects
func (r *PostgresRelationRepository) AddStudentSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error {
	return r.link(ctx, "subject_students", "student_id", "subject_id", studentID, subjectIDs)
}

// RemoveStudentSubjects withdraws a student from subjects
func (r *PostgresRelationRepository) RemoveStudentSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error {
	return r.unlink(ctx, "subject_students", "student_id", "subject_id", studentID, subjectIDs)
}
