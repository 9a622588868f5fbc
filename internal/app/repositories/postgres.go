package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/dberrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// NewPostgresRepositories initializes all repositories over one connection pool
func NewPostgresRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Transactor:    database,
		Classes:       NewClassRepository(database),
		Students:      NewStudentRepository(database),
		Teachers:      NewTeacherRepository(database),
		Subjects:      NewSubjectRepository(database),
		Relations:     NewRelationRepository(database),
		Fees:          NewFeeRepository(database),
		Payroll:       NewPayrollRepository(database),
		Exams:         NewExamRepository(database),
		Marks:         NewMarkRepository(database),
		Attendance:    NewAttendanceRepository(database),
		Expenses:      NewExpenseRepository(database),
		Announcements: NewAnnouncementRepository(database),
		Events:        NewEventRepository(database),
		Complaints:    NewComplaintRepository(database),
	}
}

// translateError maps driver errors onto the application taxonomy.
// notFound is returned for pgx.ErrNoRows; conflict describes a unique violation.
func translateError(err error, notFound error, conflict string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if notFound != nil {
			return notFound
		}
		return apperrors.ErrResourceNotFound
	case dberrors.IsUniqueViolation(err):
		ce := apperrors.NewConflictError(conflict)
		ce.Cause = err
		return ce.WithDetails(map[string]interface{}{"constraint": dberrors.ConstraintName(err)})
	case dberrors.IsRetryable(err):
		ce := apperrors.NewConflictError("concurrent modification, retry the request")
		ce.Cause = err
		return ce
	case dberrors.IsForeignKeyViolation(err):
		ce := apperrors.NewResourceNotFoundError("referenced entity not found")
		ce.Cause = err
		return ce
	case dberrors.IsCheckViolation(err):
		ce := apperrors.NewValidationError("value out of range")
		ce.Cause = err
		return ce
	}

	return err
}

// existingIDs returns which of ids are present in table
func existingIDs(ctx context.Context, q db.Querier, table string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}

	sql, args, err := psql.Select("id").From(table).Where(squirrel.Eq{"id": ids}).OrderBy("id").ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error building existing ids SQL")
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}

	found, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	return found, nil
}

// countRows runs a count query built by squirrel
func countRows(ctx context.Context, q db.Querier, builder squirrel.SelectBuilder) (int64, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count SQL")
		return 0, err
	}

	var total int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, translateError(err, nil, "")
	}
	return total, nil
}

// execAffected runs a statement and returns the affected row count
func execAffected(ctx context.Context, q db.Querier, builder squirrel.Sqlizer, conflict string) (int64, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building statement SQL")
		return 0, err
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, translateError(err, nil, conflict)
	}
	return tag.RowsAffected(), nil
}

var (
	_ Transactor             = (*db.PostgresDB)(nil)
	_ ClassRepository        = (*PostgresClassRepository)(nil)
	_ StudentRepository      = (*PostgresStudentRepository)(nil)
	_ TeacherRepository      = (*PostgresTeacherRepository)(nil)
	_ SubjectRepository      = (*PostgresSubjectRepository)(nil)
	_ RelationRepository     = (*PostgresRelationRepository)(nil)
	_ FeeRepository          = (*PostgresFeeRepository)(nil)
	_ PayrollRepository      = (*PostgresPayrollRepository)(nil)
	_ ExamRepository         = (*PostgresExamRepository)(nil)
	_ MarkRepository         = (*PostgresMarkRepository)(nil)
	_ AttendanceRepository   = (*PostgresAttendanceRepository)(nil)
	_ ExpenseRepository      = (*PostgresExpenseRepository)(nil)
	_ AnnouncementRepository = (*PostgresAnnouncementRepository)(nil)
	_ EventRepository        = (*PostgresEventRepository)(nil)
	_ ComplaintRepository    = (*PostgresComplaintRepository)(nil)
)
