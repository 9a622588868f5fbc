package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

var complaintColumns = []string{"id", "student_id", "body", "status", "created_at", "updated_at"}

// PostgresComplaintRepository handles database operations for complaints
type PostgresComplaintRepository struct {
	db *db.PostgresDB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(database *db.PostgresDB) *PostgresComplaintRepository {
	return &PostgresComplaintRepository{db: database}
}

// Create inserts a complaint
func (r *PostgresComplaintRepository) Create(ctx context.Context, c *models.Complaint) error {
	sql, args, err := psql.Insert("complaints").
		Columns("student_id", "body", "status").
		Values(c.StudentID, c.Body, c.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create complaint SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return translateError(err, nil, "complaint already exists")
}

// GetByID retrieves a complaint
func (r *PostgresComplaintRepository) GetByID(ctx context.Context, id int64) (*models.Complaint, error) {
	sql, args, err := psql.Select(complaintColumns...).From("complaints").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get complaint SQL")
		return nil, err
	}

	var c models.Complaint
	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).
		Scan(&c.ID, &c.StudentID, &c.Body, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateError(err, apperrors.ErrComplaintNotFound, "")
	}
	return &c, nil
}

// List returns a page of complaints, newest first
func (r *PostgresComplaintRepository) List(ctx context.Context, studentID *int64, offset uint64, limit int) ([]models.Complaint, int64, error) {
	count := psql.Select("COUNT(*)").From("complaints")
	query := psql.Select(complaintColumns...).From("complaints")
	if studentID != nil {
		count = count.Where(squirrel.Eq{"student_id": *studentID})
		query = query.Where(squirrel.Eq{"student_id": *studentID})
	}

	total, err := countRows(ctx, r.db.Conn(ctx), count)
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := query.OrderBy("created_at DESC", "id DESC").Limit(uint64(limit)).Offset(offset).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building complaint list SQL")
		return nil, 0, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, translateError(err, nil, "")
	}
	defer rows.Close()

	out := make([]models.Complaint, 0)
	for rows.Next() {
		var c models.Complaint
		if err := rows.Scan(&c.ID, &c.StudentID, &c.Body, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, translateError(err, nil, "")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, nil, "")
	}
	return out, total, nil
}

// SetStatus moves a complaint to status
func (r *PostgresComplaintRepository) SetStatus(ctx context.Context, id int64, status models.ComplaintStatus) error {
	builder := psql.Update("complaints").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})
	affected, err := execAffected(ctx, r.db.Conn(ctx), builder, "")
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrComplaintNotFound
	}
	return nil
}

// Delete removes a complaint
func (r *PostgresComplaintRepository) Delete(ctx context.Context, id int64) error {
	affected, err := execAffected(ctx, r.db.Conn(ctx), psql.Delete("complaints").Where(squirrel.Eq{"id": id}), "")
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrComplaintNotFound
	}
	return nil
}
