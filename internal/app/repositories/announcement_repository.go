package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

var announcementColumns = []string{"id", "title", "content", "audience", "created_by_role", "created_by_id", "created_at"}

// PostgresAnnouncementRepository handles database operations for announcements
type PostgresAnnouncementRepository struct {
	db *db.PostgresDB
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(database *db.PostgresDB) *PostgresAnnouncementRepository {
	return &PostgresAnnouncementRepository{db: database}
}

// Create inserts an announcement
func (r *PostgresAnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	sql, args, err := psql.Insert("announcements").
		Columns("title", "content", "audience", "created_by_role", "created_by_id").
		Values(a.Title, a.Content, a.Audience, a.CreatedBy.Role, a.CreatedBy.ID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create announcement SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt)
	return translateError(err, nil, "announcement already exists")
}

// GetByID retrieves an announcement
func (r *PostgresAnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	sql, args, err := psql.Select(announcementColumns...).From("announcements").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get announcement SQL")
		return nil, err
	}

	var a models.Announcement
	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).
		Scan(&a.ID, &a.Title, &a.Content, &a.Audience, &a.CreatedBy.Role, &a.CreatedBy.ID, &a.CreatedAt)
	if err != nil {
		return nil, translateError(err, apperrors.ErrAnnouncementNotFound, "")
	}
	return &a, nil
}

// List returns a page of announcements for the given audiences, newest first
func (r *PostgresAnnouncementRepository) List(ctx context.Context, audiences []models.Audience, offset uint64, limit int) ([]models.Announcement, int64, error) {
	total, err := countRows(ctx, r.db.Conn(ctx), audienceFilter(psql.Select("COUNT(*)").From("announcements"), audiences))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := audienceFilter(psql.Select(announcementColumns...).From("announcements"), audiences).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).Offset(offset).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building announcement list SQL")
		return nil, 0, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, translateError(err, nil, "")
	}
	defer rows.Close()

	out := make([]models.Announcement, 0)
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Audience, &a.CreatedBy.Role, &a.CreatedBy.ID, &a.CreatedAt); err != nil {
			return nil, 0, translateError(err, nil, "")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, nil, "")
	}
	return out, total, nil
}

// Delete removes an announcement
func (r *PostgresAnnouncementRepository) Delete(ctx context.Context, id int64) error {
	affected, err := execAffected(ctx, r.db.Conn(ctx), psql.Delete("announcements").Where(squirrel.Eq{"id": id}), "")
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrAnnouncementNotFound
	}
	return nil
}

// audienceFilter narrows builder to audiences. No audiences means no filter.
func audienceFilter(builder squirrel.SelectBuilder, audiences []models.Audience) squirrel.SelectBuilder {
	if len(audiences) == 0 {
		return builder
	}
	values := make([]string, 0, len(audiences))
	for _, a := range audiences {
		values = append(values, string(a))
	}
	return builder.Where(squirrel.Eq{"audience": values})
}
