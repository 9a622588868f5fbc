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

var eventColumns = []string{"id", "title", "content", "event_date", "venue", "audience", "created_by_role", "created_by_id", "created_at"}

// PostgresEventRepository handles database operations for events
type PostgresEventRepository struct {
	db *db.PostgresDB
}

// NewEventRepository creates a new event repository
func NewEventRepository(database *db.PostgresDB) *PostgresEventRepository {
	return &PostgresEventRepository{db: database}
}

// Create inserts an event
func (r *PostgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	sql, args, err := psql.Insert("events").
		Columns("title", "content", "event_date", "venue", "audience", "created_by_role", "created_by_id").
		Values(e.Title, e.Content, e.EventDate, e.Venue, e.Audience, e.CreatedBy.Role, e.CreatedBy.ID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&e.ID, &e.CreatedAt)
	return translateError(err, nil, "event already exists")
}

// GetByID retrieves an event
func (r *PostgresEventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := psql.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get event SQL")
		return nil, err
	}

	e, err := scanEvent(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, apperrors.ErrEventNotFound, "")
	}
	return &e, nil
}

// GetByIDs returns the events among ids, ascending by id
func (r *PostgresEventRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	return r.collect(ctx, psql.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": ids}).OrderBy("id"))
}

// List returns a page of events for the given audiences, latest date first
func (r *PostgresEventRepository) List(ctx context.Context, audiences []models.Audience, offset uint64, limit int) ([]models.Event, int64, error) {
	total, err := countRows(ctx, r.db.Conn(ctx), audienceFilter(psql.Select("COUNT(*)").From("events"), audiences))
	if err != nil {
		return nil, 0, err
	}

	events, err := r.collect(ctx, audienceFilter(psql.Select(eventColumns...).From("events"), audiences).
		OrderBy("event_date DESC", "id DESC").
		Limit(uint64(limit)).Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// DeleteByIDs removes every event in ids
func (r *PostgresEventRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := execAffected(ctx, r.db.Conn(ctx), psql.Delete("events").Where(squirrel.Eq{"id": ids}), "")
	return err
}

func (r *PostgresEventRepository) collect(ctx context.Context, builder squirrel.SelectBuilder) ([]models.Event, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building event query SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, translateError(err, nil, "")
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, nil, "")
	}
	return events, nil
}

func scanEvent(row pgx.Row) (models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Content, &e.EventDate, &e.Venue, &e.Audience, &e.CreatedBy.Role, &e.CreatedBy.ID, &e.CreatedAt)
	return e, err
}
