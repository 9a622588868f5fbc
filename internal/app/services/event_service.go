package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/auth"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

// EventService defines the interface for event operations
type EventService interface {
	CreateEvent(ctx context.Context, p auth.Principal, req dto.CreateEventRequest) (*models.Event, error)
	GetEvents(ctx context.Context, p auth.Principal, page, size int) (*dto.EventListResponse, error)
	GetEvent(ctx context.Context, p auth.Principal, id int64) (*models.Event, error)
	DeleteEvents(ctx context.Context, p auth.Principal, ids []int64) ([]int64, error)
}

type eventServiceImpl struct {
	repos *repositories.Repositories
	tx    *TransactionCoordinator
	log   zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(repos *repositories.Repositories, tx *TransactionCoordinator) EventService {
	return &eventServiceImpl{
		repos: repos,
		tx:    tx,
		log:   logger.WithField("service", "event"),
	}
}

func (s *eventServiceImpl) CreateEvent(ctx context.Context, p auth.Principal, req dto.CreateEventRequest) (*models.Event, error) {
	date, err := parseDay(req.EventDate)
	if err != nil {
		return nil, err
	}
	audience, err := parseAudience(req.Audience)
	if err != nil {
		return nil, err
	}
	author, err := authorOf(ctx, s.repos, p)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:     req.Title,
		Content:   req.Content,
		EventDate: date,
		Venue:     req.Venue,
		Audience:  audience,
		CreatedBy: author,
	}
	if err := s.repos.Events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	s.log.Info().Int64("eventId", event.ID).Str("audience", string(audience)).Str("by", author.Role).Msg("Event published")
	return event, nil
}

// GetEvents retrieves the page of events visible to p, latest date first
func (s *eventServiceImpl) GetEvents(ctx context.Context, p auth.Principal, page, size int) (*dto.EventListResponse, error) {
	audiences, err := audiencesFor(p)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	events, total, err := s.repos.Events.List(ctx, audiences, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting events: %w", err)
	}
	return &dto.EventListResponse{
		Events:         events,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *eventServiceImpl) GetEvent(ctx context.Context, p auth.Principal, id int64) (*models.Event, error) {
	event, err := s.repos.Events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAudience(p, event.Audience); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvents removes a batch of events, all or none. Every id must exist and
// teachers may only remove their own events.
func (s *eventServiceImpl) DeleteEvents(ctx context.Context, p auth.Principal, ids []int64) ([]int64, error) {
	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)
	if len(unique) == 0 {
		return nil, fmt.Errorf("%w: no event ids given", apperrors.ErrValidationFailed)
	}

	err := s.tx.ExecuteAtomic(ctx, "delete_events", func(ctx context.Context) error {
		events, err := s.repos.Events.GetByIDs(ctx, unique)
		if err != nil {
			return err
		}
		if len(events) != len(unique) {
			found := make([]int64, 0, len(events))
			for _, e := range events {
				found = append(found, e.ID)
			}
			missing := make([]int64, 0, len(unique)-len(events))
			for _, id := range unique {
				if !slices.Contains(found, id) {
					missing = append(missing, id)
				}
			}
			return apperrors.ErrEventNotFound.WithDetails(map[string]interface{}{"missingIds": missing})
		}

		for _, e := range events {
			if !canRemove(p, e.CreatedBy) {
				return fmt.Errorf("%w: event %d belongs to another author", apperrors.ErrPermissionDenied, e.ID)
			}
		}
		return s.repos.Events.DeleteByIDs(ctx, unique)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Ints64("eventIds", unique).Str("by", p.Role).Msg("Events deleted")
	return unique, nil
}
