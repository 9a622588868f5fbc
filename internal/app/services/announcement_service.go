package services

import (
	"context"
	"errors"
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

// AnnouncementService defines the interface for announcement operations
type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, p auth.Principal, req dto.CreateAnnouncementRequest) (*models.Announcement, error)
	GetAnnouncements(ctx context.Context, p auth.Principal, page, size int) (*dto.AnnouncementListResponse, error)
	GetAnnouncement(ctx context.Context, p auth.Principal, id int64) (*models.Announcement, error)
	DeleteAnnouncement(ctx context.Context, p auth.Principal, id int64) error
}

type announcementServiceImpl struct {
	repos *repositories.Repositories
	log   zerolog.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(repos *repositories.Repositories) AnnouncementService {
	return &announcementServiceImpl{
		repos: repos,
		log:   logger.WithField("service", "announcement"),
	}
}

// audiencesFor lists the audiences p may read. The principal reads all, which
// is an empty list.
func audiencesFor(p auth.Principal) ([]models.Audience, error) {
	switch p.Role {
	case auth.RolePrincipal:
		return nil, nil
	case auth.RoleTeacher:
		return []models.Audience{models.AudienceTeachers, models.AudienceEveryone}, nil
	case auth.RoleStudent:
		return []models.Audience{models.AudienceStudents, models.AudienceEveryone}, nil
	}
	return nil, apperrors.ErrPermissionDenied
}

// checkAudience returns ErrPermissionDenied when p may not read a notice for a
func checkAudience(p auth.Principal, a models.Audience) error {
	audiences, err := audiencesFor(p)
	if err != nil {
		return err
	}
	if audiences == nil || slices.Contains(audiences, a) {
		return nil
	}
	return fmt.Errorf("%w: notice addressed to %s", apperrors.ErrPermissionDenied, a)
}

// parseAudience defaults an empty audience to everyone
func parseAudience(raw string) (models.Audience, error) {
	if raw == "" {
		return models.AudienceEveryone, nil
	}
	a := models.Audience(raw)
	if !a.Valid() {
		return "", fmt.Errorf("%w: unknown audience %q", apperrors.ErrValidationFailed, raw)
	}
	return a, nil
}

// authorOf resolves who is publishing. Only the principal and teachers still
// on staff may publish.
func authorOf(ctx context.Context, repos *repositories.Repositories, p auth.Principal) (models.Author, error) {
	switch p.Role {
	case auth.RolePrincipal:
		return models.Author{Role: p.Role, ID: p.ID}, nil
	case auth.RoleTeacher:
		if _, err := repos.Teachers.GetByID(ctx, p.ID); err != nil {
			if errors.Is(err, apperrors.ErrTeacherNotFound) {
				return models.Author{}, fmt.Errorf("%w: teacher %d is no longer on staff", apperrors.ErrPermissionDenied, p.ID)
			}
			return models.Author{}, fmt.Errorf("error getting teacher: %w", err)
		}
		return models.Author{Role: p.Role, ID: p.ID}, nil
	}
	return models.Author{}, fmt.Errorf("%w: only staff may publish notices", apperrors.ErrPermissionDenied)
}

// canRemove reports whether p may delete a notice by author
func canRemove(p auth.Principal, author models.Author) bool {
	return p.Role == auth.RolePrincipal || (author.Role == p.Role && author.ID == p.ID)
}

func (s *announcementServiceImpl) CreateAnnouncement(ctx context.Context, p auth.Principal, req dto.CreateAnnouncementRequest) (*models.Announcement, error) {
	audience, err := parseAudience(req.Audience)
	if err != nil {
		return nil, err
	}
	author, err := authorOf(ctx, s.repos, p)
	if err != nil {
		return nil, err
	}

	announcement := &models.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		Audience:  audience,
		CreatedBy: author,
	}
	if err := s.repos.Announcements.Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("error creating announcement: %w", err)
	}
	s.log.Info().Int64("announcementId", announcement.ID).Str("audience", string(audience)).Str("by", author.Role).Msg("Announcement published")
	return announcement, nil
}

// GetAnnouncements retrieves the page of announcements visible to p, newest first
func (s *announcementServiceImpl) GetAnnouncements(ctx context.Context, p auth.Principal, page, size int) (*dto.AnnouncementListResponse, error) {
	audiences, err := audiencesFor(p)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	announcements, total, err := s.repos.Announcements.List(ctx, audiences, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting announcements: %w", err)
	}
	return &dto.AnnouncementListResponse{
		Announcements:  announcements,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *announcementServiceImpl) GetAnnouncement(ctx context.Context, p auth.Principal, id int64) (*models.Announcement, error) {
	announcement, err := s.repos.Announcements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkAudience(p, announcement.Audience); err != nil {
		return nil, err
	}
	return announcement, nil
}

// DeleteAnnouncement removes an announcement. Teachers may only remove their own.
func (s *announcementServiceImpl) DeleteAnnouncement(ctx context.Context, p auth.Principal, id int64) error {
	announcement, err := s.repos.Announcements.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canRemove(p, announcement.CreatedBy) {
		return fmt.Errorf("%w: announcement %d belongs to another author", apperrors.ErrPermissionDenied, id)
	}
	if err := s.repos.Announcements.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("announcementId", id).Str("by", p.Role).Msg("Announcement deleted")
	return nil
}
