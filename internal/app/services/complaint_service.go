package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/auth"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

const (
	complaintMinLength = 10
	complaintMaxLength = 500
)

// ComplaintService defines the interface for student complaints
type ComplaintService interface {
	FileComplaint(ctx context.Context, p auth.Principal, req dto.CreateComplaintRequest) (*models.Complaint, error)
	GetComplaints(ctx context.Context, p auth.Principal, page, size int) (*dto.ComplaintListResponse, error)
	GetComplaint(ctx context.Context, p auth.Principal, id int64) (*models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, p auth.Principal, id int64, status string) (*models.Complaint, error)
	DeleteComplaint(ctx context.Context, p auth.Principal, id int64) error
}

type complaintServiceImpl struct {
	repos *repositories.Repositories
	log   zerolog.Logger
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(repos *repositories.Repositories) ComplaintService {
	return &complaintServiceImpl{
		repos: repos,
		log:   logger.WithField("service", "complaint"),
	}
}

// FileComplaint records a complaint from an enrolled student
func (s *complaintServiceImpl) FileComplaint(ctx context.Context, p auth.Principal, req dto.CreateComplaintRequest) (*models.Complaint, error) {
	if p.Role != auth.RoleStudent {
		return nil, fmt.Errorf("%w: only students may file complaints", apperrors.ErrPermissionDenied)
	}
	body := strings.TrimSpace(req.Complaint)
	if n := utf8.RuneCountInString(body); n < complaintMinLength || n > complaintMaxLength {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("complaint must be between %d and %d characters", complaintMinLength, complaintMaxLength))
	}
	if _, err := s.repos.Students.GetByID(ctx, p.ID); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, fmt.Errorf("%w: student %d is no longer enrolled", apperrors.ErrPermissionDenied, p.ID)
		}
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	complaint := &models.Complaint{StudentID: p.ID, Body: body, Status: models.ComplaintPending}
	if err := s.repos.Complaints.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("error creating complaint: %w", err)
	}
	s.log.Info().Int64("complaintId", complaint.ID).Int64("studentId", p.ID).Msg("Complaint filed")
	return complaint, nil
}

// GetComplaints lists every complaint for the principal and a student's own
// complaints for that student, newest first
func (s *complaintServiceImpl) GetComplaints(ctx context.Context, p auth.Principal, page, size int) (*dto.ComplaintListResponse, error) {
	var studentID *int64
	switch p.Role {
	case auth.RolePrincipal:
	case auth.RoleStudent:
		studentID = &p.ID
	default:
		return nil, fmt.Errorf("%w: complaints are visible to the principal and their authors", apperrors.ErrPermissionDenied)
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	complaints, total, err := s.repos.Complaints.List(ctx, studentID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting complaints: %w", err)
	}
	return &dto.ComplaintListResponse{
		Complaints:     complaints,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *complaintServiceImpl) GetComplaint(ctx context.Context, p auth.Principal, id int64) (*models.Complaint, error) {
	complaint, err := s.repos.Complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ownsComplaint(p, complaint) {
		return nil, fmt.Errorf("%w: complaint %d", apperrors.ErrPermissionDenied, id)
	}
	return complaint, nil
}

// UpdateComplaintStatus lets the principal move a complaint to any status
func (s *complaintServiceImpl) UpdateComplaintStatus(ctx context.Context, p auth.Principal, id int64, status string) (*models.Complaint, error) {
	if p.Role != auth.RolePrincipal {
		return nil, fmt.Errorf("%w: only the principal handles complaints", apperrors.ErrPermissionDenied)
	}
	next := models.ComplaintStatus(status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown complaint status %q", apperrors.ErrValidationFailed, status)
	}
	if err := s.repos.Complaints.SetStatus(ctx, id, next); err != nil {
		return nil, err
	}
	s.log.Info().Int64("complaintId", id).Str("status", status).Msg("Complaint status updated")
	return s.repos.Complaints.GetByID(ctx, id)
}

// DeleteComplaint lets the principal or the filing student withdraw a complaint
func (s *complaintServiceImpl) DeleteComplaint(ctx context.Context, p auth.Principal, id int64) error {
	complaint, err := s.repos.Complaints.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !ownsComplaint(p, complaint) {
		return fmt.Errorf("%w: complaint %d", apperrors.ErrPermissionDenied, id)
	}
	if err := s.repos.Complaints.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("complaintId", id).Str("by", p.Role).Msg("Complaint deleted")
	return nil
}

func ownsComplaint(p auth.Principal, c *models.Complaint) bool {
	return p.Role == auth.RolePrincipal || (p.Role == auth.RoleStudent && p.ID == c.StudentID)
}
