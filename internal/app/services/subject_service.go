package services

import (
	"context"
	"fmt"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
)

// SubjectService defines the interface for subject operations
type SubjectService interface {
	CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error)
	GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error)
	GetSubjectsByClass(ctx context.Context, classID int64) ([]models.Subject, error)
}

type subjectServiceImpl struct {
	repos *repositories.Repositories
	graph *GraphManager
}

// NewSubjectService creates a new SubjectService
func NewSubjectService(repos *repositories.Repositories, graph *GraphManager) SubjectService {
	return &subjectServiceImpl{
		repos: repos,
		graph: graph,
	}
}

func (s *subjectServiceImpl) CreateSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	return s.graph.RegisterSubject(ctx, req)
}

func (s *subjectServiceImpl) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	return s.repos.Subjects.GetByID(ctx, id)
}

// GetSubjectsByClass lists the subjects of an existing class
func (s *subjectServiceImpl) GetSubjectsByClass(ctx context.Context, classID int64) ([]models.Subject, error) {
	if _, err := s.repos.Classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	subjects, err := s.repos.Subjects.ListByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("error getting class subjects: %w", err)
	}
	return subjects, nil
}
