package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// ClassService defines the interface for class operations
type ClassService interface {
	CreateClass(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error)
	UpdateClass(ctx context.Context, id int64, req dto.UpdateClassRequest) (*models.Class, error)
	DeleteClass(ctx context.Context, id int64) error
	GetClasses(ctx context.Context, page, size int) (*dto.ClassListResponse, error)
	GetAllClasses(ctx context.Context) ([]models.Class, error)
	GetClassByID(ctx context.Context, id int64) (*dto.ClassDetailResponse, error)
	GetClassFee(ctx context.Context, id int64) (*dto.ClassFeeResponse, error)
	SetClassTimetable(ctx context.Context, id int64, url string) error
}

// classServiceImpl implements ClassService
type classServiceImpl struct {
	repos *repositories.Repositories
	graph *GraphManager
}

// NewClassService creates a new ClassService
func NewClassService(repos *repositories.Repositories, graph *GraphManager) ClassService {
	return &classServiceImpl{
		repos: repos,
		graph: graph,
	}
}

// CreateClass registers a class with its initial references
func (s *classServiceImpl) CreateClass(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	return s.graph.RegisterClass(ctx, req)
}

// UpdateClass changes class attributes and reference sets
func (s *classServiceImpl) UpdateClass(ctx context.Context, id int64, req dto.UpdateClassRequest) (*models.Class, error) {
	return s.graph.UpdateClass(ctx, id, req)
}

// DeleteClass removes a class and its dependents
func (s *classServiceImpl) DeleteClass(ctx context.Context, id int64) error {
	return s.graph.DeleteClass(ctx, id)
}

// GetClasses retrieves a page of classes
func (s *classServiceImpl) GetClasses(ctx context.Context, page, size int) (*dto.ClassListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	classes, total, err := s.repos.Classes.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting classes: %w", err)
	}

	return &dto.ClassListResponse{
		Classes:        classes,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// GetAllClasses retrieves every class without pagination
func (s *classServiceImpl) GetAllClasses(ctx context.Context) ([]models.Class, error) {
	classes, err := s.repos.Classes.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting classes: %w", err)
	}
	return classes, nil
}

// GetClassByID retrieves a class with its class teacher, students and subjects resolved
func (s *classServiceImpl) GetClassByID(ctx context.Context, id int64) (*dto.ClassDetailResponse, error) {
	class, err := s.repos.Classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.ClassDetailResponse{Class: *class}

	if class.ClassTeacherID != nil {
		teacher, err := s.repos.Teachers.GetByID(ctx, *class.ClassTeacherID)
		switch {
		case err == nil:
			resp.ClassTeacher = teacher
		case !errors.Is(err, apperrors.ErrResourceNotFound):
			return nil, fmt.Errorf("error getting class teacher: %w", err)
		}
	}

	if resp.Students, err = s.repos.Students.ListByClass(ctx, id); err != nil {
		return nil, fmt.Errorf("error getting class students: %w", err)
	}
	if resp.Subjects, err = s.repos.Subjects.ListByClass(ctx, id); err != nil {
		return nil, fmt.Errorf("error getting class subjects: %w", err)
	}
	return resp, nil
}

// GetClassFee returns the fee configuration of a class
func (s *classServiceImpl) GetClassFee(ctx context.Context, id int64) (*dto.ClassFeeResponse, error) {
	class, err := s.repos.Classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ClassFeeResponse{
		ClassID:        class.ID,
		Fee:            class.Fee,
		LateFineAmount: class.LateFineAmount,
	}, nil
}

// SetClassTimetable stores the URL of an uploaded timetable
func (s *classServiceImpl) SetClassTimetable(ctx context.Context, id int64, url string) error {
	return s.repos.Classes.SetTimetable(ctx, id, url)
}
