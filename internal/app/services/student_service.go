package services

import (
	"context"
	"fmt"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// StudentService defines the interface for student operations
type StudentService interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error)
	GetStudents(ctx context.Context, page, size int) (*dto.StudentListResponse, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetStudentsByClass(ctx context.Context, classID int64) ([]models.Student, error)
	CountStudents(ctx context.Context) (int64, error)
}

type studentServiceImpl struct {
	repos *repositories.Repositories
	graph *GraphManager
}

// NewStudentService creates a new StudentService
func NewStudentService(repos *repositories.Repositories, graph *GraphManager) StudentService {
	return &studentServiceImpl{
		repos: repos,
		graph: graph,
	}
}

func (s *studentServiceImpl) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	return s.graph.RegisterStudent(ctx, req)
}

func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	return s.graph.UpdateStudent(ctx, id, req)
}

// GetStudents retrieves a page of students
func (s *studentServiceImpl) GetStudents(ctx context.Context, page, size int) (*dto.StudentListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	students, total, err := s.repos.Students.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting students: %w", err)
	}

	return &dto.StudentListResponse{
		Students:       students,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.repos.Students.GetByID(ctx, id)
}

// GetStudentsByClass lists the students of an existing class
func (s *studentServiceImpl) GetStudentsByClass(ctx context.Context, classID int64) ([]models.Student, error) {
	if _, err := s.repos.Classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	students, err := s.repos.Students.ListByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("error getting class students: %w", err)
	}
	return students, nil
}

func (s *studentServiceImpl) CountStudents(ctx context.Context) (int64, error) {
	n, err := s.repos.Students.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return n, nil
}
