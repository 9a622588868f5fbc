package services

import (
	"context"
	"fmt"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// TeacherService defines the interface for teacher operations
type TeacherService interface {
	CreateTeacher(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error)
	AssignClassesAndSubjects(ctx context.Context, id int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error)
	RemoveAssignments(ctx context.Context, id int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error)
	ReplaceAssignments(ctx context.Context, id int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error)
	MakeClassTeacher(ctx context.Context, id int64, classID int64) (*models.Teacher, error)
	GetTeachers(ctx context.Context, page, size int) (*dto.TeacherListResponse, error)
	GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error)
	CountTeachers(ctx context.Context) (int64, error)
}

type teacherServiceImpl struct {
	repos *repositories.Repositories
	graph *GraphManager
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(repos *repositories.Repositories, graph *GraphManager) TeacherService {
	return &teacherServiceImpl{
		repos: repos,
		graph: graph,
	}
}

func (s *teacherServiceImpl) CreateTeacher(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	return s.graph.RegisterTeacher(ctx, req)
}

func (s *teacherServiceImpl) AssignClassesAndSubjects(ctx context.Context, id int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error) {
	return s.graph.AssignClassesAndSubjects(ctx, id, req)
}

func (s *teacherServiceImpl) RemoveAssignments(ctx context.Context, id int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error) {
	return s.graph.RemoveAssignments(ctx, id, req)
}

func (s *teacherServiceImpl) ReplaceAssignments(ctx context.Context, id int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error) {
	return s.graph.ReplaceTeacherAssignments(ctx, id, req)
}

func (s *teacherServiceImpl) MakeClassTeacher(ctx context.Context, id int64, classID int64) (*models.Teacher, error) {
	return s.graph.MakeClassTeacher(ctx, id, classID)
}

// GetTeachers retrieves a page of teachers
func (s *teacherServiceImpl) GetTeachers(ctx context.Context, page, size int) (*dto.TeacherListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	teachers, total, err := s.repos.Teachers.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting teachers: %w", err)
	}

	return &dto.TeacherListResponse{
		Teachers:       teachers,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// GetTeacherByID retrieves a teacher with classes, subjects and class teacher slot
func (s *teacherServiceImpl) GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error) {
	return s.repos.Teachers.GetByID(ctx, id)
}

func (s *teacherServiceImpl) CountTeachers(ctx context.Context) (int64, error) {
	n, err := s.repos.Teachers.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("error counting teachers: %w", err)
	}
	return n, nil
}
