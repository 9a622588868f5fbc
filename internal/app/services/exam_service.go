package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

// ExamService defines the interface for exam and mark operations
type ExamService interface {
	CreateExam(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error)
	GetExams(ctx context.Context) ([]models.Exam, error)
	SetExamTimetable(ctx context.Context, id int64, url string) error
	AddMarks(ctx context.Context, req dto.AddMarksRequest) ([]models.Mark, error)
	GetMarks(ctx context.Context, studentID, examID int64) ([]models.Mark, error)
	DeleteMarks(ctx context.Context, studentID, subjectID int64, examID *int64) (int64, error)
}

type examServiceImpl struct {
	repos *repositories.Repositories
	tx    *TransactionCoordinator
	gate  *ValidationGate
	log   zerolog.Logger
}

// NewExamService creates a new ExamService
func NewExamService(repos *repositories.Repositories, tx *TransactionCoordinator, gate *ValidationGate) ExamService {
	return &examServiceImpl{
		repos: repos,
		tx:    tx,
		gate:  gate,
		log:   logger.WithField("service", "exam"),
	}
}

// CreateExam creates an exam on a calendar date
func (s *examServiceImpl) CreateExam(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	date, err := helpers.ParseDate(req.ExamDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, err.Error())
	}

	exam := &models.Exam{Name: req.Name, ExamDate: date}
	if err := s.repos.Exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("error creating exam: %w", err)
	}
	return exam, nil
}

func (s *examServiceImpl) GetExams(ctx context.Context) ([]models.Exam, error) {
	exams, err := s.repos.Exams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting exams: %w", err)
	}
	return exams, nil
}

func (s *examServiceImpl) SetExamTimetable(ctx context.Context, id int64, url string) error {
	return s.repos.Exams.SetTimetable(ctx, id, url)
}

// AddMarks records a batch of subject scores for one student in one exam.
// The whole batch is written or none of it.
func (s *examServiceImpl) AddMarks(ctx context.Context, req dto.AddMarksRequest) ([]models.Mark, error) {
	if len(req.Marks) == 0 {
		return nil, apperrors.NewValidationError("at least one mark is required")
	}

	marks := make([]models.Mark, 0, len(req.Marks))
	subjectIDs := make([]int64, 0, len(req.Marks))
	for _, m := range req.Marks {
		maxMarks := models.DefaultMaxMarks
		if m.MaxMarks != nil {
			maxMarks = *m.MaxMarks
		}
		if maxMarks <= 0 || m.MarksObtained < 0 || m.MarksObtained > maxMarks {
			return nil, apperrors.NewValidationError("marks obtained must be between 0 and max marks").
				WithDetails(map[string]interface{}{"subjectId": m.SubjectID, "marksObtained": m.MarksObtained, "maxMarks": maxMarks})
		}
		marks = append(marks, models.Mark{
			StudentID:     req.StudentID,
			ClassID:       req.ClassID,
			SubjectID:     m.SubjectID,
			ExamID:        req.ExamID,
			MarksObtained: m.MarksObtained,
			MaxMarks:      maxMarks,
		})
		subjectIDs = append(subjectIDs, m.SubjectID)
	}

	err := s.tx.ExecuteAtomic(ctx, "add_marks", func(ctx context.Context) error {
		if err := s.gate.ValidateReferences(ctx, models.KindStudent, []int64{req.StudentID}); err != nil {
			return err
		}
		if err := s.gate.ValidateReferences(ctx, models.KindClass, []int64{req.ClassID}); err != nil {
			return err
		}
		if err := s.gate.ValidateReferences(ctx, models.KindExam, []int64{req.ExamID}); err != nil {
			return err
		}
		if err := s.gate.ValidateReferences(ctx, models.KindSubject, subjectIDs); err != nil {
			return err
		}
		return s.repos.Marks.CreateBatch(ctx, marks)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("studentId", req.StudentID).Int64("examId", req.ExamID).Int("subjects", len(marks)).Msg("Marks recorded")
	return s.repos.Marks.ListByStudentExam(ctx, req.StudentID, req.ExamID)
}

// GetMarks returns a student's marks in one exam
func (s *examServiceImpl) GetMarks(ctx context.Context, studentID, examID int64) ([]models.Mark, error) {
	marks, err := s.repos.Marks.ListByStudentExam(ctx, studentID, examID)
	if err != nil {
		return nil, fmt.Errorf("error getting marks: %w", err)
	}
	return marks, nil
}

// DeleteMarks removes a student's marks in a subject, for one exam when examID is set
func (s *examServiceImpl) DeleteMarks(ctx context.Context, studentID, subjectID int64, examID *int64) (int64, error) {
	n, err := s.repos.Marks.DeleteByStudentSubject(ctx, studentID, subjectID, examID)
	if err != nil {
		return 0, fmt.Errorf("error deleting marks: %w", err)
	}
	if n == 0 {
		return 0, apperrors.ErrMarkNotFound
	}
	return n, nil
}
