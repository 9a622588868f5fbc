package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	pkgAuth "github.com/yigit/schoolcore/internal/pkg/auth"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

// AuthorizationService scopes record reads to the caller
type AuthorizationService struct {
	studentRepo repositories.StudentRepository
	teacherRepo repositories.TeacherRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(studentRepo repositories.StudentRepository, teacherRepo repositories.TeacherRepository) *AuthorizationService {
	return &AuthorizationService{
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
	}
}

// IsEnrolledStudent reports whether the caller is a student whose record still exists.
// Students removed with their class keep valid tokens until expiry.
func (s *AuthorizationService) IsEnrolledStudent(ctx context.Context, p pkgAuth.Principal) (bool, error) {
	if p.Role != pkgAuth.RoleStudent {
		return false, nil
	}
	if _, err := s.studentRepo.GetByID(ctx, p.ID); err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return false, nil
		}
		logger.Error().Err(err).Int64("studentID", p.ID).Msg("Error getting student by ID in IsEnrolledStudent")
		return false, fmt.Errorf("failed to get student: %w", err)
	}
	return true, nil
}

// CanViewStudentRecords checks if the caller may read fees, marks or attendance of studentID
func (s *AuthorizationService) CanViewStudentRecords(ctx context.Context, p pkgAuth.Principal, studentID int64) (bool, error) {
	switch p.Role {
	case pkgAuth.RolePrincipal, pkgAuth.RoleTeacher:
		return true, nil
	case pkgAuth.RoleStudent:
		if p.ID != studentID {
			return false, nil
		}
		return s.IsEnrolledStudent(ctx, p)
	default:
		return false, nil
	}
}

// ValidateStudentRecordAccess returns ErrPermissionDenied when the caller may not read studentID's records
func (s *AuthorizationService) ValidateStudentRecordAccess(ctx context.Context, p pkgAuth.Principal, studentID int64) error {
	allowed, err := s.CanViewStudentRecords(ctx, p, studentID)
	if err != nil {
		return err
	}
	if !allowed {
		logger.Warn().Int64("callerID", p.ID).Str("role", p.Role).Int64("studentID", studentID).Msg("Student record access denied")
		return fmt.Errorf("%w: records of student %d", apperrors.ErrPermissionDenied, studentID)
	}
	return nil
}

// CanViewTeacherRecords checks if the caller may read payroll or attendance of teacherID
func (s *AuthorizationService) CanViewTeacherRecords(ctx context.Context, p pkgAuth.Principal, teacherID int64) (bool, error) {
	switch p.Role {
	case pkgAuth.RolePrincipal:
		return true, nil
	case pkgAuth.RoleTeacher:
		if p.ID != teacherID {
			return false, nil
		}
		if _, err := s.teacherRepo.GetByID(ctx, teacherID); err != nil {
			if errors.Is(err, apperrors.ErrTeacherNotFound) {
				return false, nil
			}
			logger.Error().Err(err).Int64("teacherID", teacherID).Msg("Error getting teacher by ID in CanViewTeacherRecords")
			return false, fmt.Errorf("failed to get teacher: %w", err)
		}
		return true, nil
	default:
		return false, nil
	}
}

// ValidateTeacherRecordAccess returns ErrPermissionDenied when the caller may not read teacherID's records
func (s *AuthorizationService) ValidateTeacherRecordAccess(ctx context.Context, p pkgAuth.Principal, teacherID int64) error {
	allowed, err := s.CanViewTeacherRecords(ctx, p, teacherID)
	if err != nil {
		return err
	}
	if !allowed {
		logger.Warn().Int64("callerID", p.ID).Str("role", p.Role).Int64("teacherID", teacherID).Msg("Teacher record access denied")
		return fmt.Errorf("%w: records of teacher %d", apperrors.ErrPermissionDenied, teacherID)
	}
	return nil
}
