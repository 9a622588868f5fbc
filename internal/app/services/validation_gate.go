package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

// ValidationGate checks references before anything is written. It only reads.
type ValidationGate struct {
	repos *repositories.Repositories
}

// NewValidationGate creates a validation gate
func NewValidationGate(repos *repositories.Repositories) *ValidationGate {
	return &ValidationGate{repos: repos}
}

// ValidateReferences fails with NotFound listing every id of kind that does not exist.
// Duplicates are collapsed and an empty list is valid.
func (g *ValidationGate) ValidateReferences(ctx context.Context, kind models.EntityKind, ids []int64) error {
	wanted := uniqueIDs(ids)
	if len(wanted) == 0 {
		return nil
	}

	var (
		found []int64
		err   error
	)
	switch kind {
	case models.KindClass:
		found, err = g.repos.Classes.ExistingIDs(ctx, wanted)
	case models.KindStudent:
		found, err = g.repos.Students.ExistingIDs(ctx, wanted)
	case models.KindTeacher:
		found, err = g.repos.Teachers.ExistingIDs(ctx, wanted)
	case models.KindSubject:
		found, err = g.repos.Subjects.ExistingIDs(ctx, wanted)
	case models.KindExam:
		found, err = g.repos.Exams.ExistingIDs(ctx, wanted)
	default:
		return apperrors.NewInternalError(fmt.Sprintf("unknown entity kind %q", kind), nil)
	}
	if err != nil {
		return fmt.Errorf("error checking %s references: %w", kind, err)
	}

	missing, _ := DiffIDs(found, wanted)
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("%s not found: %v", kind, missing)).
		WithDetails(map[string]interface{}{"kind": kind, "missing": missing})
}

// ValidateClassTeacherSlot fails with Conflict when linking classID and teacherID
// would give the class a second class teacher or the teacher a second class.
// Re-asserting the current pair is allowed.
func (g *ValidationGate) ValidateClassTeacherSlot(ctx context.Context, classID, teacherID int64) error {
	current, led, err := g.repos.Relations.ClassTeacherOf(ctx, classID)
	if err != nil {
		return fmt.Errorf("error reading class teacher: %w", err)
	}
	if led && current != teacherID {
		return apperrors.NewConflictError("class already has a class teacher").
			WithDetails(map[string]interface{}{"classId": classID, "classTeacherId": current})
	}

	leads, leading, err := g.repos.Relations.ClassLedBy(ctx, teacherID)
	if err != nil {
		return fmt.Errorf("error reading teacher's class: %w", err)
	}
	if leading && leads != classID {
		return apperrors.NewConflictError("teacher is already class teacher of another class").
			WithDetails(map[string]interface{}{"teacherId": teacherID, "classId": leads})
	}
	return nil
}

// uniqueIDs returns ids without duplicates, ascending
func uniqueIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
