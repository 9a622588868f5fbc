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
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

// PasswordHasher hashes credentials of registered students and teachers
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// DiffIDs returns the ids to add and to remove to move a relation from
// existing to desired. Both results are ascending and free of duplicates.
func DiffIDs(existing, desired []int64) (toAdd, toRemove []int64) {
	have := uniqueIDs(existing)
	want := uniqueIDs(desired)

	toAdd = make([]int64, 0)
	toRemove = make([]int64, 0)
	for _, id := range want {
		if _, ok := slices.BinarySearch(have, id); !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range have {
		if _, ok := slices.BinarySearch(want, id); !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

// GraphManager applies mutations of the class, student, teacher and subject
// graph. Every operation validates first, then applies removals before
// additions inside one unit of work.
type GraphManager struct {
	repos  *repositories.Repositories
	tx     *TransactionCoordinator
	gate   *ValidationGate
	hasher PasswordHasher
	log    zerolog.Logger
}

// NewGraphManager creates a graph manager
func NewGraphManager(repos *repositories.Repositories, tx *TransactionCoordinator, gate *ValidationGate, hasher PasswordHasher) *GraphManager {
	return &GraphManager{
		repos:  repos,
		tx:     tx,
		gate:   gate,
		hasher: hasher,
		log:    logger.Component("graph"),
	}
}

// RegisterClass creates a class and claims the given students, subjects and class teacher
func (m *GraphManager) RegisterClass(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	var created *models.Class
	err := m.tx.ExecuteAtomic(ctx, "register_class", func(ctx context.Context) error {
		if err := m.gate.ValidateReferences(ctx, models.KindStudent, req.StudentIDs); err != nil {
			return err
		}
		if err := m.gate.ValidateReferences(ctx, models.KindSubject, req.SubjectIDs); err != nil {
			return err
		}
		if req.ClassTeacherID != nil {
			if err := m.gate.ValidateReferences(ctx, models.KindTeacher, []int64{*req.ClassTeacherID}); err != nil {
				return err
			}
		}

		class := &models.Class{
			Name:           req.Name,
			Section:        req.Section,
			Fee:            req.Fee,
			LateFineAmount: req.LateFineAmount,
		}
		if err := m.repos.Classes.Create(ctx, class); err != nil {
			return fmt.Errorf("error creating class: %w", err)
		}

		if err := m.repos.Students.SetClass(ctx, uniqueIDs(req.StudentIDs), &class.ID); err != nil {
			return fmt.Errorf("error moving students into class: %w", err)
		}
		if err := m.repos.Subjects.SetClass(ctx, uniqueIDs(req.SubjectIDs), &class.ID); err != nil {
			return fmt.Errorf("error moving subjects into class: %w", err)
		}
		if req.ClassTeacherID != nil {
			if err := m.linkClassTeacher(ctx, class.ID, *req.ClassTeacherID); err != nil {
				return err
			}
		}

		var err error
		created, err = m.repos.Classes.GetByID(ctx, class.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.log.Info().Int64("classId", created.ID).Str("name", created.Name).Msg("Class registered")
	return created, nil
}

// linkClassTeacher makes teacherID the class teacher of classID and assigns
// the class to the teacher. Either side already linked elsewhere is a conflict.
func (m *GraphManager) linkClassTeacher(ctx context.Context, classID, teacherID int64) error {
	if err := m.gate.ValidateClassTeacherSlot(ctx, classID, teacherID); err != nil {
		return err
	}

	current, led, err := m.repos.Relations.ClassTeacherOf(ctx, classID)
	if err != nil {
		return fmt.Errorf("error reading class teacher: %w", err)
	}
	if !led || current != teacherID {
		if err := m.repos.Relations.SetClassTeacher(ctx, classID, teacherID); err != nil {
			return fmt.Errorf("error setting class teacher: %w", err)
		}
	}

	if err := m.repos.Relations.AddTeacherClasses(ctx, teacherID, []int64{classID}); err != nil {
		return fmt.Errorf("error assigning class to teacher: %w", err)
	}
	return nil
}

// UpdateClass replaces the class attributes and reconciles the reference sets
// present in the request
func (m *GraphManager) UpdateClass(ctx context.Context, id int64, req dto.UpdateClassRequest) (*models.Class, error) {
	var updated *models.Class
	err := m.tx.ExecuteAtomic(ctx, "update_class", func(ctx context.Context) error {
		class, err := m.repos.Classes.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.StudentIDs != nil {
			if err := m.gate.ValidateReferences(ctx, models.KindStudent, *req.StudentIDs); err != nil {
				return err
			}
		}
		if req.SubjectIDs != nil {
			if err := m.gate.ValidateReferences(ctx, models.KindSubject, *req.SubjectIDs); err != nil {
				return err
			}
		}
		if req.ClassTeacherID != nil {
			if err := m.gate.ValidateReferences(ctx, models.KindTeacher, []int64{*req.ClassTeacherID}); err != nil {
				return err
			}
		}

		class.Name = req.Name
		class.Section = req.Section
		class.Fee = req.Fee
		class.LateFineAmount = req.LateFineAmount
		if err := m.repos.Classes.Update(ctx, class); err != nil {
			return fmt.Errorf("error updating class: %w", err)
		}

		if req.StudentIDs != nil {
			toAdd, toRemove := DiffIDs(class.StudentIDs, *req.StudentIDs)
			if err := m.repos.Students.SetClass(ctx, toRemove, nil); err != nil {
				return fmt.Errorf("error removing students from class: %w", err)
			}
			if err := m.repos.Students.SetClass(ctx, toAdd, &class.ID); err != nil {
				return fmt.Errorf("error adding students to class: %w", err)
			}
		}

		if req.SubjectIDs != nil {
			toAdd, toRemove := DiffIDs(class.SubjectIDs, *req.SubjectIDs)
			if err := m.repos.Subjects.SetClass(ctx, toRemove, nil); err != nil {
				return fmt.Errorf("error removing subjects from class: %w", err)
			}
			if err := m.repos.Subjects.SetClass(ctx, toAdd, &class.ID); err != nil {
				return fmt.Errorf("error adding subjects to class: %w", err)
			}
		}

		switch {
		case req.RemoveClassTeacher:
			if err := m.repos.Relations.UnsetClassTeacher(ctx, class.ID); err != nil {
				return fmt.Errorf("error removing class teacher: %w", err)
			}
		case req.ClassTeacherID != nil:
			if class.ClassTeacherID != nil && *class.ClassTeacherID != *req.ClassTeacherID {
				if err := m.repos.Relations.UnsetClassTeacher(ctx, class.ID); err != nil {
					return fmt.Errorf("error removing class teacher: %w", err)
				}
			}
			if err := m.linkClassTeacher(ctx, class.ID, *req.ClassTeacherID); err != nil {
				return err
			}
		}

		updated, err = m.repos.Classes.GetByID(ctx, class.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteClass removes a class together with its students and subjects, drops
// it from every teacher and clears its class teacher. The whole cascade is one
// unit of work and is verified before the class row goes.
func (m *GraphManager) DeleteClass(ctx context.Context, id int64) error {
	var students, subjects, teachers int64
	err := m.tx.ExecuteAtomic(ctx, "delete_class", func(ctx context.Context) error {
		if _, err := m.repos.Classes.GetByID(ctx, id); err != nil {
			return err
		}

		var err error
		if students, err = m.repos.Students.DeleteByClass(ctx, id); err != nil {
			return fmt.Errorf("error deleting students of class: %w", err)
		}
		if subjects, err = m.repos.Subjects.DeleteByClass(ctx, id); err != nil {
			return fmt.Errorf("error deleting subjects of class: %w", err)
		}
		if teachers, err = m.repos.Relations.RemoveClassFromTeachers(ctx, id); err != nil {
			return fmt.Errorf("error removing class from teachers: %w", err)
		}
		if err := m.repos.Relations.UnsetClassTeacher(ctx, id); err != nil {
			return fmt.Errorf("error removing class teacher: %w", err)
		}

		refs, err := m.repos.Classes.References(ctx, id)
		if err != nil {
			return fmt.Errorf("error checking class references: %w", err)
		}
		if !refs.Clean() {
			return apperrors.NewInternalError("class still referenced after cascade", nil).
				WithDetails(map[string]interface{}{"classId": id, "references": refs})
		}

		return m.repos.Classes.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	m.log.Info().
		Int64("classId", id).
		Int64("students", students).
		Int64("subjects", subjects).
		Int64("teachers", teachers).
		Msg("Class deleted with its dependents")
	return nil
}

// RegisterStudent creates a student in an existing class
func (m *GraphManager) RegisterStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	hash, err := m.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	var created *models.Student
	err = m.tx.ExecuteAtomic(ctx, "register_student", func(ctx context.Context) error {
		if err := m.gate.ValidateReferences(ctx, models.KindClass, []int64{req.ClassID}); err != nil {
			return err
		}
		if err := m.gate.ValidateReferences(ctx, models.KindSubject, req.SubjectIDs); err != nil {
			return err
		}

		classID := req.ClassID
		student := &models.Student{
			Name:          req.Name,
			Email:         req.Email,
			PasswordHash:  hash,
			Gender:        req.Gender,
			ClassID:       &classID,
			Section:       req.Section,
			RollNumber:    req.RollNumber,
			Grade:         req.Grade,
			ParentName:    req.ParentName,
			ParentContact: req.ParentContact,
		}
		if err := m.repos.Students.Create(ctx, student); err != nil {
			return fmt.Errorf("error creating student: %w", err)
		}
		if err := m.repos.Relations.AddStudentSubjects(ctx, student.ID, uniqueIDs(req.SubjectIDs)); err != nil {
			return fmt.Errorf("error enrolling student in subjects: %w", err)
		}

		var err error
		created, err = m.repos.Students.GetByID(ctx, student.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStudent changes the provided profile fields, moves the student to
// another class and reconciles subjects when requested
func (m *GraphManager) UpdateStudent(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	var updated *models.Student
	err := m.tx.ExecuteAtomic(ctx, "update_student", func(ctx context.Context) error {
		student, err := m.repos.Students.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.ClassID != nil {
			if err := m.gate.ValidateReferences(ctx, models.KindClass, []int64{*req.ClassID}); err != nil {
				return err
			}
			classID := *req.ClassID
			student.ClassID = &classID
		}
		if req.SubjectIDs != nil {
			if err := m.gate.ValidateReferences(ctx, models.KindSubject, *req.SubjectIDs); err != nil {
				return err
			}
		}

		applyString(&student.Name, req.Name)
		applyString(&student.Section, req.Section)
		applyString(&student.RollNumber, req.RollNumber)
		applyString(&student.Grade, req.Grade)
		applyString(&student.ParentName, req.ParentName)
		applyString(&student.ParentContact, req.ParentContact)
		if err := m.repos.Students.Update(ctx, student); err != nil {
			return fmt.Errorf("error updating student: %w", err)
		}

		if req.SubjectIDs != nil {
			toAdd, toRemove := DiffIDs(student.SubjectIDs, *req.SubjectIDs)
			if err := m.repos.Relations.RemoveStudentSubjects(ctx, id, toRemove); err != nil {
				return fmt.Errorf("error withdrawing student from subjects: %w", err)
			}
			if err := m.repos.Relations.AddStudentSubjects(ctx, id, toAdd); err != nil {
				return fmt.Errorf("error enrolling student in subjects: %w", err)
			}
		}

		updated, err = m.repos.Students.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// RegisterTeacher creates a teacher with subjects, assigned classes and an
// optional class teacher slot
func (m *GraphManager) RegisterTeacher(ctx context.Context, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	hash, err := m.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	var created *models.Teacher
	err = m.tx.ExecuteAtomic(ctx, "register_teacher", func(ctx context.Context) error {
		if err := m.gate.ValidateReferences(ctx, models.KindSubject, req.SubjectIDs); err != nil {
			return err
		}
		if err := m.gate.ValidateReferences(ctx, models.KindClass, req.AssignedClassIDs); err != nil {
			return err
		}
		if req.ClassTeacherOf != nil {
			if err := m.gate.ValidateReferences(ctx, models.KindClass, []int64{*req.ClassTeacherOf}); err != nil {
				return err
			}
		}

		teacher := &models.Teacher{
			Name:          req.Name,
			Email:         req.Email,
			PasswordHash:  hash,
			PhoneNumber:   req.PhoneNumber,
			Gender:        req.Gender,
			Salary:        req.Salary,
			Qualification: req.Qualification,
		}
		if err := m.repos.Teachers.Create(ctx, teacher); err != nil {
			return fmt.Errorf("error creating teacher: %w", err)
		}
		if err := m.repos.Relations.AddTeacherClasses(ctx, teacher.ID, uniqueIDs(req.AssignedClassIDs)); err != nil {
			return fmt.Errorf("error assigning classes: %w", err)
		}
		if err := m.repos.Relations.AddTeacherSubjects(ctx, teacher.ID, uniqueIDs(req.SubjectIDs)); err != nil {
			return fmt.Errorf("error assigning subjects: %w", err)
		}
		if req.ClassTeacherOf != nil {
			if err := m.linkClassTeacher(ctx, *req.ClassTeacherOf, teacher.ID); err != nil {
				return err
			}
		}

		var err error
		created, err = m.repos.Teachers.GetByID(ctx, teacher.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AssignClassesAndSubjects adds classes and subjects to a teacher, keeping existing ones
func (m *GraphManager) AssignClassesAndSubjects(ctx context.Context, teacherID int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error) {
	return m.changeAssignments(ctx, "assign_teacher", teacherID, req, func(ctx context.Context, t *models.Teacher) error {
		if err := m.repos.Relations.AddTeacherClasses(ctx, t.ID, uniqueIDs(req.ClassIDs)); err != nil {
			return fmt.Errorf("error assigning classes: %w", err)
		}
		if err := m.repos.Relations.AddTeacherSubjects(ctx, t.ID, uniqueIDs(req.SubjectIDs)); err != nil {
			return fmt.Errorf("error assigning subjects: %w", err)
		}
		return nil
	})
}

// RemoveAssignments pulls classes and subjects from a teacher
func (m *GraphManager) RemoveAssignments(ctx context.Context, teacherID int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error) {
	return m.changeAssignments(ctx, "unassign_teacher", teacherID, req, func(ctx context.Context, t *models.Teacher) error {
		if err := m.repos.Relations.RemoveTeacherClasses(ctx, t.ID, uniqueIDs(req.ClassIDs)); err != nil {
			return fmt.Errorf("error unassigning classes: %w", err)
		}
		if err := m.repos.Relations.RemoveTeacherSubjects(ctx, t.ID, uniqueIDs(req.SubjectIDs)); err != nil {
			return fmt.Errorf("error unassigning subjects: %w", err)
		}
		return nil
	})
}

// ReplaceTeacherAssignments makes the teacher's classes and subjects exactly the requested sets
func (m *GraphManager) ReplaceTeacherAssignments(ctx context.Context, teacherID int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error) {
	return m.changeAssignments(ctx, "replace_teacher_assignments", teacherID, req, func(ctx context.Context, t *models.Teacher) error {
		addClasses, removeClasses := DiffIDs(t.AssignedClassIDs, req.ClassIDs)
		addSubjects, removeSubjects := DiffIDs(t.SubjectIDs, req.SubjectIDs)

		if err := m.repos.Relations.RemoveTeacherClasses(ctx, t.ID, removeClasses); err != nil {
			return fmt.Errorf("error unassigning classes: %w", err)
		}
		if err := m.repos.Relations.RemoveTeacherSubjects(ctx, t.ID, removeSubjects); err != nil {
			return fmt.Errorf("error unassigning subjects: %w", err)
		}
		if err := m.repos.Relations.AddTeacherClasses(ctx, t.ID, addClasses); err != nil {
			return fmt.Errorf("error assigning classes: %w", err)
		}
		if err := m.repos.Relations.AddTeacherSubjects(ctx, t.ID, addSubjects); err != nil {
			return fmt.Errorf("error assigning subjects: %w", err)
		}
		return nil
	})
}

func (m *GraphManager) changeAssignments(
	ctx context.Context,
	name string,
	teacherID int64,
	req dto.TeacherAssignmentsRequest,
	apply func(ctx context.Context, t *models.Teacher) error,
) (*models.Teacher, error) {
	var updated *models.Teacher
	err := m.tx.ExecuteAtomic(ctx, name, func(ctx context.Context) error {
		teacher, err := m.repos.Teachers.GetByID(ctx, teacherID)
		if err != nil {
			return err
		}
		if err := m.gate.ValidateReferences(ctx, models.KindClass, req.ClassIDs); err != nil {
			return err
		}
		if err := m.gate.ValidateReferences(ctx, models.KindSubject, req.SubjectIDs); err != nil {
			return err
		}
		if err := apply(ctx, teacher); err != nil {
			return err
		}

		updated, err = m.repos.Teachers.GetByID(ctx, teacherID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MakeClassTeacher links a teacher and a class one to one. A class with another
// class teacher, or a teacher leading another class, is a conflict and nothing is written.
func (m *GraphManager) MakeClassTeacher(ctx context.Context, teacherID, classID int64) (*models.Teacher, error) {
	var updated *models.Teacher
	err := m.tx.ExecuteAtomic(ctx, "make_class_teacher", func(ctx context.Context) error {
		if _, err := m.repos.Teachers.GetByID(ctx, teacherID); err != nil {
			return err
		}
		if _, err := m.repos.Classes.GetByID(ctx, classID); err != nil {
			return err
		}
		if err := m.linkClassTeacher(ctx, classID, teacherID); err != nil {
			return err
		}

		var err error
		updated, err = m.repos.Teachers.GetByID(ctx, teacherID)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.log.Info().Int64("teacherId", teacherID).Int64("classId", classID).Msg("Class teacher assigned")
	return updated, nil
}

// RegisterSubject creates a subject in a class, taught by the given teachers
// and taken by the given students
func (m *GraphManager) RegisterSubject(ctx context.Context, req dto.CreateSubjectRequest) (*models.Subject, error) {
	var created *models.Subject
	err := m.tx.ExecuteAtomic(ctx, "register_subject", func(ctx context.Context) error {
		if err := m.gate.ValidateReferences(ctx, models.KindClass, []int64{req.ClassID}); err != nil {
			return err
		}
		if err := m.gate.ValidateReferences(ctx, models.KindTeacher, req.TeacherIDs); err != nil {
			return err
		}
		if err := m.gate.ValidateReferences(ctx, models.KindStudent, req.StudentIDs); err != nil {
			return err
		}

		classID := req.ClassID
		subject := &models.Subject{Name: req.Name, ClassID: &classID}
		if err := m.repos.Subjects.Create(ctx, subject); err != nil {
			return fmt.Errorf("error creating subject: %w", err)
		}
		for _, teacherID := range uniqueIDs(req.TeacherIDs) {
			if err := m.repos.Relations.AddTeacherSubjects(ctx, teacherID, []int64{subject.ID}); err != nil {
				return fmt.Errorf("error linking teacher to subject: %w", err)
			}
		}
		for _, studentID := range uniqueIDs(req.StudentIDs) {
			if err := m.repos.Relations.AddStudentSubjects(ctx, studentID, []int64{subject.ID}); err != nil {
				return fmt.Errorf("error enrolling student in subject: %w", err)
			}
		}

		var err error
		created, err = m.repos.Subjects.GetByID(ctx, subject.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
