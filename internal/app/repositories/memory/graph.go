package memory

import (
	"context"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

const (
	classNameConflict    = "class with this name already exists"
	studentEmailConflict = "student with this email already exists"
	teacherEmailConflict = "teacher with this email already exists"
	subjectConflict      = "subject with this name already exists in the class"
	classTeacherConflict = "class teacher slot already taken"
)

func (st *state) class(c models.Class) models.Class {
	if teacherID, ok := st.classTeacher[c.ID]; ok {
		c.ClassTeacherID = &teacherID
	}
	c.StudentIDs = sortedKeys(st.students, func(s models.Student) bool {
		return s.ClassID != nil && *s.ClassID == c.ID
	})
	c.SubjectIDs = sortedKeys(st.subjects, func(sb models.Subject) bool {
		return sb.ClassID != nil && *sb.ClassID == c.ID
	})
	return c
}

func (st *state) student(s models.Student) models.Student {
	s.SubjectIDs = pairOwners(st.subjectStudents, s.ID)
	return s
}

func (st *state) teacher(t models.Teacher) models.Teacher {
	for classID, teacherID := range st.classTeacher {
		if teacherID == t.ID {
			id := classID
			t.ClassTeacherOf = &id
		}
	}
	t.AssignedClassIDs = pairSides(st.teacherClasses, t.ID)
	t.SubjectIDs = pairOwners(st.subjectTeachers, t.ID)
	return t
}

func (st *state) subject(sb models.Subject) models.Subject {
	sb.TeacherIDs = pairSides(st.subjectTeachers, sb.ID)
	sb.StudentIDs = pairSides(st.subjectStudents, sb.ID)
	return sb
}

func (st *state) classExists(id *int64) bool {
	if id == nil {
		return true
	}
	_, ok := st.classes[*id]
	return ok
}

func (st *state) subjectNameTaken(name string, classID *int64, except int64) bool {
	if classID == nil {
		return false
	}
	for id, sb := range st.subjects {
		if id != except && sb.ClassID != nil && *sb.ClassID == *classID && sb.Name == name {
			return true
		}
	}
	return false
}

// dropStudent removes a student row and its enrollments
func (st *state) dropStudent(id int64) {
	delete(st.students, id)
	for p := range st.subjectStudents {
		if p.b == id {
			delete(st.subjectStudents, p)
		}
	}
}

// dropSubject removes a subject row and its teacher and student links
func (st *state) dropSubject(id int64) {
	delete(st.subjects, id)
	for p := range st.subjectTeachers {
		if p.a == id {
			delete(st.subjectTeachers, p)
		}
	}
	for p := range st.subjectStudents {
		if p.a == id {
			delete(st.subjectStudents, p)
		}
	}
}

// ClassRepository stores classes
type ClassRepository struct {
	s *Store
}

// Create inserts a class
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	return r.s.write(ctx, func(st *state) error {
		for _, c := range st.classes {
			if c.Name == class.Name {
				return conflict(classNameConflict)
			}
		}
		class.ID = st.newID()
		class.CreatedAt = r.s.clock()
		class.UpdatedAt = class.CreatedAt

		row := *class
		row.ClassTeacherID, row.StudentIDs, row.SubjectIDs = nil, nil, nil
		st.classes[row.ID] = row
		return nil
	})
}

// GetByID retrieves a class with its relations
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	var out models.Class
	err := r.s.read(ctx, func(st *state) error {
		c, ok := st.classes[id]
		if !ok {
			return apperrors.ErrClassNotFound
		}
		out = st.class(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns a page of classes and the total count
func (r *ClassRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Class, int64, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

// ListAll returns every class
func (r *ClassRepository) ListAll(ctx context.Context) ([]models.Class, error) {
	var out []models.Class
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.Class, 0, len(st.classes))
		for _, id := range sortedKeys(st.classes, nil) {
			out = append(out, st.class(st.classes[id]))
		}
		return nil
	})
	return out, err
}

// Update replaces the scalar attributes of a class
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	return r.s.write(ctx, func(st *state) error {
		row, ok := st.classes[class.ID]
		if !ok {
			return apperrors.ErrClassNotFound
		}
		for id, c := range st.classes {
			if id != class.ID && c.Name == class.Name {
				return conflict(classNameConflict)
			}
		}
		row.Name = class.Name
		row.Section = class.Section
		row.Fee = class.Fee
		row.LateFineAmount = class.LateFineAmount
		row.UpdatedAt = r.s.clock()
		st.classes[row.ID] = row
		return nil
	})
}

// SetTimetable stores the timetable URL of a class
func (r *ClassRepository) SetTimetable(ctx context.Context, id int64, url string) error {
	return r.s.write(ctx, func(st *state) error {
		row, ok := st.classes[id]
		if !ok {
			return apperrors.ErrClassNotFound
		}
		row.TimetableURL = &url
		row.UpdatedAt = r.s.clock()
		st.classes[id] = row
		return nil
	})
}

// Delete removes the class row. Students and subjects lose their class,
// teacher links to the class are dropped.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.classes[id]; !ok {
			return apperrors.ErrClassNotFound
		}
		delete(st.classes, id)
		delete(st.classTeacher, id)
		for p := range st.teacherClasses {
			if p.b == id {
				delete(st.teacherClasses, p)
			}
		}
		for sid, s := range st.students {
			if s.ClassID != nil && *s.ClassID == id {
				s.ClassID = nil
				st.students[sid] = s
			}
		}
		for sid, sb := range st.subjects {
			if sb.ClassID != nil && *sb.ClassID == id {
				sb.ClassID = nil
				st.subjects[sid] = sb
			}
		}
		return nil
	})
}

// ExistingIDs returns which of ids are classes
func (r *ClassRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var out []int64
	err := r.s.read(ctx, func(st *state) error {
		out = existing(st.classes, ids)
		return nil
	})
	return out, err
}

// References counts rows that still point at the class
func (r *ClassRepository) References(ctx context.Context, id int64) (models.ClassReferences, error) {
	var refs models.ClassReferences
	err := r.s.read(ctx, func(st *state) error {
		c := st.class(models.Class{ID: id})
		refs.Students = len(c.StudentIDs)
		refs.Subjects = len(c.SubjectIDs)
		refs.TeacherAssigned = len(pairOwners(st.teacherClasses, id))
		if c.ClassTeacherID != nil {
			refs.ClassTeacherLink = 1
		}
		return nil
	})
	return refs, err
}

// StudentRepository stores students
type StudentRepository struct {
	s *Store
}

// Create inserts a student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.s.write(ctx, func(st *state) error {
		for _, s := range st.students {
			if s.Email == student.Email {
				return conflict(studentEmailConflict)
			}
		}
		if !st.classExists(student.ClassID) {
			return errReferenceMissing
		}
		student.ID = st.newID()
		student.CreatedAt = r.s.clock()
		student.UpdatedAt = student.CreatedAt

		row := *student
		row.SubjectIDs = nil
		st.students[row.ID] = row
		return nil
	})
}

// GetByID retrieves a student with subject ids
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	var out models.Student
	err := r.s.read(ctx, func(st *state) error {
		s, ok := st.students[id]
		if !ok {
			return apperrors.ErrStudentNotFound
		}
		out = st.student(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *StudentRepository) filter(ctx context.Context, keep func(models.Student) bool) ([]models.Student, error) {
	var out []models.Student
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.Student, 0)
		for _, id := range sortedKeys(st.students, keep) {
			out = append(out, st.student(st.students[id]))
		}
		return nil
	})
	return out, err
}

// List returns a page of students and the total count
func (r *StudentRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Student, int64, error) {
	all, err := r.filter(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

// ListByClass returns the students of a class
func (r *StudentRepository) ListByClass(ctx context.Context, classID int64) ([]models.Student, error) {
	return r.filter(ctx, func(s models.Student) bool {
		return s.ClassID != nil && *s.ClassID == classID
	})
}

// ListAssigned returns every student that belongs to a class
func (r *StudentRepository) ListAssigned(ctx context.Context) ([]models.Student, error) {
	return r.filter(ctx, func(s models.Student) bool { return s.ClassID != nil })
}

// Update replaces the profile attributes and class of a student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.s.write(ctx, func(st *state) error {
		row, ok := st.students[student.ID]
		if !ok {
			return apperrors.ErrStudentNotFound
		}
		if !st.classExists(student.ClassID) {
			return errReferenceMissing
		}
		row.Name = student.Name
		row.ClassID = student.ClassID
		row.Section = student.Section
		row.RollNumber = student.RollNumber
		row.Grade = student.Grade
		row.ParentName = student.ParentName
		row.ParentContact = student.ParentContact
		row.UpdatedAt = r.s.clock()
		st.students[row.ID] = row
		return nil
	})
}

// SetClass moves students into classID, or out of any class when classID is nil
func (r *StudentRepository) SetClass(ctx context.Context, studentIDs []int64, classID *int64) error {
	if len(studentIDs) == 0 {
		return nil
	}
	return r.s.write(ctx, func(st *state) error {
		if !st.classExists(classID) {
			return errReferenceMissing
		}
		now := r.s.clock()
		for _, id := range studentIDs {
			s, ok := st.students[id]
			if !ok {
				continue
			}
			if classID != nil {
				cid := *classID
				s.ClassID = &cid
			} else {
				s.ClassID = nil
			}
			s.UpdatedAt = now
			st.students[id] = s
		}
		return nil
	})
}

// DeleteByClass deletes every student of a class
func (r *StudentRepository) DeleteByClass(ctx context.Context, classID int64) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(st *state) error {
		for id, s := range st.students {
			if s.ClassID != nil && *s.ClassID == classID {
				st.dropStudent(id)
				n++
			}
		}
		return nil
	})
	return n, err
}

// ExistingIDs returns which of ids are students
func (r *StudentRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var out []int64
	err := r.s.read(ctx, func(st *state) error {
		out = existing(st.students, ids)
		return nil
	})
	return out, err
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.s.read(ctx, func(st *state) error {
		n = int64(len(st.students))
		return nil
	})
	return n, err
}

// CountByGender returns the number of students of a gender
func (r *StudentRepository) CountByGender(ctx context.Context, gender models.Gender) (int64, error) {
	var n int64
	err := r.s.read(ctx, func(st *state) error {
		for _, s := range st.students {
			if s.Gender == gender {
				n++
			}
		}
		return nil
	})
	return n, err
}

// TeacherRepository stores teachers
type TeacherRepository struct {
	s *Store
}

// Create inserts a teacher
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	return r.s.write(ctx, func(st *state) error {
		for _, t := range st.teachers {
			if t.Email == teacher.Email {
				return conflict(teacherEmailConflict)
			}
		}
		teacher.ID = st.newID()
		teacher.CreatedAt = r.s.clock()
		teacher.UpdatedAt = teacher.CreatedAt

		row := *teacher
		row.ClassTeacherOf, row.AssignedClassIDs, row.SubjectIDs = nil, nil, nil
		st.teachers[row.ID] = row
		return nil
	})
}

// GetByID retrieves a teacher with its relations
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	var out models.Teacher
	err := r.s.read(ctx, func(st *state) error {
		t, ok := st.teachers[id]
		if !ok {
			return apperrors.ErrTeacherNotFound
		}
		out = st.teacher(t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns a page of teachers and the total count
func (r *TeacherRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Teacher, int64, error) {
	var all []models.Teacher
	err := r.s.read(ctx, func(st *state) error {
		all = make([]models.Teacher, 0, len(st.teachers))
		for _, id := range sortedKeys(st.teachers, nil) {
			all = append(all, st.teacher(st.teachers[id]))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page(all, offset, limit), int64(len(all)), nil
}

// ExistingIDs returns which of ids are teachers
func (r *TeacherRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var out []int64
	err := r.s.read(ctx, func(st *state) error {
		out = existing(st.teachers, ids)
		return nil
	})
	return out, err
}

// Count returns the number of teachers
func (r *TeacherRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.s.read(ctx, func(st *state) error {
		n = int64(len(st.teachers))
		return nil
	})
	return n, err
}

// SubjectRepository stores subjects
type SubjectRepository struct {
	s *Store
}

// Create inserts a subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	return r.s.write(ctx, func(st *state) error {
		if st.subjectNameTaken(subject.Name, subject.ClassID, 0) {
			return conflict(subjectConflict)
		}
		if !st.classExists(subject.ClassID) {
			return errReferenceMissing
		}
		subject.ID = st.newID()
		subject.CreatedAt = r.s.clock()

		row := *subject
		row.TeacherIDs, row.StudentIDs = nil, nil
		st.subjects[row.ID] = row
		return nil
	})
}

// GetByID retrieves a subject with its teachers and students
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	var out models.Subject
	err := r.s.read(ctx, func(st *state) error {
		sb, ok := st.subjects[id]
		if !ok {
			return apperrors.ErrSubjectNotFound
		}
		out = st.subject(sb)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByClass returns the subjects of a class
func (r *SubjectRepository) ListByClass(ctx context.Context, classID int64) ([]models.Subject, error) {
	var out []models.Subject
	err := r.s.read(ctx, func(st *state) error {
		out = make([]models.Subject, 0)
		ids := sortedKeys(st.subjects, func(sb models.Subject) bool {
			return sb.ClassID != nil && *sb.ClassID == classID
		})
		for _, id := range ids {
			out = append(out, st.subject(st.subjects[id]))
		}
		return nil
	})
	return out, err
}

// SetClass moves subjects into classID, or out of any class when classID is nil
func (r *SubjectRepository) SetClass(ctx context.Context, subjectIDs []int64, classID *int64) error {
	if len(subjectIDs) == 0 {
		return nil
	}
	return r.s.write(ctx, func(st *state) error {
		if !st.classExists(classID) {
			return errReferenceMissing
		}
		for _, id := range subjectIDs {
			sb, ok := st.subjects[id]
			if !ok {
				continue
			}
			if st.subjectNameTaken(sb.Name, classID, id) {
				return conflict(subjectConflict)
			}
			if classID != nil {
				cid := *classID
				sb.ClassID = &cid
			} else {
				sb.ClassID = nil
			}
			st.subjects[id] = sb
		}
		return nil
	})
}

// DeleteByClass deletes every subject of a class
func (r *SubjectRepository) DeleteByClass(ctx context.Context, classID int64) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(st *state) error {
		for id, sb := range st.subjects {
			if sb.ClassID != nil && *sb.ClassID == classID {
				st.dropSubject(id)
				n++
			}
		}
		return nil
	})
	return n, err
}

// ExistingIDs returns which of ids are subjects
func (r *SubjectRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var out []int64
	err := r.s.read(ctx, func(st *state) error {
		out = existing(st.subjects, ids)
		return nil
	})
	return out, err
}

// RelationRepository maintains the many-to-many links of the graph
type RelationRepository struct {
	s *Store
}

// ClassTeacherOf returns the class teacher of a class
func (r *RelationRepository) ClassTeacherOf(ctx context.Context, classID int64) (int64, bool, error) {
	var (
		id int64
		ok bool
	)
	err := r.s.read(ctx, func(st *state) error {
		id, ok = st.classTeacher[classID]
		return nil
	})
	return id, ok, err
}

// ClassLedBy returns the class a teacher leads
func (r *RelationRepository) ClassLedBy(ctx context.Context, teacherID int64) (int64, bool, error) {
	var (
		id int64
		ok bool
	)
	err := r.s.read(ctx, func(st *state) error {
		for classID, tid := range st.classTeacher {
			if tid == teacherID {
				id, ok = classID, true
			}
		}
		return nil
	})
	return id, ok, err
}

// SetClassTeacher links a class and its class teacher. Either side already
// linked is a conflict.
func (r *RelationRepository) SetClassTeacher(ctx context.Context, classID, teacherID int64) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.classTeacher[classID]; ok {
			return conflict(classTeacherConflict)
		}
		for _, tid := range st.classTeacher {
			if tid == teacherID {
				return conflict(classTeacherConflict)
			}
		}
		if _, ok := st.classes[classID]; !ok {
			return errReferenceMissing
		}
		if _, ok := st.teachers[teacherID]; !ok {
			return errReferenceMissing
		}
		st.classTeacher[classID] = teacherID
		return nil
	})
}

// UnsetClassTeacher removes the class teacher of a class
func (r *RelationRepository) UnsetClassTeacher(ctx context.Context, classID int64) error {
	return r.s.write(ctx, func(st *state) error {
		delete(st.classTeacher, classID)
		return nil
	})
}

func (r *RelationRepository) list(ctx context.Context, fn func(st *state) []int64) ([]int64, error) {
	var out []int64
	err := r.s.read(ctx, func(st *state) error {
		out = fn(st)
		return nil
	})
	return out, err
}

// link adds pairs; every referenced row must exist
func (r *RelationRepository) link(ctx context.Context, table func(st *state) map[pair]struct{}, exists func(st *state, p pair) bool, pairs []pair) error {
	if len(pairs) == 0 {
		return nil
	}
	return r.s.write(ctx, func(st *state) error {
		m := table(st)
		for _, p := range pairs {
			if !exists(st, p) {
				return errReferenceMissing
			}
			m[p] = struct{}{}
		}
		return nil
	})
}

func (r *RelationRepository) unlink(ctx context.Context, table func(st *state) map[pair]struct{}, pairs []pair) error {
	if len(pairs) == 0 {
		return nil
	}
	return r.s.write(ctx, func(st *state) error {
		m := table(st)
		for _, p := range pairs {
			delete(m, p)
		}
		return nil
	})
}

func teacherClassesTable(st *state) map[pair]struct{}  { return st.teacherClasses }
func subjectTeachersTable(st *state) map[pair]struct{} { return st.subjectTeachers }
func subjectStudentsTable(st *state) map[pair]struct{} { return st.subjectStudents }

func teacherClassExists(st *state, p pair) bool {
	_, t := st.teachers[p.a]
	_, c := st.classes[p.b]
	return t && c
}

func subjectTeacherExists(st *state, p pair) bool {
	_, sb := st.subjects[p.a]
	_, t := st.teachers[p.b]
	return sb && t
}

func subjectStudentExists(st *state, p pair) bool {
	_, sb := st.subjects[p.a]
	_, s := st.students[p.b]
	return sb && s
}

// pairsOf builds pairs with a fixed side; flip puts the fixed id on the b side
func pairsOf(fixed int64, others []int64, flip bool) []pair {
	pairs := make([]pair, 0, len(others))
	for _, id := range others {
		if flip {
			pairs = append(pairs, pair{a: id, b: fixed})
		} else {
			pairs = append(pairs, pair{a: fixed, b: id})
		}
	}
	return pairs
}

// TeacherClassIDs returns the classes assigned to a teacher
func (r *RelationRepository) TeacherClassIDs(ctx context.Context, teacherID int64) ([]int64, error) {
	return r.list(ctx, func(st *state) []int64 { return pairSides(st.teacherClasses, teacherID) })
}

// AddTeacherClasses assigns classes to a teacher
func (r *RelationRepository) AddTeacherClasses(ctx context.Context, teacherID int64, classIDs []int64) error {
	return r.link(ctx, teacherClassesTable, teacherClassExists, pairsOf(teacherID, classIDs, false))
}

// RemoveTeacherClasses unassigns classes from a teacher
func (r *RelationRepository) RemoveTeacherClasses(ctx context.Context, teacherID int64, classIDs []int64) error {
	return r.unlink(ctx, teacherClassesTable, pairsOf(teacherID, classIDs, false))
}

// RemoveClassFromTeachers drops a class from every teacher's assigned classes
func (r *RelationRepository) RemoveClassFromTeachers(ctx context.Context, classID int64) (int64, error) {
	var n int64
	err := r.s.write(ctx, func(st *state) error {
		for p := range st.teacherClasses {
			if p.b == classID {
				delete(st.teacherClasses, p)
				n++
			}
		}
		return nil
	})
	return n, err
}

// TeacherSubjectIDs returns the subjects a teacher teaches
func (r *RelationRepository) TeacherSubjectIDs(ctx context.Context, teacherID int64) ([]int64, error) {
	return r.list(ctx, func(st *state) []int64 { return pairOwners(st.subjectTeachers, teacherID) })
}

// SubjectTeacherIDs returns the teachers of a subject
func (r *RelationRepository) SubjectTeacherIDs(ctx context.Context, subjectID int64) ([]int64, error) {
	return r.list(ctx, func(st *state) []int64 { return pairSides(st.subjectTeachers, subjectID) })
}

// AddTeacherSubjects links subjects to a teacher
func (r *RelationRepository) AddTeacherSubjects(ctx context.Context, teacherID int64, subjectIDs []int64) error {
	return r.link(ctx, subjectTeachersTable, subjectTeacherExists, pairsOf(teacherID, subjectIDs, true))
}

// RemoveTeacherSubjects unlinks subjects from a teacher
func (r *RelationRepository) RemoveTeacherSubjects(ctx context.Context, teacherID int64, subjectIDs []int64) error {
	return r.unlink(ctx, subjectTeachersTable, pairsOf(teacherID, subjectIDs, true))
}

// StudentSubjectIDs returns the subjects a student takes
func (r *RelationRepository) StudentSubjectIDs(ctx context.Context, studentID int64) ([]int64, error) {
	return r.list(ctx, func(st *state) []int64 { return pairOwners(st.subjectStudents, studentID) })
}

// SubjectStudentIDs returns the students of a subject
func (r *RelationRepository) SubjectStudentIDs(ctx context.Context, subjectID int64) ([]int64, error) {
	return r.list(ctx, func(st *state) []int64 { return pairSides(st.subjectStudents, subjectID) })
}

// AddStudentSubjects enrolls a student in subjects
func (r *RelationRepository) AddStudentSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error {
	return r.link(ctx, subjectStudentsTable, subjectStudentExists, pairsOf(studentID, subjectIDs, true))
}

// RemoveStudentSubjects withdraws a student from subjects
func (r *RelationRepository) RemoveStudentSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error {
	return r.unlink(ctx, subjectStudentsTable, pairsOf(studentID, subjectIDs, true))
}
