// Package memory provides an in-process implementation of the repository
// interfaces. Units of work operate on a cloned state that replaces the
// committed state when the unit succeeds.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

type pair struct{ a, b int64 }

type feeKey struct {
	studentID int64
	month     string
}

type payrollKey struct {
	teacherID int64
	month     string
}

type state struct {
	nextID int64

	classes         map[int64]models.Class
	classTeacher    map[int64]int64 // class -> teacher
	teachers        map[int64]models.Teacher
	teacherClasses  map[pair]struct{} // (teacher, class)
	students        map[int64]models.Student
	subjects        map[int64]models.Subject
	subjectTeachers map[pair]struct{} // (subject, teacher)
	subjectStudents map[pair]struct{} // (subject, student)

	fees    map[feeKey]models.FeePayment
	payroll map[payrollKey]models.PaymentRecord

	exams             map[int64]models.Exam
	marks             map[int64]models.Mark
	sheets            map[int64]models.StudentAttendance
	teacherAttendance map[int64]models.TeacherAttendance
	expenses          map[int64]models.Expense

	announcements map[int64]models.Announcement
	events        map[int64]models.Event
	complaints    map[int64]models.Complaint
}

func newState() *state {
	return &state{
		classes:           map[int64]models.Class{},
		classTeacher:      map[int64]int64{},
		teachers:          map[int64]models.Teacher{},
		teacherClasses:    map[pair]struct{}{},
		students:          map[int64]models.Student{},
		subjects:          map[int64]models.Subject{},
		subjectTeachers:   map[pair]struct{}{},
		subjectStudents:   map[pair]struct{}{},
		fees:              map[feeKey]models.FeePayment{},
		payroll:           map[payrollKey]models.PaymentRecord{},
		exams:             map[int64]models.Exam{},
		marks:             map[int64]models.Mark{},
		sheets:            map[int64]models.StudentAttendance{},
		teacherAttendance: map[int64]models.TeacherAttendance{},
		expenses:          map[int64]models.Expense{},
		announcements:     map[int64]models.Announcement{},
		events:            map[int64]models.Event{},
		complaints:        map[int64]models.Complaint{},
	}
}

// clone copies every table. Stored values are never mutated in place, so a
// shallow copy per map is enough except for attendance entries.
func (st *state) clone() *state {
	cp := &state{
		nextID:            st.nextID,
		classes:           maps.Clone(st.classes),
		classTeacher:      maps.Clone(st.classTeacher),
		teachers:          maps.Clone(st.teachers),
		teacherClasses:    maps.Clone(st.teacherClasses),
		students:          maps.Clone(st.students),
		subjects:          maps.Clone(st.subjects),
		subjectTeachers:   maps.Clone(st.subjectTeachers),
		subjectStudents:   maps.Clone(st.subjectStudents),
		fees:              maps.Clone(st.fees),
		payroll:           maps.Clone(st.payroll),
		exams:             maps.Clone(st.exams),
		marks:             maps.Clone(st.marks),
		sheets:            make(map[int64]models.StudentAttendance, len(st.sheets)),
		teacherAttendance: maps.Clone(st.teacherAttendance),
		expenses:          maps.Clone(st.expenses),
		announcements:     maps.Clone(st.announcements),
		events:            maps.Clone(st.events),
		complaints:        maps.Clone(st.complaints),
	}
	for id, sheet := range st.sheets {
		sheet.Entries = slices.Clone(sheet.Entries)
		cp.sheets[id] = sheet
	}
	return cp
}

func (st *state) newID() int64 {
	st.nextID++
	return st.nextID
}

type txKey struct{}

type unit struct {
	state *state
}

// Store is a mutex guarded in-memory database
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// SetClock replaces the time source, for tests
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// WithinTransaction runs fn against a private copy of the state and publishes
// it when fn succeeds. Units are serialized. A context that already carries a
// unit runs fn inline.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*unit); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &unit{state: s.state.clone()}
	if err := fn(context.WithValue(ctx, txKey{}, u)); err != nil {
		return err
	}
	s.state = u.state
	return nil
}

// read runs fn against the unit in ctx or the committed state
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if u, ok := ctx.Value(txKey{}).(*unit); ok {
		return fn(u.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// write runs fn against the unit in ctx, or as its own autocommitted unit
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if u, ok := ctx.Value(txKey{}).(*unit); ok {
		return fn(u.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state.clone()
	if err := fn(st); err != nil {
		return err
	}
	s.state = st
	return nil
}

func (s *Store) clock() time.Time {
	return s.now().UTC()
}

// NewRepositories wires every repository to one store
func NewRepositories(s *Store) *repositories.Repositories {
	return &repositories.Repositories{
		Transactor:    s,
		Classes:       &ClassRepository{s: s},
		Students:      &StudentRepository{s: s},
		Teachers:      &TeacherRepository{s: s},
		Subjects:      &SubjectRepository{s: s},
		Relations:     &RelationRepository{s: s},
		Fees:          &FeeRepository{s: s},
		Payroll:       &PayrollRepository{s: s},
		Exams:         &ExamRepository{s: s},
		Marks:         &MarkRepository{s: s},
		Attendance:    &AttendanceRepository{s: s},
		Expenses:      &ExpenseRepository{s: s},
		Announcements: &AnnouncementRepository{s: s},
		Events:        &EventRepository{s: s},
		Complaints:    &ComplaintRepository{s: s},
	}
}

var (
	errReferenceMissing = apperrors.NewResourceNotFoundError("referenced entity not found")
)

func conflict(msg string) error {
	return apperrors.NewConflictError(msg)
}

// sortedKeys returns the ids of m matching keep, ascending
func sortedKeys[V any](m map[int64]V, keep func(V) bool) []int64 {
	ids := make([]int64, 0)
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// pairSides returns the b side of every pair whose a side is a, ascending
func pairSides(m map[pair]struct{}, a int64) []int64 {
	ids := make([]int64, 0)
	for p := range m {
		if p.a == a {
			ids = append(ids, p.b)
		}
	}
	slices.Sort(ids)
	return ids
}

// pairOwners returns the a side of every pair whose b side is b, ascending
func pairOwners(m map[pair]struct{}, b int64) []int64 {
	ids := make([]int64, 0)
	for p := range m {
		if p.b == b {
			ids = append(ids, p.a)
		}
	}
	slices.Sort(ids)
	return ids
}

// page slices items for offset and limit
func page[T any](items []T, offset uint64, limit int) []T {
	if offset >= uint64(len(items)) {
		return []T{}
	}
	end := int(offset) + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return slices.Clone(items[offset:end])
}

func existing[V any](m map[int64]V, ids []int64) []int64 {
	found := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := m[id]; ok {
			found = append(found, id)
		}
	}
	slices.Sort(found)
	return found
}

var (
	_ repositories.Transactor             = (*Store)(nil)
	_ repositories.ClassRepository        = (*ClassRepository)(nil)
	_ repositories.StudentRepository      = (*StudentRepository)(nil)
	_ repositories.TeacherRepository      = (*TeacherRepository)(nil)
	_ repositories.SubjectRepository      = (*SubjectRepository)(nil)
	_ repositories.RelationRepository     = (*RelationRepository)(nil)
	_ repositories.FeeRepository          = (*FeeRepository)(nil)
	_ repositories.PayrollRepository      = (*PayrollRepository)(nil)
	_ repositories.ExamRepository         = (*ExamRepository)(nil)
	_ repositories.MarkRepository         = (*MarkRepository)(nil)
	_ repositories.AttendanceRepository   = (*AttendanceRepository)(nil)
	_ repositories.ExpenseRepository      = (*ExpenseRepository)(nil)
	_ repositories.AnnouncementRepository = (*AnnouncementRepository)(nil)
	_ repositories.EventRepository        = (*EventRepository)(nil)
	_ repositories.ComplaintRepository    = (*ComplaintRepository)(nil)
)
