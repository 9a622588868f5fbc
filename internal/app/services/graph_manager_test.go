package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/app/repositories/memory"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	repos *repositories.Repositories
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SetClock(func() time.Time { return testNow })
	repos := memory.NewRepositories(store)

	svc := NewServices(repos, auth.NewPasswordHasher(bcrypt.MinCost))
	svc.FeeLedger.(*feeLedgerServiceImpl).now = func() time.Time { return testNow }
	svc.Payroll.(*payrollServiceImpl).now = func() time.Time { return testNow }

	return &fixture{t: t, ctx: context.Background(), repos: repos, svc: svc}
}

func (f *fixture) class(name string, fee, fine int64) *models.Class {
	f.t.Helper()
	c, err := f.svc.Class.CreateClass(f.ctx, dto.CreateClassRequest{
		Name:           name,
		Section:        "A",
		Fee:            fee,
		LateFineAmount: fine,
	})
	require.NoError(f.t, err)
	return c
}

func (f *fixture) student(name string, classID int64, gender models.Gender) *models.Student {
	f.t.Helper()
	s, err := f.svc.Student.CreateStudent(f.ctx, dto.CreateStudentRequest{
		Name:     name,
		Email:    fmt.Sprintf("%s@school.test", name),
		Password: "password123",
		Gender:   gender,
		ClassID:  classID,
	})
	require.NoError(f.t, err)
	return s
}

func (f *fixture) teacher(name string) *models.Teacher {
	f.t.Helper()
	tc, err := f.svc.Teacher.CreateTeacher(f.ctx, dto.CreateTeacherRequest{
		Name:     name,
		Email:    fmt.Sprintf("%s@school.test", name),
		Password: "password123",
		Gender:   models.GenderFemale,
		Salary:   5000,
	})
	require.NoError(f.t, err)
	return tc
}

func (f *fixture) subject(name string, classID int64) *models.Subject {
	f.t.Helper()
	sb, err := f.svc.Subject.CreateSubject(f.ctx, dto.CreateSubjectRequest{Name: name, ClassID: classID})
	require.NoError(f.t, err)
	return sb
}

func ptr[T any](v T) *T { return &v }

func TestDiffIDs(t *testing.T) {
	tests := []struct {
		name       string
		existing   []int64
		desired    []int64
		wantAdd    []int64
		wantRemove []int64
	}{
		{"both empty", nil, nil, []int64{}, []int64{}},
		{"only adds", nil, []int64{3, 1, 2}, []int64{1, 2, 3}, []int64{}},
		{"only removes", []int64{5, 4}, nil, []int64{}, []int64{4, 5}},
		{"mixed", []int64{1, 2, 3}, []int64{3, 4, 5}, []int64{4, 5}, []int64{1, 2}},
		{"duplicates collapse", []int64{1, 1}, []int64{2, 2, 1}, []int64{2}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			add, remove := DiffIDs(tt.existing, tt.desired)
			assert.Equal(t, tt.wantAdd, add)
			assert.Equal(t, tt.wantRemove, remove)
		})
	}
}

func TestRegisterClassClaimsReferences(t *testing.T) {
	f := newFixture(t)
	other := f.class("Grade 9", 900, 100)
	s1 := f.student("amir", other.ID, models.GenderMale)
	s2 := f.student("bela", other.ID, models.GenderFemale)
	tc := f.teacher("tara")

	class, err := f.svc.Class.CreateClass(f.ctx, dto.CreateClassRequest{
		Name:           "Grade 10",
		Section:        "A",
		Fee:            1000,
		LateFineAmount: 500,
		ClassTeacherID: &tc.ID,
		StudentIDs:     []int64{s1.ID, s2.ID, s1.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{s1.ID, s2.ID}, class.StudentIDs)
	require.NotNil(t, class.ClassTeacherID)
	assert.Equal(t, tc.ID, *class.ClassTeacherID)

	teacher, err := f.svc.Teacher.GetTeacherByID(f.ctx, tc.ID)
	require.NoError(t, err)
	require.NotNil(t, teacher.ClassTeacherOf)
	assert.Equal(t, class.ID, *teacher.ClassTeacherOf)
	assert.Contains(t, teacher.AssignedClassIDs, class.ID)

	left, err := f.svc.Student.GetStudentsByClass(f.ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, left, "a student belongs to one class only")
}

func TestRegisterClassMissingReferencesWritesNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Class.CreateClass(f.ctx, dto.CreateClassRequest{
		Name:       "Grade 10",
		Section:    "A",
		StudentIDs: []int64{41, 42},
	})
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Contains(t, err.Error(), "[41 42]")

	classes, err := f.svc.Class.GetAllClasses(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestSecondClassTeacherConflicts(t *testing.T) {
	f := newFixture(t)
	classA := f.class("Grade 1", 100, 10)
	classB := f.class("Grade 2", 100, 10)
	first := f.teacher("first")
	second := f.teacher("second")

	_, err := f.svc.Teacher.MakeClassTeacher(f.ctx, first.ID, classA.ID)
	require.NoError(t, err)

	t.Run("class already led", func(t *testing.T) {
		_, err := f.svc.Teacher.MakeClassTeacher(f.ctx, second.ID, classA.ID)
		require.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("teacher already leads", func(t *testing.T) {
		_, err := f.svc.Teacher.MakeClassTeacher(f.ctx, first.ID, classB.ID)
		require.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("same pair again is a no-op", func(t *testing.T) {
		_, err := f.svc.Teacher.MakeClassTeacher(f.ctx, first.ID, classA.ID)
		require.NoError(t, err)
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := f.svc.Teacher.MakeClassTeacher(f.ctx, second.ID, 999)
		require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	got, err := f.svc.Class.GetClassByID(f.ctx, classA.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ClassTeacher)
	assert.Equal(t, first.ID, got.ClassTeacher.ID, "first link untouched")

	loser, err := f.svc.Teacher.GetTeacherByID(f.ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, loser.ClassTeacherOf)
	assert.Empty(t, loser.AssignedClassIDs, "no partial writes")
}

func TestDeleteClassCascade(t *testing.T) {
	f := newFixture(t)
	class := f.class("Class A", 1000, 500)
	tc := f.teacher("tara")
	_, err := f.svc.Teacher.MakeClassTeacher(f.ctx, tc.ID, class.ID)
	require.NoError(t, err)
	s1 := f.student("amir", class.ID, models.GenderMale)
	f.student("bela", class.ID, models.GenderFemale)
	math := f.subject("Math", class.ID)
	_, err = f.svc.Teacher.AssignClassesAndSubjects(f.ctx, tc.ID, dto.TeacherAssignmentsRequest{SubjectIDs: []int64{math.ID}})
	require.NoError(t, err)

	_, err = f.svc.FeeLedger.MarkPaymentStatus(f.ctx, dto.MarkFeeStatusRequest{StudentID: s1.ID, Month: "March", Status: models.FeePaid})
	require.NoError(t, err)

	require.NoError(t, f.svc.Class.DeleteClass(f.ctx, class.ID))

	_, err = f.svc.Class.GetClassByID(f.ctx, class.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.svc.Student.GetStudentByID(f.ctx, s1.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	_, err = f.svc.Subject.GetSubjectByID(f.ctx, math.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	teacher, err := f.svc.Teacher.GetTeacherByID(f.ctx, tc.ID)
	require.NoError(t, err)
	assert.Nil(t, teacher.ClassTeacherOf)
	assert.Empty(t, teacher.AssignedClassIDs)
	assert.Empty(t, teacher.SubjectIDs)

	refs, err := f.repos.Classes.References(f.ctx, class.ID)
	require.NoError(t, err)
	assert.True(t, refs.Clean())

	fee, err := f.repos.Fees.Get(f.ctx, s1.ID, "March")
	require.NoError(t, err, "ledger rows survive the cascade")
	assert.Equal(t, models.FeePaid, fee.Status)

	err = f.svc.Class.DeleteClass(f.ctx, class.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUpdateClassAppliesDiffs(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 3", 300, 30)
	other := f.class("Grade 4", 400, 40)
	keep := f.student("keep", class.ID, models.GenderMale)
	drop := f.student("drop", class.ID, models.GenderFemale)
	join := f.student("join", other.ID, models.GenderFemale)
	tc := f.teacher("tara")

	updated, err := f.svc.Class.UpdateClass(f.ctx, class.ID, dto.UpdateClassRequest{
		Name:           "Grade 3",
		Section:        "B",
		Fee:            350,
		LateFineAmount: 30,
		ClassTeacherID: &tc.ID,
		StudentIDs:     &[]int64{keep.ID, join.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Section)
	assert.Equal(t, int64(350), updated.Fee)
	assert.Equal(t, []int64{keep.ID, join.ID}, updated.StudentIDs)
	require.NotNil(t, updated.ClassTeacherID)

	dropped, err := f.svc.Student.GetStudentByID(f.ctx, drop.ID)
	require.NoError(t, err)
	assert.Nil(t, dropped.ClassID, "removed students keep their row with no class")

	updated, err = f.svc.Class.UpdateClass(f.ctx, class.ID, dto.UpdateClassRequest{
		Name:               "Grade 3",
		Section:            "B",
		Fee:                350,
		RemoveClassTeacher: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ClassTeacherID)
	assert.Len(t, updated.StudentIDs, 2, "nil set leaves students untouched")
}

func TestStudentRegistrationAndUpdate(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 5", 500, 50)
	next := f.class("Grade 6", 600, 60)
	art := f.subject("Art", class.ID)
	music := f.subject("Music", class.ID)

	t.Run("class must exist", func(t *testing.T) {
		_, err := f.svc.Student.CreateStudent(f.ctx, dto.CreateStudentRequest{
			Name: "ghost", Email: "ghost@school.test", Password: "password123",
			Gender: models.GenderMale, ClassID: 404,
		})
		require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})

	s, err := f.svc.Student.CreateStudent(f.ctx, dto.CreateStudentRequest{
		Name: "nia", Email: "nia@school.test", Password: "password123",
		Gender: models.GenderFemale, ClassID: class.ID, SubjectIDs: []int64{art.ID},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "password123", s.PasswordHash)
	assert.Equal(t, []int64{art.ID}, s.SubjectIDs)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.svc.Student.CreateStudent(f.ctx, dto.CreateStudentRequest{
			Name: "nia2", Email: "nia@school.test", Password: "password123",
			Gender: models.GenderFemale, ClassID: class.ID,
		})
		require.ErrorIs(t, err, apperrors.ErrConflict)
	})

	updated, err := f.svc.Student.UpdateStudent(f.ctx, s.ID, dto.UpdateStudentRequest{
		Grade:      ptr("A+"),
		ClassID:    &next.ID,
		SubjectIDs: &[]int64{music.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "nia", updated.Name)
	assert.Equal(t, "A+", updated.Grade)
	require.NotNil(t, updated.ClassID)
	assert.Equal(t, next.ID, *updated.ClassID)
	assert.Equal(t, []int64{music.ID}, updated.SubjectIDs)

	artNow, err := f.svc.Subject.GetSubjectByID(f.ctx, art.ID)
	require.NoError(t, err)
	assert.Empty(t, artNow.StudentIDs, "relation visible from both sides")
}

func TestTeacherAssignments(t *testing.T) {
	f := newFixture(t)
	c1 := f.class("Grade 7", 700, 70)
	c2 := f.class("Grade 8", 800, 80)
	bio := f.subject("Biology", c1.ID)
	chem := f.subject("Chemistry", c2.ID)
	tc := f.teacher("tara")

	got, err := f.svc.Teacher.AssignClassesAndSubjects(f.ctx, tc.ID, dto.TeacherAssignmentsRequest{
		ClassIDs:   []int64{c1.ID},
		SubjectIDs: []int64{bio.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{c1.ID}, got.AssignedClassIDs)
	assert.Equal(t, []int64{bio.ID}, got.SubjectIDs)

	got, err = f.svc.Teacher.AssignClassesAndSubjects(f.ctx, tc.ID, dto.TeacherAssignmentsRequest{ClassIDs: []int64{c2.ID}})
	require.NoError(t, err)
	assert.Equal(t, []int64{c1.ID, c2.ID}, got.AssignedClassIDs, "assign is add-only")

	got, err = f.svc.Teacher.ReplaceAssignments(f.ctx, tc.ID, dto.TeacherAssignmentsRequest{
		ClassIDs:   []int64{c2.ID},
		SubjectIDs: []int64{chem.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{c2.ID}, got.AssignedClassIDs)
	assert.Equal(t, []int64{chem.ID}, got.SubjectIDs)

	subject, err := f.svc.Subject.GetSubjectByID(f.ctx, bio.ID)
	require.NoError(t, err)
	assert.Empty(t, subject.TeacherIDs)

	got, err = f.svc.Teacher.RemoveAssignments(f.ctx, tc.ID, dto.TeacherAssignmentsRequest{ClassIDs: []int64{c2.ID}})
	require.NoError(t, err)
	assert.Empty(t, got.AssignedClassIDs)
	assert.Equal(t, []int64{chem.ID}, got.SubjectIDs)

	_, err = f.svc.Teacher.AssignClassesAndSubjects(f.ctx, tc.ID, dto.TeacherAssignmentsRequest{ClassIDs: []int64{c1.ID, 999}})
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	unchanged, err := f.svc.Teacher.GetTeacherByID(f.ctx, tc.ID)
	require.NoError(t, err)
	assert.Empty(t, unchanged.AssignedClassIDs)
}

func TestRegisterTeacherWithClassTeacherSlot(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 11", 1100, 110)
	f.teacher("lead")

	first, err := f.svc.Teacher.CreateTeacher(f.ctx, dto.CreateTeacherRequest{
		Name: "omar", Email: "omar@school.test", Password: "password123",
		Gender: models.GenderMale, ClassTeacherOf: &class.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, first.ClassTeacherOf)
	assert.Equal(t, class.ID, *first.ClassTeacherOf)

	_, err = f.svc.Teacher.CreateTeacher(f.ctx, dto.CreateTeacherRequest{
		Name: "zoe", Email: "zoe@school.test", Password: "password123",
		Gender: models.GenderFemale, ClassTeacherOf: &class.ID,
	})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	count, err := f.svc.Teacher.CountTeachers(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "rejected registration left no teacher behind")
}

func TestClassTeacherSlotShapeIsPathIndependent(t *testing.T) {
	f := newFixture(t)
	registered := f.class("Grade 13", 1300, 130)
	promoted := f.class("Grade 14", 1400, 140)

	viaRegister, err := f.svc.Teacher.CreateTeacher(f.ctx, dto.CreateTeacherRequest{
		Name: "selin", Email: "selin@school.test", Password: "password123",
		Gender: models.GenderFemale, ClassTeacherOf: &registered.ID,
	})
	require.NoError(t, err)

	viaMake := f.teacher("baran")
	viaMake, err = f.svc.Teacher.MakeClassTeacher(f.ctx, viaMake.ID, promoted.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		teacher *models.Teacher
		classID int64
	}{
		{"registered with slot", viaRegister, registered.ID},
		{"promoted afterwards", viaMake, promoted.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Teacher.GetTeacherByID(f.ctx, tt.teacher.ID)
			require.NoError(t, err)
			require.NotNil(t, got.ClassTeacherOf)
			assert.Equal(t, tt.classID, *got.ClassTeacherOf)
			assert.Equal(t, []int64{tt.classID}, got.AssignedClassIDs)
		})
	}
}

func TestRegisterSubjectLinksBothSides(t *testing.T) {
	f := newFixture(t)
	class := f.class("Grade 12", 1200, 120)
	tc := f.teacher("tara")
	s := f.student("amir", class.ID, models.GenderMale)

	sb, err := f.svc.Subject.CreateSubject(f.ctx, dto.CreateSubjectRequest{
		Name:       "Physics",
		ClassID:    class.ID,
		TeacherIDs: []int64{tc.ID},
		StudentIDs: []int64{s.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{tc.ID}, sb.TeacherIDs)
	assert.Equal(t, []int64{s.ID}, sb.StudentIDs)

	teacher, err := f.svc.Teacher.GetTeacherByID(f.ctx, tc.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{sb.ID}, teacher.SubjectIDs)

	subjects, err := f.svc.Subject.GetSubjectsByClass(f.ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 1)

	_, err = f.svc.Subject.CreateSubject(f.ctx, dto.CreateSubjectRequest{Name: "Physics", ClassID: class.ID})
	require.ErrorIs(t, err, apperrors.ErrConflict)
}
