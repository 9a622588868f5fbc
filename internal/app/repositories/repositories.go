package repositories

import (
	"context"
	"time"

	"github.com/yigit/schoolcore/internal/app/models"
)

// Transactor opens a unit of work. The handle travels in the returned context;
// every repository call made with that context joins it. Calling
// WithinTransaction with a context that already carries a unit runs fn inline.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ClassRepository persists classes
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	List(ctx context.Context, offset uint64, limit int) ([]models.Class, int64, error)
	ListAll(ctx context.Context) ([]models.Class, error)
	Update(ctx context.Context, class *models.Class) error
	SetTimetable(ctx context.Context, id int64, url string) error
	Delete(ctx context.Context, id int64) error
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	References(ctx context.Context, id int64) (models.ClassReferences, error)
}

// StudentRepository persists students. A student belongs to at most one class.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, offset uint64, limit int) ([]models.Student, int64, error)
	ListByClass(ctx context.Context, classID int64) ([]models.Student, error)
	ListAssigned(ctx context.Context) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	SetClass(ctx context.Context, studentIDs []int64, classID *int64) error
	DeleteByClass(ctx context.Context, classID int64) (int64, error)
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	Count(ctx context.Context) (int64, error)
	CountByGender(ctx context.Context, gender models.Gender) (int64, error)
}

// TeacherRepository persists teachers
type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	List(ctx context.Context, offset uint64, limit int) ([]models.Teacher, int64, error)
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
	Count(ctx context.Context) (int64, error)
}

// SubjectRepository persists subjects. A subject belongs to at most one class.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	ListByClass(ctx context.Context, classID int64) ([]models.Subject, error)
	SetClass(ctx context.Context, subjectIDs []int64, classID *int64) error
	DeleteByClass(ctx context.Context, classID int64) (int64, error)
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// RelationRepository is the relation index of the entity graph. Each link is a
// single row, so both directions of a relation always agree.
type RelationRepository interface {
	// class_teachers: a class has at most one class teacher and a teacher leads at most one class
	ClassTeacherOf(ctx context.Context, classID int64) (int64, bool, error)
	ClassLedBy(ctx context.Context, teacherID int64) (int64, bool, error)
	SetClassTeacher(ctx context.Context, classID, teacherID int64) error
	UnsetClassTeacher(ctx context.Context, classID int64) error

	// teacher_classes
	TeacherClassIDs(ctx context.Context, teacherID int64) ([]int64, error)
	AddTeacherClasses(ctx context.Context, teacherID int64, classIDs []int64) error
	RemoveTeacherClasses(ctx context.Context, teacherID int64, classIDs []int64) error
	RemoveClassFromTeachers(ctx context.Context, classID int64) (int64, error)

	// subject_teachers
	TeacherSubjectIDs(ctx context.Context, teacherID int64) ([]int64, error)
	SubjectTeacherIDs(ctx context.Context, subjectID int64) ([]int64, error)
	AddTeacherSubjects(ctx context.Context, teacherID int64, subjectIDs []int64) error
	RemoveTeacherSubjects(ctx context.Context, teacherID int64, subjectIDs []int64) error

	// subject_students
	StudentSubjectIDs(ctx context.Context, studentID int64) ([]int64, error)
	SubjectStudentIDs(ctx context.Context, subjectID int64) ([]int64, error)
	AddStudentSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error
	RemoveStudentSubjects(ctx context.Context, studentID int64, subjectIDs []int64) error
}

// FeeRepository is the fee ledger, keyed by (student, month)
type FeeRepository interface {
	UpsertStatus(ctx context.Context, in models.FeePaymentUpsert) (*models.FeePayment, error)
	AddLateFine(ctx context.Context, in models.LateFineUpsert) (*models.FeePayment, error)
	Get(ctx context.Context, studentID int64, month string) (*models.FeePayment, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.FeePayment, error)
	ListByStudentsMonth(ctx context.Context, studentIDs []int64, month string) ([]models.FeePayment, error)
}

// PayrollRepository is the payroll ledger, keyed by (teacher, "YYYY-MM")
type PayrollRepository interface {
	UpsertSalaryStatus(ctx context.Context, teacherID int64, month string, status models.SalaryStatus) (*models.PaymentRecord, error)
	UpsertAdvanceRequest(ctx context.Context, teacherID int64, month string, amount int64, at time.Time) (*models.PaymentRecord, error)
	Get(ctx context.Context, teacherID int64, month string) (*models.PaymentRecord, error)
	PendingAdvance(ctx context.Context, teacherID int64) (*models.PaymentRecord, error)
	SetAdvanceDecision(ctx context.Context, id int64, decision models.AdvanceStatus, at time.Time) (*models.PaymentRecord, error)
	List(ctx context.Context, filter models.PaymentRecordFilter) ([]models.PaymentRecord, error)
	Page(ctx context.Context, filter models.PaymentRecordFilter, offset uint64, limit int) ([]models.PaymentRecord, int64, error)
}

// ExamRepository persists exams
type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id int64) (*models.Exam, error)
	List(ctx context.Context) ([]models.Exam, error)
	SetTimetable(ctx context.Context, id int64, url string) error
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

// MarkRepository persists marks
type MarkRepository interface {
	CreateBatch(ctx context.Context, marks []models.Mark) error
	ListByStudentExam(ctx context.Context, studentID, examID int64) ([]models.Mark, error)
	DeleteByStudentSubject(ctx context.Context, studentID, subjectID int64, examID *int64) (int64, error)
	TotalsByClassExam(ctx context.Context, classID, examID int64) ([]models.MarkTotal, error)
}

// AttendanceRepository persists student sheets and teacher attendance
type AttendanceRepository interface {
	CreateSheet(ctx context.Context, sheet *models.StudentAttendance) error
	GetSheet(ctx context.Context, classID int64, date time.Time) (*models.StudentAttendance, error)
	ReplaceEntries(ctx context.Context, sheetID int64, entries []models.AttendanceEntry) error
	StudentHistory(ctx context.Context, studentID int64) ([]models.StudentAttendanceDay, error)
	CreateTeacherAttendance(ctx context.Context, record *models.TeacherAttendance) error
	TeacherHistory(ctx context.Context, teacherID int64, r models.DateRange) ([]models.TeacherAttendance, error)
}

// ExpenseRepository persists expenses
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	List(ctx context.Context, offset uint64, limit int) ([]models.Expense, int64, error)
	Delete(ctx context.Context, id int64) error
}

// AnnouncementRepository persists announcements. An empty audiences list
// matches every audience.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	List(ctx context.Context, audiences []models.Audience, offset uint64, limit int) ([]models.Announcement, int64, error)
	Delete(ctx context.Context, id int64) error
}

// EventRepository persists events
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Event, error)
	List(ctx context.Context, audiences []models.Audience, offset uint64, limit int) ([]models.Event, int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
}

// ComplaintRepository persists student complaints. A nil studentID lists all.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id int64) (*models.Complaint, error)
	List(ctx context.Context, studentID *int64, offset uint64, limit int) ([]models.Complaint, int64, error)
	SetStatus(ctx context.Context, id int64, status models.ComplaintStatus) error
	Delete(ctx context.Context, id int64) error
}

// Repositories holds all the repository instances
type Repositories struct {
	Transactor    Transactor
	Classes       ClassRepository
	Students      StudentRepository
	Teachers      TeacherRepository
	Subjects      SubjectRepository
	Relations     RelationRepository
	Fees          FeeRepository
	Payroll       PayrollRepository
	Exams         ExamRepository
	Marks         MarkRepository
	Attendance    AttendanceRepository
	Expenses      ExpenseRepository
	Announcements AnnouncementRepository
	Events        EventRepository
	Complaints    ComplaintRepository
}
