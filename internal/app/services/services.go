package services

import "github.com/yigit/schoolcore/internal/app/repositories"

// Services defined in this package:
// - ClassService, StudentService, TeacherService, SubjectService: the entity graph,
//   with every mutation going through GraphManager
// - FeeLedgerService, PayrollService: the upsert ledgers
// - AggregationService: leaderboards and summaries
// - ExamService, AttendanceService, ExpenseService: records kept beside the graph
// - AnnouncementService, EventService, ComplaintService: notices scoped by role

// Services holds all the service instances
type Services struct {
	Class        ClassService
	Student      StudentService
	Teacher      TeacherService
	Subject      SubjectService
	FeeLedger    FeeLedgerService
	Payroll      PayrollService
	Aggregation  AggregationService
	Exam         ExamService
	Attendance   AttendanceService
	Expense      ExpenseService
	Announcement AnnouncementService
	Event        EventService
	Complaint    ComplaintService
}

// NewServices wires every service over one set of repositories
func NewServices(repos *repositories.Repositories, hasher PasswordHasher) *Services {
	tx := NewTransactionCoordinator(repos.Transactor)
	gate := NewValidationGate(repos)
	graph := NewGraphManager(repos, tx, gate, hasher)

	return &Services{
		Class:        NewClassService(repos, graph),
		Student:      NewStudentService(repos, graph),
		Teacher:      NewTeacherService(repos, graph),
		Subject:      NewSubjectService(repos, graph),
		FeeLedger:    NewFeeLedgerService(repos, tx),
		Payroll:      NewPayrollService(repos, tx),
		Aggregation:  NewAggregationService(repos),
		Exam:         NewExamService(repos, tx, gate),
		Attendance:   NewAttendanceService(repos, tx, gate),
		Expense:      NewExpenseService(repos),
		Announcement: NewAnnouncementService(repos),
		Event:        NewEventService(repos, tx),
		Complaint:    NewComplaintService(repos),
	}
}
