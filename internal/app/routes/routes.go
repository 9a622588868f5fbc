package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolcore/internal/app/controllers"
	"github.com/yigit/schoolcore/internal/middleware"
	"github.com/yigit/schoolcore/internal/pkg/auth"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrls *controllers.Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Every school record is private: all routes need a token
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Mutations are reserved for the principal
	principal := authenticated.Group("")
	principal.Use(authMiddleware.RoleRequired(auth.RolePrincipal))

	// Notices are published by staff
	staff := authenticated.Group("")
	staff.Use(authMiddleware.RoleRequired(auth.RolePrincipal, auth.RoleTeacher))

	students := authenticated.Group("")
	students.Use(authMiddleware.RoleRequired(auth.RoleStudent))

	// --- Classes ---
	{
		authenticated.GET("/classes", ctrls.Class.GetClasses)
		authenticated.GET("/classes/all", ctrls.Class.GetAllClasses)
		authenticated.GET("/classes/:id", ctrls.Class.GetClassByID)
		authenticated.GET("/classes/:id/fee", ctrls.Class.GetClassFee)
		authenticated.GET("/classes/:id/students", ctrls.Student.GetStudentsByClass)
		authenticated.GET("/classes/:id/subjects", ctrls.Subject.GetSubjectsByClass)

		principal.POST("/classes", ctrls.Class.CreateClass)
		principal.PUT("/classes/:id", ctrls.Class.UpdateClass)
		principal.DELETE("/classes/:id", ctrls.Class.DeleteClass)
		principal.PUT("/classes/:id/timetable", ctrls.Class.SetClassTimetable)
	}

	// --- Students ---
	{
		authenticated.GET("/students", ctrls.Student.GetStudents)
		authenticated.GET("/students/count", ctrls.Student.CountStudents)
		authenticated.GET("/students/:id", ctrls.Student.GetStudentByID)

		principal.POST("/students", ctrls.Student.CreateStudent)
		principal.PUT("/students/:id", ctrls.Student.UpdateStudent)
	}

	// --- Teachers ---
	{
		authenticated.GET("/teachers", ctrls.Teacher.GetTeachers)
		authenticated.GET("/teachers/count", ctrls.Teacher.CountTeachers)
		authenticated.GET("/teachers/:id", ctrls.Teacher.GetTeacherByID)

		principal.POST("/teachers", ctrls.Teacher.CreateTeacher)
		principal.POST("/teachers/:id/assignments", ctrls.Teacher.AssignClassesAndSubjects)
		principal.DELETE("/teachers/:id/assignments", ctrls.Teacher.RemoveAssignments)
		principal.PUT("/teachers/:id/assignments", ctrls.Teacher.ReplaceAssignments)
		principal.PUT("/teachers/:id/class-teacher", ctrls.Teacher.MakeClassTeacher)
	}

	// --- Subjects ---
	{
		authenticated.GET("/subjects/:id", ctrls.Subject.GetSubjectByID)
		principal.POST("/subjects", ctrls.Subject.CreateSubject)
	}

	// --- Fees ---
	{
		authenticated.GET("/fees/students/:id", ctrls.Fee.FeeHistoryByStudent)
		authenticated.GET("/fees/classes/:id", ctrls.Fee.FeeStatusByClass)

		principal.POST("/fees/status", ctrls.Fee.MarkPaymentStatus)
		principal.POST("/fees/late-fine", ctrls.Fee.ImposeLateFine)
	}

	// --- Payroll ---
	{
		authenticated.GET("/payroll/teachers/:id", ctrls.Payroll.RecordsByTeacher)
		authenticated.GET("/payroll/paid-with-advance", ctrls.Payroll.TeachersPaidWithAdvance)
		principal.GET("/payroll/records", ctrls.Payroll.PaymentRecords)

		principal.POST("/payroll/advance", ctrls.Payroll.RequestAdvance)
		principal.POST("/payroll/advance/decision", ctrls.Payroll.DecideAdvance)
		principal.POST("/payroll/salary", ctrls.Payroll.MarkSalaryStatus)
	}

	// --- Reports ---
	reports := authenticated.Group("/reports")
	{
		reports.GET("/leaderboard", ctrls.Report.Leaderboard)
		reports.GET("/gender-ratio", ctrls.Report.GenderRatio)
		reports.GET("/fees", ctrls.Report.FeeSummary)
		reports.GET("/payroll", ctrls.Report.PayrollSummary)
	}

	// --- Exams and marks ---
	{
		authenticated.GET("/exams", ctrls.Record.GetExams)
		authenticated.GET("/marks/students/:id/exams/:examId", ctrls.Record.GetMarks)

		principal.POST("/exams", ctrls.Record.CreateExam)
		principal.PUT("/exams/:id/timetable", ctrls.Record.SetExamTimetable)
		principal.POST("/marks", ctrls.Record.AddMarks)
		principal.DELETE("/marks/students/:id/subjects/:subjectId", ctrls.Record.DeleteMarks)
	}

	// --- Attendance ---
	{
		authenticated.GET("/attendance/classes/:id/:date", ctrls.Record.GetAttendance)
		authenticated.GET("/attendance/students/:id", ctrls.Record.StudentAttendance)
		authenticated.GET("/attendance/teachers/:id", ctrls.Record.TeacherAttendance)

		principal.POST("/attendance/classes/:id", ctrls.Record.MarkAttendance)
		principal.PUT("/attendance/classes/:id/:date", ctrls.Record.UpdateAttendance)
		principal.POST("/attendance/teachers", ctrls.Record.MarkTeacherAttendance)
	}

	// --- Expenses ---
	{
		authenticated.GET("/expenses", ctrls.Record.GetExpenses)

		principal.POST("/expenses", ctrls.Record.CreateExpense)
		principal.DELETE("/expenses/:id", ctrls.Record.DeleteExpense)
	}

	// --- Announcements ---
	{
		authenticated.GET("/announcements", ctrls.Notice.GetAnnouncements)
		authenticated.GET("/announcements/:id", ctrls.Notice.GetAnnouncement)

		staff.POST("/announcements", ctrls.Notice.CreateAnnouncement)
		staff.DELETE("/announcements/:id", ctrls.Notice.DeleteAnnouncement)
	}

	// --- Events ---
	{
		authenticated.GET("/events", ctrls.Notice.GetEvents)
		authenticated.GET("/events/:id", ctrls.Notice.GetEvent)

		staff.POST("/events", ctrls.Notice.CreateEvent)
		staff.DELETE("/events", ctrls.Notice.DeleteEvents)
	}

	// --- Complaints ---
	{
		authenticated.GET("/complaints", ctrls.Notice.GetComplaints)
		authenticated.GET("/complaints/:id", ctrls.Notice.GetComplaint)
		authenticated.DELETE("/complaints/:id", ctrls.Notice.DeleteComplaint)

		students.POST("/complaints", ctrls.Notice.FileComplaint)
		principal.PUT("/complaints/:id/status", ctrls.Notice.UpdateComplaintStatus)
	}
}
