package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/schoolcore/internal/app/auth"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/middleware"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// RecordController handles exams, marks, attendance and expenses
type RecordController struct {
	examService       services.ExamService
	attendanceService services.AttendanceService
	expenseService    services.ExpenseService
	authz             *appAuth.AuthorizationService
}

// NewRecordController creates a new RecordController
func NewRecordController(
	examService services.ExamService,
	attendanceService services.AttendanceService,
	expenseService services.ExpenseService,
	authz *appAuth.AuthorizationService,
) *RecordController {
	return &RecordController{
		examService:       examService,
		attendanceService: attendanceService,
		expenseService:    expenseService,
		authz:             authz,
	}
}

// --- Exams ---

// CreateExam handles POST /exams
func (c *RecordController) CreateExam(ctx *gin.Context) {
	var req dto.CreateExamRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	exam, err := c.examService.CreateExam(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, exam, "Exam created successfully")
}

// GetExams handles GET /exams
func (c *RecordController) GetExams(ctx *gin.Context) {
	exams, err := c.examService.GetExams(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, exams)
}

// SetExamTimetable handles PUT /exams/:id/timetable
func (c *RecordController) SetExamTimetable(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	var req dto.SetTimetableRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.examService.SetExamTimetable(ctx.Request.Context(), id, req.TimetableURL); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.SuccessResponse{Message: "Timetable updated"})
}

// --- Marks ---

// AddMarks handles POST /marks
func (c *RecordController) AddMarks(ctx *gin.Context) {
	var req dto.AddMarksRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	marks, err := c.examService.AddMarks(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, marks, "Marks recorded successfully")
}

// GetMarks handles GET /marks/students/:id/exams/:examId
func (c *RecordController) GetMarks(ctx *gin.Context) {
	studentID, valid := pathID(ctx, "id")
	if !valid || !authorize(ctx, c.authz.ValidateStudentRecordAccess, studentID) {
		return
	}
	examID, valid := pathID(ctx, "examId")
	if !valid {
		return
	}

	marks, err := c.examService.GetMarks(ctx.Request.Context(), studentID, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, marks)
}

// DeleteMarks handles DELETE /marks/students/:id/subjects/:subjectId
// An optional examId query parameter narrows the delete to one exam.
func (c *RecordController) DeleteMarks(ctx *gin.Context) {
	studentID, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	subjectID, valid := pathID(ctx, "subjectId")
	if !valid {
		return
	}

	var examID *int64
	if raw := ctx.Query("examId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(ctx, "Invalid query parameter", "examId must be a positive integer")
			return
		}
		examID = &id
	}

	deleted, err := c.examService.DeleteMarks(ctx.Request.Context(), studentID, subjectID, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.CountResponse{Count: deleted})
}

// --- Attendance ---

// MarkAttendance handles POST /attendance/classes/:id
func (c *RecordController) MarkAttendance(ctx *gin.Context) {
	classID, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	var req dto.MarkAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	sheet, err := c.attendanceService.MarkAttendance(ctx.Request.Context(), classID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, sheet, "Attendance recorded")
}

// GetAttendance handles GET /attendance/classes/:id/:date
func (c *RecordController) GetAttendance(ctx *gin.Context) {
	classID, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	sheet, err := c.attendanceService.GetAttendance(ctx.Request.Context(), classID, ctx.Param("date"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, sheet)
}

// UpdateAttendance handles PUT /attendance/classes/:id/:date
func (c *RecordController) UpdateAttendance(ctx *gin.Context) {
	classID, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	var req dto.UpdateAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	sheet, err := c.attendanceService.UpdateAttendance(ctx.Request.Context(), classID, ctx.Param("date"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, sheet)
}

// StudentAttendance handles GET /attendance/students/:id
func (c *RecordController) StudentAttendance(ctx *gin.Context) {
	studentID, valid := pathID(ctx, "id")
	if !valid || !authorize(ctx, c.authz.ValidateStudentRecordAccess, studentID) {
		return
	}

	days, err := c.attendanceService.StudentHistory(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, days)
}

// MarkTeacherAttendance handles POST /attendance/teachers
func (c *RecordController) MarkTeacherAttendance(ctx *gin.Context) {
	var req dto.TeacherAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	row, err := c.attendanceService.MarkTeacherAttendance(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, row)
}

// TeacherAttendance handles GET /attendance/teachers/:id with optional from and to dates
func (c *RecordController) TeacherAttendance(ctx *gin.Context) {
	teacherID, valid := pathID(ctx, "id")
	if !valid || !authorize(ctx, c.authz.ValidateTeacherRecordAccess, teacherID) {
		return
	}

	rows, err := c.attendanceService.TeacherHistory(ctx.Request.Context(), teacherID, ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, rows)
}

// --- Expenses ---

// CreateExpense handles POST /expenses
func (c *RecordController) CreateExpense(ctx *gin.Context) {
	var req dto.CreateExpenseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	expense, err := c.expenseService.CreateExpense(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, expense, "Expense recorded")
}

// GetExpenses handles GET /expenses
func (c *RecordController) GetExpenses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.expenseService.GetExpenses(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, resp)
}

// DeleteExpense handles DELETE /expenses/:id
func (c *RecordController) DeleteExpense(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	if err := c.expenseService.DeleteExpense(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.SuccessResponse{Message: "Expense deleted successfully"})
}
