package dto

import "github.com/yigit/schoolcore/internal/app/models"

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// CreateExamRequest represents exam creation data
type CreateExamRequest struct {
	Name     string `json:"name" binding:"required,entityname"`
	ExamDate string `json:"examDate" binding:"required,datetime=2006-01-02"`
}

// MarkEntryRequest is one subject score in a batch
type MarkEntryRequest struct {
	SubjectID     int64 `json:"subjectId" binding:"required,gt=0"`
	MarksObtained int   `json:"marksObtained" binding:"gte=0"`
	MaxMarks      *int  `json:"maxMarks" binding:"omitempty,gt=0"`
}

// AddMarksRequest records a batch of scores for one student and exam
type AddMarksRequest struct {
	StudentID int64              `json:"studentId" binding:"required,gt=0"`
	ClassID   int64              `json:"classId" binding:"required,gt=0"`
	ExamID    int64              `json:"examId" binding:"required,gt=0"`
	Marks     []MarkEntryRequest `json:"marks" binding:"required,min=1,dive"`
}

// AttendanceEntryRequest is one student's status
type AttendanceEntryRequest struct {
	StudentID int64                   `json:"studentId" binding:"required,gt=0"`
	Status    models.AttendanceStatus `json:"status" binding:"required,oneof=present absent"`
}

// MarkAttendanceRequest records a class attendance sheet
type MarkAttendanceRequest struct {
	Date    string                   `json:"date" binding:"required,datetime=2006-01-02"`
	Entries []AttendanceEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// UpdateAttendanceRequest replaces the entries of an existing sheet
type UpdateAttendanceRequest struct {
	Entries []AttendanceEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// TeacherAttendanceRequest records one teacher's attendance
type TeacherAttendanceRequest struct {
	TeacherID int64                   `json:"teacherId" binding:"required,gt=0"`
	Date      string                  `json:"date" binding:"required,datetime=2006-01-02"`
	Status    models.AttendanceStatus `json:"status" binding:"required,oneof=present absent"`
}

// CreateExpenseRequest represents an expense entry
type CreateExpenseRequest struct {
	Title       string  `json:"title" binding:"required,min=2,max=200"`
	Amount      int64   `json:"amount" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"max=50"`
	ExpenseDate string  `json:"expenseDate" binding:"required,datetime=2006-01-02"`
	Notes       *string `json:"notes" binding:"omitempty,max=500"`
}

// ExpenseListResponse represents a page of expenses
type ExpenseListResponse struct {
	Expenses []models.Expense `json:"expenses"`
	PaginationInfo
}
