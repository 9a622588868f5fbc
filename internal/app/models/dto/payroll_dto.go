package dto

import "github.com/yigit/schoolcore/internal/app/models"

// RequestAdvanceRequest asks for an advance against a month's salary
type RequestAdvanceRequest struct {
	TeacherID int64  `json:"teacherId" binding:"required,gt=0"`
	Month     string `json:"month" binding:"required,yearmonth"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}

// DecideAdvanceRequest approves or rejects the teacher's pending advance
type DecideAdvanceRequest struct {
	TeacherID int64                `json:"teacherId" binding:"required,gt=0"`
	Decision  models.AdvanceStatus `json:"decision" binding:"required,oneof=approved rejected"`
}

// MarkSalaryStatusRequest upserts the salary status of a teacher for a month
type MarkSalaryStatusRequest struct {
	TeacherID int64               `json:"teacherId" binding:"required,gt=0"`
	Month     string              `json:"month" binding:"required,yearmonth"`
	Status    models.SalaryStatus `json:"status" binding:"required,oneof=unpaid paid pending"`
}

// PaymentRecordListResponse represents a page of payroll rows
type PaymentRecordListResponse struct {
	Records []models.PaymentRecord `json:"records"`
	PaginationInfo
}
