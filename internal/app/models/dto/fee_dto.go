package dto

import (
	"time"

	"github.com/yigit/schoolcore/internal/app/models"
)

// MarkFeeStatusRequest upserts the fee row of a student for a month
type MarkFeeStatusRequest struct {
	StudentID        int64            `json:"studentId" binding:"required,gt=0"`
	Month            string           `json:"month" binding:"required,month"`
	Status           models.FeeStatus `json:"status" binding:"required"`
	PaymentDate      *time.Time       `json:"paymentDate"`
	Notes            *string          `json:"notes" binding:"omitempty,max=500"`
	IsAdvancePayment *bool            `json:"isAdvancePayment"`
	FinePaid         *bool            `json:"finePaid"`
}

// ImposeLateFineRequest adds the class late fine to a student's month
type ImposeLateFineRequest struct {
	StudentID int64  `json:"studentId" binding:"required,gt=0"`
	Month     string `json:"month" binding:"required,month"`
}

// FeePaymentResponse is a fee row with its derived total
type FeePaymentResponse struct {
	models.FeePayment
	TotalAmount int64 `json:"totalAmount"`
}

// NewFeePaymentResponse derives the total amount of a fee row
func NewFeePaymentResponse(f models.FeePayment) FeePaymentResponse {
	return FeePaymentResponse{FeePayment: f, TotalAmount: f.TotalAmount()}
}

// NewFeePaymentResponses maps a list of fee rows
func NewFeePaymentResponses(rows []models.FeePayment) []FeePaymentResponse {
	out := make([]FeePaymentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewFeePaymentResponse(r))
	}
	return out
}

// ClassFeeStatusEntry is one student's fee state in a class listing
type ClassFeeStatusEntry struct {
	StudentID   int64            `json:"studentId"`
	StudentName string           `json:"studentName"`
	Status      models.FeeStatus `json:"status"`
	TotalAmount int64            `json:"totalAmount"`
	LateFine    bool             `json:"lateFine"`
}
