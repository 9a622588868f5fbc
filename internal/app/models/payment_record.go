package models

import "time"

// PaymentRecord is one row of the payroll ledger, keyed by (TeacherID, Month "YYYY-MM").
type PaymentRecord struct {
	ID                  int64         `json:"id" db:"id"`
	TeacherID           int64         `json:"teacherId" db:"teacher_id"`
	Month               string        `json:"month" db:"month"`
	Status              SalaryStatus  `json:"status" db:"status"`
	AdvancePayRequest   bool          `json:"advancePayRequest" db:"advance_pay_request"`
	AdvanceAmount       int64         `json:"advanceAmount" db:"advance_amount"`
	AdvanceRequestDate  *time.Time    `json:"advanceRequestDate,omitempty" db:"advance_request_date"`
	AdvanceStatus       AdvanceStatus `json:"advanceStatus" db:"advance_status"`
	AdvanceApprovalDate *time.Time    `json:"advanceApprovalDate,omitempty" db:"advance_approval_date"`
	CreatedAt           time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time     `json:"updatedAt" db:"updated_at"`
}

// PaymentRecordFilter narrows payroll listings. Empty fields match everything.
type PaymentRecordFilter struct {
	TeacherID     *int64
	Month         string
	Status        SalaryStatus
	AdvanceStatus AdvanceStatus
}
