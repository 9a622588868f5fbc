package models

import "time"

// FeePayment is one row of the fee ledger, keyed by (StudentID, Month).
// Month is a calendar month name such as "March".
type FeePayment struct {
	ID               int64      `json:"id" db:"id"`
	StudentID        int64      `json:"studentId" db:"student_id"`
	Month            string     `json:"month" db:"month"`
	Status           FeeStatus  `json:"status" db:"status"`
	BaseAmount       int64      `json:"baseAmount" db:"base_amount"`
	LateFine         bool       `json:"lateFine" db:"late_fine"`
	LateFineAmount   int64      `json:"lateFineAmount" db:"late_fine_amount"`
	FinePaid         bool       `json:"finePaid" db:"fine_paid"`
	IsAdvancePayment bool       `json:"isAdvancePayment" db:"is_advance_payment"`
	PaymentDate      *time.Time `json:"paymentDate,omitempty" db:"payment_date"`
	Notes            *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// TotalAmount is derived on read and never stored.
func (f FeePayment) TotalAmount() int64 {
	return f.BaseAmount + f.LateFineAmount
}

// FeePaymentUpsert describes a status write to the fee ledger.
type FeePaymentUpsert struct {
	StudentID        int64
	Month            string
	Status           FeeStatus
	BaseAmount       int64 // used only when the row is inserted
	PaymentDate      *time.Time
	Notes            *string
	IsAdvancePayment *bool
	FinePaid         *bool
}

// LateFineUpsert describes a late fine imposition.
type LateFineUpsert struct {
	StudentID  int64
	Month      string
	BaseAmount int64 // used only when the row is inserted
	Fine       int64 // added to late_fine_amount on every call
}
