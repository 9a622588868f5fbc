package models

import "time"

// ComplaintStatus tracks how far a complaint has been handled.
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "pending"
	ComplaintInProgress ComplaintStatus = "in-progress"
	ComplaintResolved   ComplaintStatus = "resolved"
)

// Valid reports whether s is a known complaint status.
func (s ComplaintStatus) Valid() bool {
	return s == ComplaintPending || s == ComplaintInProgress || s == ComplaintResolved
}

// Complaint is filed by a student and handled by the principal.
type Complaint struct {
	ID        int64           `json:"id" db:"id"`
	StudentID int64           `json:"studentId" db:"student_id"`
	Body      string          `json:"complaint" db:"body"`
	Status    ComplaintStatus `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}
