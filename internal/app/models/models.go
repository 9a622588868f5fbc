package models

// Gender of a student or teacher, used by the gender ratio report.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// EntityKind names a collection of the entity graph.
type EntityKind string

const (
	KindClass   EntityKind = "class"
	KindStudent EntityKind = "student"
	KindTeacher EntityKind = "teacher"
	KindSubject EntityKind = "subject"
	KindExam    EntityKind = "exam"
)

// FeeStatus is the payment state of a fee ledger row.
type FeeStatus string

const (
	FeePaid    FeeStatus = "paid"
	FeeNotPaid FeeStatus = "not paid"
)

// Valid reports whether s is a known fee status.
func (s FeeStatus) Valid() bool {
	return s == FeePaid || s == FeeNotPaid
}

// SalaryStatus is the payment state of a payroll ledger row.
type SalaryStatus string

const (
	SalaryUnpaid  SalaryStatus = "unpaid"
	SalaryPaid    SalaryStatus = "paid"
	SalaryPending SalaryStatus = "pending"
)

// Valid reports whether s is a known salary status.
func (s SalaryStatus) Valid() bool {
	return s == SalaryUnpaid || s == SalaryPaid || s == SalaryPending
}

// AdvanceStatus tracks the advance pay sub-workflow.
type AdvanceStatus string

const (
	AdvanceNone     AdvanceStatus = "none"
	AdvancePending  AdvanceStatus = "pending"
	AdvanceApproved AdvanceStatus = "approved"
	AdvanceRejected AdvanceStatus = "rejected"
)

// Valid reports whether s is a known advance status.
func (s AdvanceStatus) Valid() bool {
	return s == AdvanceNone || s == AdvancePending || s.IsDecision()
}

// IsDecision reports whether s closes a pending request.
func (s AdvanceStatus) IsDecision() bool {
	return s == AdvanceApproved || s == AdvanceRejected
}

// AttendanceStatus is a present/absent mark.
type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
)

// Valid reports whether s is a known attendance status.
func (s AttendanceStatus) Valid() bool {
	return s == Present || s == Absent
}
