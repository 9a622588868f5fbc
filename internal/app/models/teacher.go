package models

import "time"

// Teacher defines the teacher model based on the 'teachers' table
type Teacher struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	PhoneNumber   string    `json:"phoneNumber" db:"phone_number"`
	Gender        Gender    `json:"gender" db:"gender"`
	Salary        int64     `json:"salary" db:"salary"`
	Qualification string    `json:"qualification" db:"qualification"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	ClassTeacherOf   *int64  `json:"classTeacherOf,omitempty"`
	AssignedClassIDs []int64 `json:"assignedClassIds,omitempty"`
	SubjectIDs       []int64 `json:"subjectIds,omitempty"`
}
