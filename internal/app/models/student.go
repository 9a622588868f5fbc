package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Gender        Gender    `json:"gender" db:"gender"`
	ClassID       *int64    `json:"classId,omitempty" db:"class_id"` // nil once removed from a class
	Section       string    `json:"section" db:"section"`
	RollNumber    string    `json:"rollNumber" db:"roll_number"`
	Grade         string    `json:"grade" db:"grade"`
	ParentName    string    `json:"parentName" db:"parent_name"`
	ParentContact string    `json:"parentContact" db:"parent_contact"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	SubjectIDs []int64 `json:"subjectIds,omitempty"`
}
