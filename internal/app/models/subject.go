package models

import "time"

// Subject is taught in one class by one or more teachers.
type Subject struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ClassID   *int64    `json:"classId,omitempty" db:"class_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	TeacherIDs []int64 `json:"teacherIds,omitempty"`
	StudentIDs []int64 `json:"studentIds,omitempty"`
}
