package models

import "time"

// Exam is a named sitting that marks are recorded against.
type Exam struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ExamDate     time.Time `json:"examDate" db:"exam_date"`
	TimetableURL *string   `json:"timetableUrl,omitempty" db:"timetable_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
