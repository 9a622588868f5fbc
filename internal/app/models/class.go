package models

import "time"

// Class is an academic class (e.g. "Grade 10", section "A").
type Class struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Section        string    `json:"section" db:"section"`
	Fee            int64     `json:"fee" db:"fee"`                           // monthly fee
	LateFineAmount int64     `json:"lateFineAmount" db:"late_fine_amount"`   // added per late fine imposition
	TimetableURL   *string   `json:"timetableUrl,omitempty" db:"timetable_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	ClassTeacherID *int64 `json:"classTeacherId,omitempty"`
	StudentIDs     []int64 `json:"studentIds,omitempty"`
	SubjectIDs     []int64 `json:"subjectIds,omitempty"`
}

// ClassReferences counts rows still pointing at a class. All zero after a cascade delete.
type ClassReferences struct {
	Students         int
	Subjects         int
	TeacherAssigned  int
	ClassTeacherLink int
}

// Clean reports whether nothing references the class any more.
func (r ClassReferences) Clean() bool {
	return r.Students == 0 && r.Subjects == 0 && r.TeacherAssigned == 0 && r.ClassTeacherLink == 0
}
