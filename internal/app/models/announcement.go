package models

import "time"

// Audience names who may read an announcement or event.
type Audience string

const (
	AudienceStudents Audience = "students"
	AudienceTeachers Audience = "teachers"
	AudienceEveryone Audience = "everyone"
)

// Valid reports whether a is a known audience.
func (a Audience) Valid() bool {
	return a == AudienceStudents || a == AudienceTeachers || a == AudienceEveryone
}

// Author identifies who published a notice: the principal or a teacher.
type Author struct {
	Role string `json:"role" db:"created_by_role"`
	ID   int64  `json:"id" db:"created_by_id"`
}

// Announcement is a notice posted to an audience.
type Announcement struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Audience  Audience  `json:"audience" db:"audience"`
	CreatedBy Author    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
