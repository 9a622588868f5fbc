package models

import "time"

// StudentAttendance is the attendance sheet of one class on one date.
type StudentAttendance struct {
	ID        int64             `json:"id" db:"id"`
	ClassID   int64             `json:"classId" db:"class_id"`
	Date      time.Time         `json:"date" db:"attendance_date"`
	Entries   []AttendanceEntry `json:"entries"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
}

// AttendanceEntry is one student's line on a sheet.
type AttendanceEntry struct {
	StudentID int64            `json:"studentId" db:"student_id"`
	Status    AttendanceStatus `json:"status" db:"status"`
}

// StudentAttendanceDay is a student's status on one date, used for history listings.
type StudentAttendanceDay struct {
	ClassID int64            `json:"classId"`
	Date    time.Time        `json:"date"`
	Status  AttendanceStatus `json:"status"`
}

// TeacherAttendance records one teacher on one date.
type TeacherAttendance struct {
	ID        int64            `json:"id" db:"id"`
	TeacherID int64            `json:"teacherId" db:"teacher_id"`
	Date      time.Time        `json:"date" db:"attendance_date"`
	Status    AttendanceStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

// DateRange bounds history queries. Zero values are open ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d falls inside the range, inclusive.
func (r DateRange) Contains(d time.Time) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}
