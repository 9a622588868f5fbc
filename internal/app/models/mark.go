package models

import "time"

// DefaultMaxMarks is used when a mark is recorded without an explicit maximum.
const DefaultMaxMarks = 100

// Mark is a student's score in one subject of one exam.
type Mark struct {
	ID            int64     `json:"id" db:"id"`
	StudentID     int64     `json:"studentId" db:"student_id"`
	ClassID       int64     `json:"classId" db:"class_id"`
	SubjectID     int64     `json:"subjectId" db:"subject_id"`
	ExamID        int64     `json:"examId" db:"exam_id"`
	MarksObtained int       `json:"marksObtained" db:"marks_obtained"`
	MaxMarks      int       `json:"maxMarks" db:"max_marks"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// MarkTotal is the per-student sum used by the leaderboard.
type MarkTotal struct {
	StudentID     int64
	StudentName   string
	TotalObtained int64
	TotalMax      int64
}
