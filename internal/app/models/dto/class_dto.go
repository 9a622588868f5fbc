package dto

import "github.com/yigit/schoolcore/internal/app/models"

// CreateClassRequest represents class registration data
type CreateClassRequest struct {
	Name           string  `json:"name" binding:"required,entityname"`
	Section        string  `json:"section" binding:"required,max=20"`
	Fee            int64   `json:"fee" binding:"gte=0"`
	LateFineAmount int64   `json:"lateFineAmount" binding:"gte=0"`
	ClassTeacherID *int64  `json:"classTeacherId" binding:"omitempty,gt=0"`
	StudentIDs     []int64 `json:"studentIds" binding:"omitempty,dive,gt=0"`
	SubjectIDs     []int64 `json:"subjectIds" binding:"omitempty,dive,gt=0"`
}

// UpdateClassRequest replaces class attributes and, when present, the desired reference sets.
// A nil set leaves the current references untouched; an empty set clears them.
type UpdateClassRequest struct {
	Name               string   `json:"name" binding:"required,entityname"`
	Section            string   `json:"section" binding:"required,max=20"`
	Fee                int64    `json:"fee" binding:"gte=0"`
	LateFineAmount     int64    `json:"lateFineAmount" binding:"gte=0"`
	ClassTeacherID     *int64   `json:"classTeacherId" binding:"omitempty,gt=0"`
	RemoveClassTeacher bool     `json:"removeClassTeacher"`
	StudentIDs         *[]int64 `json:"studentIds"`
	SubjectIDs         *[]int64 `json:"subjectIds"`
}

// SetTimetableRequest stores an externally hosted timetable
type SetTimetableRequest struct {
	TimetableURL string `json:"timetableUrl" binding:"required,url"`
}

// ClassDetailResponse is a class with its resolved references
type ClassDetailResponse struct {
	models.Class
	ClassTeacher *models.Teacher  `json:"classTeacher,omitempty"`
	Students     []models.Student `json:"students"`
	Subjects     []models.Subject `json:"subjects"`
}

// ClassFeeResponse carries the fee configuration of a class
type ClassFeeResponse struct {
	ClassID        int64 `json:"classId"`
	Fee            int64 `json:"fee"`
	LateFineAmount int64 `json:"lateFineAmount"`
}

// ClassListResponse represents a page of classes
type ClassListResponse struct {
	Classes []models.Class `json:"classes"`
	PaginationInfo
}
