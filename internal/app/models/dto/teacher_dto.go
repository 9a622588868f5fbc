package dto

import "github.com/yigit/schoolcore/internal/app/models"

// CreateTeacherRequest represents teacher registration data
type CreateTeacherRequest struct {
	Name             string        `json:"name" binding:"required,entityname"`
	Email            string        `json:"email" binding:"required,schoolemail"`
	Password         string        `json:"password" binding:"required,min=8"`
	PhoneNumber      string        `json:"phoneNumber" binding:"max=30"`
	Gender           models.Gender `json:"gender" binding:"required,oneof=male female other"`
	Salary           int64         `json:"salary" binding:"gte=0"`
	Qualification    string        `json:"qualification" binding:"max=100"`
	SubjectIDs       []int64       `json:"subjectIds" binding:"omitempty,dive,gt=0"`
	AssignedClassIDs []int64       `json:"assignedClassIds" binding:"omitempty,dive,gt=0"`
	ClassTeacherOf   *int64        `json:"classTeacherOf" binding:"omitempty,gt=0"`
}

// TeacherAssignmentsRequest lists classes and subjects to add, remove or replace
type TeacherAssignmentsRequest struct {
	ClassIDs   []int64 `json:"classIds" binding:"omitempty,dive,gt=0"`
	SubjectIDs []int64 `json:"subjectIds" binding:"omitempty,dive,gt=0"`
}

// MakeClassTeacherRequest names the class a teacher should lead
type MakeClassTeacherRequest struct {
	ClassID int64 `json:"classId" binding:"required,gt=0"`
}

// TeacherListResponse represents a page of teachers
type TeacherListResponse struct {
	Teachers []models.Teacher `json:"teachers"`
	PaginationInfo
}
