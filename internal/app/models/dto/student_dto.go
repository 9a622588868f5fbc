package dto

import "github.com/yigit/schoolcore/internal/app/models"

// CreateStudentRequest represents student registration data
type CreateStudentRequest struct {
	Name          string        `json:"name" binding:"required,entityname"`
	Email         string        `json:"email" binding:"required,schoolemail"`
	Password      string        `json:"password" binding:"required,min=8"`
	Gender        models.Gender `json:"gender" binding:"required,oneof=male female other"`
	ClassID       int64         `json:"classId" binding:"required,gt=0"`
	Section       string        `json:"section" binding:"max=20"`
	RollNumber    string        `json:"rollNumber" binding:"max=20"`
	Grade         string        `json:"grade" binding:"max=20"`
	ParentName    string        `json:"parentName" binding:"max=100"`
	ParentContact string        `json:"parentContact" binding:"max=30"`
	SubjectIDs    []int64       `json:"subjectIds" binding:"omitempty,dive,gt=0"`
}

// UpdateStudentRequest changes the provided fields only
type UpdateStudentRequest struct {
	Name          *string  `json:"name" binding:"omitempty,entityname"`
	Section       *string  `json:"section" binding:"omitempty,max=20"`
	RollNumber    *string  `json:"rollNumber" binding:"omitempty,max=20"`
	Grade         *string  `json:"grade" binding:"omitempty,max=20"`
	ParentName    *string  `json:"parentName" binding:"omitempty,max=100"`
	ParentContact *string  `json:"parentContact" binding:"omitempty,max=30"`
	ClassID       *int64   `json:"classId" binding:"omitempty,gt=0"`
	SubjectIDs    *[]int64 `json:"subjectIds"`
}

// StudentListResponse represents a page of students
type StudentListResponse struct {
	Students []models.Student `json:"students"`
	PaginationInfo
}
