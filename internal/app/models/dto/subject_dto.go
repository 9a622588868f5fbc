package dto

// CreateSubjectRequest represents subject registration data
type CreateSubjectRequest struct {
	Name       string  `json:"name" binding:"required,entityname"`
	ClassID    int64   `json:"classId" binding:"required,gt=0"`
	TeacherIDs []int64 `json:"teacherIds" binding:"omitempty,dive,gt=0"`
	StudentIDs []int64 `json:"studentIds" binding:"omitempty,dive,gt=0"`
}
