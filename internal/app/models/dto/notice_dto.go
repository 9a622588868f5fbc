package dto

import "github.com/yigit/schoolcore/internal/app/models"

// CreateAnnouncementRequest represents a new announcement. Audience defaults to everyone.
type CreateAnnouncementRequest struct {
	Title    string `json:"title" binding:"required,min=2,max=200"`
	Content  string `json:"content" binding:"required,max=5000"`
	Audience string `json:"audience" binding:"omitempty,oneof=students teachers everyone"`
}

// AnnouncementListResponse represents a page of announcements
type AnnouncementListResponse struct {
	Announcements []models.Announcement `json:"announcements"`
	PaginationInfo
}

// CreateEventRequest represents a new event
type CreateEventRequest struct {
	Title     string `json:"title" binding:"required,min=2,max=200"`
	Content   string `json:"content" binding:"required,max=5000"`
	EventDate string `json:"eventDate" binding:"required,datetime=2006-01-02"`
	Venue     string `json:"venue" binding:"required,max=200"`
	Audience  string `json:"audience" binding:"omitempty,oneof=students teachers everyone"`
}

// DeleteEventsRequest names the events removed in one batch
type DeleteEventsRequest struct {
	EventIDs []int64 `json:"eventIds" binding:"required,min=1,dive,gt=0"`
}

// EventListResponse represents a page of events
type EventListResponse struct {
	Events []models.Event `json:"events"`
	PaginationInfo
}

// CreateComplaintRequest represents a complaint filed by a student
type CreateComplaintRequest struct {
	Complaint string `json:"complaint" binding:"required,min=10,max=500"`
}

// UpdateComplaintStatusRequest moves a complaint along its workflow
type UpdateComplaintStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in-progress resolved"`
}

// ComplaintListResponse represents a page of complaints
type ComplaintListResponse struct {
	Complaints []models.Complaint `json:"complaints"`
	PaginationInfo
}
