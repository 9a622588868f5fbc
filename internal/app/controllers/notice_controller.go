package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/middleware"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// NoticeController handles announcements, events and complaints
type NoticeController struct {
	announcementService services.AnnouncementService
	eventService        services.EventService
	complaintService    services.ComplaintService
}

// NewNoticeController creates a new NoticeController
func NewNoticeController(
	announcementService services.AnnouncementService,
	eventService services.EventService,
	complaintService services.ComplaintService,
) *NoticeController {
	return &NoticeController{
		announcementService: announcementService,
		eventService:        eventService,
		complaintService:    complaintService,
	}
}

// --- Announcements ---

// CreateAnnouncement handles POST /announcements
func (c *NoticeController) CreateAnnouncement(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	var req dto.CreateAnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	announcement, err := c.announcementService.CreateAnnouncement(ctx.Request.Context(), principal, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, announcement, "Announcement published")
}

// GetAnnouncements handles GET /announcements
func (c *NoticeController) GetAnnouncements(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.announcementService.GetAnnouncements(ctx.Request.Context(), principal, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, resp)
}

// GetAnnouncement handles GET /announcements/:id
func (c *NoticeController) GetAnnouncement(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	announcement, err := c.announcementService.GetAnnouncement(ctx.Request.Context(), principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, announcement)
}

// DeleteAnnouncement handles DELETE /announcements/:id
func (c *NoticeController) DeleteAnnouncement(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	if err := c.announcementService.DeleteAnnouncement(ctx.Request.Context(), principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.SuccessResponse{Message: "Announcement deleted successfully"})
}

// --- Events ---

// CreateEvent handles POST /events
func (c *NoticeController) CreateEvent(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), principal, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, event, "Event published")
}

// GetEvents handles GET /events
func (c *NoticeController) GetEvents(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.eventService.GetEvents(ctx.Request.Context(), principal, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, resp)
}

// GetEvent handles GET /events/:id
func (c *NoticeController) GetEvent(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	event, err := c.eventService.GetEvent(ctx.Request.Context(), principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, event)
}

// DeleteEvents handles DELETE /events with the ids in the body
func (c *NoticeController) DeleteEvents(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	var req dto.DeleteEventsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	deleted, err := c.eventService.DeleteEvents(ctx.Request.Context(), principal, req.EventIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, gin.H{"deletedIds": deleted})
}

// --- Complaints ---

// FileComplaint handles POST /complaints
func (c *NoticeController) FileComplaint(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	var req dto.CreateComplaintRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	complaint, err := c.complaintService.FileComplaint(ctx.Request.Context(), principal, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, complaint, "Complaint filed")
}

// GetComplaints handles GET /complaints
func (c *NoticeController) GetComplaints(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.complaintService.GetComplaints(ctx.Request.Context(), principal, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, resp)
}

// GetComplaint handles GET /complaints/:id
func (c *NoticeController) GetComplaint(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	complaint, err := c.complaintService.GetComplaint(ctx.Request.Context(), principal, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, complaint)
}

// UpdateComplaintStatus handles PUT /complaints/:id/status
func (c *NoticeController) UpdateComplaintStatus(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	var req dto.UpdateComplaintStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	complaint, err := c.complaintService.UpdateComplaintStatus(ctx.Request.Context(), principal, id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, complaint)
}

// DeleteComplaint handles DELETE /complaints/:id
func (c *NoticeController) DeleteComplaint(ctx *gin.Context) {
	principal, exists := caller(ctx)
	if !exists {
		return
	}
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	if err := c.complaintService.DeleteComplaint(ctx.Request.Context(), principal, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.SuccessResponse{Message: "Complaint deleted successfully"})
}
