package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/middleware"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// ClassController handles class-related operations
type ClassController struct {
	classService services.ClassService
}

// NewClassController creates a new ClassController
func NewClassController(classService services.ClassService) *ClassController {
	return &ClassController{
		classService: classService,
	}
}

// CreateClass handles POST /classes
func (c *ClassController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.classService.CreateClass(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, class, "Class created successfully")
}

// GetClasses handles GET /classes with page and size query parameters
func (c *ClassController) GetClasses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.classService.GetClasses(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, resp)
}

// GetAllClasses handles GET /classes/all
func (c *ClassController) GetAllClasses(ctx *gin.Context) {
	classes, err := c.classService.GetAllClasses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, classes)
}

// GetClassByID handles GET /classes/:id
func (c *ClassController) GetClassByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	class, err := c.classService.GetClassByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, class)
}

// UpdateClass handles PUT /classes/:id
func (c *ClassController) UpdateClass(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	var req dto.UpdateClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.classService.UpdateClass(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, class)
}

// DeleteClass handles DELETE /classes/:id. Students and subjects of the class go with it.
func (c *ClassController) DeleteClass(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	if err := c.classService.DeleteClass(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.SuccessResponse{Message: "Class deleted successfully"})
}

// GetClassFee handles GET /classes/:id/fee
func (c *ClassController) GetClassFee(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	fee, err := c.classService.GetClassFee(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, fee)
}

// SetClassTimetable handles PUT /classes/:id/timetable
func (c *ClassController) SetClassTimetable(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	var req dto.SetTimetableRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.classService.SetClassTimetable(ctx.Request.Context(), id, req.TimetableURL); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.SuccessResponse{Message: "Timetable updated"})
}
