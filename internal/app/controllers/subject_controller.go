package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/middleware"
)

// SubjectController handles subject-related operations
type SubjectController struct {
	subjectService services.SubjectService
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService services.SubjectService) *SubjectController {
	return &SubjectController{
		subjectService: subjectService,
	}
}

// CreateSubject handles POST /subjects
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	subject, err := c.subjectService.CreateSubject(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, subject, "Subject created successfully")
}

// GetSubjectByID handles GET /subjects/:id
func (c *SubjectController) GetSubjectByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	subject, err := c.subjectService.GetSubjectByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, subject)
}

// GetSubjectsByClass handles GET /classes/:id/subjects
func (c *SubjectController) GetSubjectsByClass(ctx *gin.Context) {
	classID, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	subjects, err := c.subjectService.GetSubjectsByClass(ctx.Request.Context(), classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, subjects)
}
