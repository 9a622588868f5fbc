package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/middleware"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// TeacherController handles teacher-related operations
type TeacherController struct {
	teacherService services.TeacherService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService services.TeacherService) *TeacherController {
	return &TeacherController{
		teacherService: teacherService,
	}
}

// CreateTeacher handles POST /teachers
func (c *TeacherController) CreateTeacher(ctx *gin.Context) {
	var req dto.CreateTeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	teacher, err := c.teacherService.CreateTeacher(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, teacher, "Teacher registered successfully")
}

// GetTeachers handles GET /teachers
func (c *TeacherController) GetTeachers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.teacherService.GetTeachers(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, resp)
}

// CountTeachers handles GET /teachers/count
func (c *TeacherController) CountTeachers(ctx *gin.Context) {
	n, err := c.teacherService.CountTeachers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.CountResponse{Count: n})
}

// GetTeacherByID handles GET /teachers/:id
func (c *TeacherController) GetTeacherByID(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}

	teacher, err := c.teacherService.GetTeacherByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, teacher)
}

type assignmentFunc func(ctx context.Context, id int64, req dto.TeacherAssignmentsRequest) (*models.Teacher, error)

func (c *TeacherController) changeAssignments(ctx *gin.Context, apply assignmentFunc) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	var req dto.TeacherAssignmentsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	teacher, err := apply(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, teacher)
}

// AssignClassesAndSubjects handles POST /teachers/:id/assignments
func (c *TeacherController) AssignClassesAndSubjects(ctx *gin.Context) {
	c.changeAssignments(ctx, c.teacherService.AssignClassesAndSubjects)
}

// RemoveAssignments handles DELETE /teachers/:id/assignments
func (c *TeacherController) RemoveAssignments(ctx *gin.Context) {
	c.changeAssignments(ctx, c.teacherService.RemoveAssignments)
}

// ReplaceAssignments handles PUT /teachers/:id/assignments
func (c *TeacherController) ReplaceAssignments(ctx *gin.Context) {
	c.changeAssignments(ctx, c.teacherService.ReplaceAssignments)
}

// MakeClassTeacher handles PUT /teachers/:id/class-teacher
func (c *TeacherController) MakeClassTeacher(ctx *gin.Context) {
	id, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	var req dto.MakeClassTeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	teacher, err := c.teacherService.MakeClassTeacher(ctx.Request.Context(), id, req.ClassID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, teacher)
}
