package controllers

import (
	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/schoolcore/internal/app/auth"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/middleware"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// PayrollController exposes teacher salaries and advances
type PayrollController struct {
	payrollService services.PayrollService
	authz          *appAuth.AuthorizationService
}

// NewPayrollController creates a new PayrollController
func NewPayrollController(payrollService services.PayrollService, authz *appAuth.AuthorizationService) *PayrollController {
	return &PayrollController{
		payrollService: payrollService,
		authz:          authz,
	}
}

// RequestAdvance handles POST /payroll/advance
func (c *PayrollController) RequestAdvance(ctx *gin.Context) {
	var req dto.RequestAdvanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.payrollService.RequestAdvance(ctx.Request.Context(), req.TeacherID, req.Month, req.Amount)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, record)
}

// DecideAdvance handles POST /payroll/advance/decision
func (c *PayrollController) DecideAdvance(ctx *gin.Context) {
	var req dto.DecideAdvanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.payrollService.DecideAdvance(ctx.Request.Context(), req.TeacherID, req.Decision)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, record)
}

// MarkSalaryStatus handles POST /payroll/salary
func (c *PayrollController) MarkSalaryStatus(ctx *gin.Context) {
	var req dto.MarkSalaryStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	record, err := c.payrollService.MarkSalaryStatus(ctx.Request.Context(), req.TeacherID, req.Month, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, record)
}

// RecordsByTeacher handles GET /payroll/teachers/:id with optional month and status filters
func (c *PayrollController) RecordsByTeacher(ctx *gin.Context) {
	teacherID, valid := pathID(ctx, "id")
	if !valid || !authorize(ctx, c.authz.ValidateTeacherRecordAccess, teacherID) {
		return
	}
	month := ctx.Query("month")
	status := models.SalaryStatus(ctx.Query("status"))

	rows, err := c.payrollService.RecordsByTeacher(ctx.Request.Context(), teacherID, month, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, rows)
}

// PaymentRecords handles GET /payroll/records?month=2026-03 with optional
// status and advanceStatus filters
func (c *PayrollController) PaymentRecords(ctx *gin.Context) {
	month, valid := requiredQuery(ctx, "month")
	if !valid {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.payrollService.ListPaymentRecords(ctx.Request.Context(), models.PaymentRecordFilter{
		Month:         month,
		Status:        models.SalaryStatus(ctx.Query("status")),
		AdvanceStatus: models.AdvanceStatus(ctx.Query("advanceStatus")),
	}, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, resp)
}

// TeachersPaidWithAdvance handles GET /payroll/paid-with-advance?month=2026-03
func (c *PayrollController) TeachersPaidWithAdvance(ctx *gin.Context) {
	month, valid := requiredQuery(ctx, "month")
	if !valid {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.payrollService.TeachersPaidWithAdvance(ctx.Request.Context(), month, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, resp)
}
