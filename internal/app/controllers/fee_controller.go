package controllers

import (
	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/schoolcore/internal/app/auth"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/middleware"
)

// FeeController exposes the student fee ledger
type FeeController struct {
	feeService services.FeeLedgerService
	authz      *appAuth.AuthorizationService
}

// NewFeeController creates a new FeeController
func NewFeeController(feeService services.FeeLedgerService, authz *appAuth.AuthorizationService) *FeeController {
	return &FeeController{
		feeService: feeService,
		authz:      authz,
	}
}

// MarkPaymentStatus handles POST /fees/status
// The row for (student, month) is created on first use and updated afterwards.
func (c *FeeController) MarkPaymentStatus(ctx *gin.Context) {
	var req dto.MarkFeeStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	payment, err := c.feeService.MarkPaymentStatus(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewFeePaymentResponse(*payment))
}

// ImposeLateFine handles POST /fees/late-fine
func (c *FeeController) ImposeLateFine(ctx *gin.Context) {
	var req dto.ImposeLateFineRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	payment, err := c.feeService.ImposeLateFine(ctx.Request.Context(), req.StudentID, req.Month)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewFeePaymentResponse(*payment))
}

// FeeHistoryByStudent handles GET /fees/students/:id
func (c *FeeController) FeeHistoryByStudent(ctx *gin.Context) {
	studentID, valid := pathID(ctx, "id")
	if !valid || !authorize(ctx, c.authz.ValidateStudentRecordAccess, studentID) {
		return
	}

	rows, err := c.feeService.FeeHistoryByStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NewFeePaymentResponses(rows))
}

// FeeStatusByClass handles GET /fees/classes/:id?month=March
func (c *FeeController) FeeStatusByClass(ctx *gin.Context) {
	classID, valid := pathID(ctx, "id")
	if !valid {
		return
	}
	month, valid := requiredQuery(ctx, "month")
	if !valid {
		return
	}

	entries, err := c.feeService.FeeStatusByClass(ctx.Request.Context(), classID, month)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, entries)
}
