package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/middleware"
)

// ReportController serves read-only aggregates
type ReportController struct {
	aggregationService services.AggregationService
}

// NewReportController creates a new ReportController
func NewReportController(aggregationService services.AggregationService) *ReportController {
	return &ReportController{
		aggregationService: aggregationService,
	}
}

// Leaderboard handles GET /reports/leaderboard?classId=&examId=
func (c *ReportController) Leaderboard(ctx *gin.Context) {
	classID, valid := queryID(ctx, "classId")
	if !valid {
		return
	}
	examID, valid := queryID(ctx, "examId")
	if !valid {
		return
	}

	entries, err := c.aggregationService.Leaderboard(ctx.Request.Context(), classID, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, entries)
}

// GenderRatio handles GET /reports/gender-ratio
func (c *ReportController) GenderRatio(ctx *gin.Context) {
	ratio, err := c.aggregationService.GenderRatio(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, ratio)
}

// FeeSummary handles GET /reports/fees?classId=&month=
func (c *ReportController) FeeSummary(ctx *gin.Context) {
	classID, valid := queryID(ctx, "classId")
	if !valid {
		return
	}
	month, valid := requiredQuery(ctx, "month")
	if !valid {
		return
	}

	summary, err := c.aggregationService.FeeSummary(ctx.Request.Context(), classID, month)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, summary)
}

// PayrollSummary handles GET /reports/payroll?month=
func (c *ReportController) PayrollSummary(ctx *gin.Context) {
	month, valid := requiredQuery(ctx, "month")
	if !valid {
		return
	}

	summary, err := c.aggregationService.PayrollSummary(ctx.Request.Context(), month)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, summary)
}
