package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/schoolcore/internal/app/auth"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/middleware"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/auth"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// Controllers holds all the controller instances
type Controllers struct {
	Class   *ClassController
	Student *StudentController
	Teacher *TeacherController
	Subject *SubjectController
	Fee     *FeeController
	Payroll *PayrollController
	Report  *ReportController
	Record  *RecordController
	Notice  *NoticeController
}

// pathID reads a positive id path parameter, answering 400 when it is malformed
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := helpers.ParseIDParam(ctx, name)
	if err != nil {
		badRequest(ctx, "Invalid path parameter", err.Error())
		return 0, false
	}
	return id, true
}

// queryID reads a required positive id query parameter
func queryID(ctx *gin.Context, name string) (int64, bool) {
	raw := ctx.Query(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(ctx, "Invalid query parameter", fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

// requiredQuery reads a non-empty query parameter
func requiredQuery(ctx *gin.Context, name string) (string, bool) {
	v := ctx.Query(name)
	if v == "" {
		badRequest(ctx, "Missing query parameter", fmt.Sprintf("%s is required", name))
		return "", false
	}
	return v, true
}

type accessCheck func(ctx context.Context, p auth.Principal, ownerID int64) error

// caller reads the authenticated principal, answering 403 when it is absent
func caller(ctx *gin.Context) (auth.Principal, bool) {
	principal, exists := middleware.PrincipalFrom(ctx)
	if !exists {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
	}
	return principal, exists
}

// authorize runs check for the caller against ownerID and answers the error itself
func authorize(ctx *gin.Context, check accessCheck, ownerID int64) bool {
	principal, exists := caller(ctx)
	if !exists {
		return false
	}
	if err := check(ctx.Request.Context(), principal, ownerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return false
	}
	return true
}

func badRequest(ctx *gin.Context, message, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithDetails(details)
	ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

func ok(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func created(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(data, message))
}

// NewControllers builds every controller from the service container
func NewControllers(svc *services.Services, authz *appAuth.AuthorizationService) *Controllers {
	return &Controllers{
		Class:   NewClassController(svc.Class),
		Student: NewStudentController(svc.Student),
		Teacher: NewTeacherController(svc.Teacher),
		Subject: NewSubjectController(svc.Subject),
		Fee:     NewFeeController(svc.FeeLedger, authz),
		Payroll: NewPayrollController(svc.Payroll, authz),
		Report:  NewReportController(svc.Aggregation),
		Record:  NewRecordController(svc.Exam, svc.Attendance, svc.Expense, authz),
		Notice:  NewNoticeController(svc.Announcement, svc.Event, svc.Complaint),
	}
}
