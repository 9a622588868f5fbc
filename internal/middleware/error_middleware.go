package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/auth"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

// --- Central Error Handling ---

// HandleAPIError maps an error from the core onto a status code and the
// standard error envelope. Unknown errors are logged and answered with 500.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestId", c.GetString(RequestIDKey)).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	var ce *apperrors.CustomError
	message := func(fallback string) string {
		if errors.As(err, &ce) && ce.Message != "" {
			return ce.Message
		}
		return fallback
	}
	withDetails := func(d *dto.ErrorDetail) *dto.ErrorDetail {
		if errors.As(err, &ce) && len(ce.Details) > 0 {
			return d.WithDetails(ce.Details)
		}
		return d
	}

	switch {
	case errors.Is(err, apperrors.ErrZeroDenominator):
		return http.StatusUnprocessableEntity,
			withDetails(dto.NewErrorDetail(dto.ErrorCodeAggregateUndefined, message("Aggregate undefined")).WithSeverity(dto.ErrorSeverityWarning))
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound,
			withDetails(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Resource not found")))
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict,
			withDetails(dto.NewErrorDetail(dto.ErrorCodeConflict, message("Conflict")))
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest,
			withDetails(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message(err.Error())))
	case errors.Is(err, apperrors.ErrTokenExpired), errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
	default:
		return http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical)
	}
}
