package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/pkg/validation"
)

// RegisterBindingRules adds the custom tags to gin's validator
func RegisterBindingRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return validation.RegisterRules(v)
}

// BindJSON binds and validates the request body into obj. On failure it
// answers 400 with one entry per invalid field and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleBindError(c, err)
		return false
	}
	return true
}

// HandleBindError answers a binding failure
func HandleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(err.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fields := dto.NewValidationErrors()
	for _, e := range verrs {
		fields.AddError(e.Field(), formatValidationError(e))
	}
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
		WithDetails(fields.Errors)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "email", "schoolemail":
		return e.Field() + " must be a valid email address"
	case "entityname":
		return e.Field() + " must be between 2 and 100 characters"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "month":
		return e.Field() + " must be a calendar month name"
	case "yearmonth":
		return e.Field() + " must be formatted YYYY-MM"
	case "datetime":
		return e.Field() + " must be a date formatted " + e.Param()
	case "url":
		return e.Field() + " must be a valid URL"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
