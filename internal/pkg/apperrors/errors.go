package apperrors

import "errors"

// Category sentinels. Every error returned by the core wraps exactly one of these.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternal         = errors.New("internal error")

	// ErrZeroDenominator is returned by aggregations whose divisor is zero.
	ErrZeroDenominator = errors.New("aggregate undefined: zero denominator")
)

// Authentication and authorization errors
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrPermissionDenied = errors.New("permission denied")
)

// Entity errors
var (
	ErrClassNotFound         = NewResourceNotFoundError("class not found")
	ErrStudentNotFound       = NewResourceNotFoundError("student not found")
	ErrTeacherNotFound       = NewResourceNotFoundError("teacher not found")
	ErrSubjectNotFound       = NewResourceNotFoundError("subject not found")
	ErrExamNotFound          = NewResourceNotFoundError("exam not found")
	ErrMarkNotFound          = NewResourceNotFoundError("marks not found")
	ErrAttendanceNotFound    = NewResourceNotFoundError("attendance not found")
	ErrExpenseNotFound       = NewResourceNotFoundError("expense not found")
	ErrAnnouncementNotFound  = NewResourceNotFoundError("announcement not found")
	ErrEventNotFound         = NewResourceNotFoundError("event not found")
	ErrComplaintNotFound     = NewResourceNotFoundError("complaint not found")
	ErrPendingAdvanceMissing = NewResourceNotFoundError("no pending advance request for teacher")
)

// Category reports which of the four taxonomy buckets err belongs to.
type Category string

const (
	CategoryNotFound   Category = "NOT_FOUND"
	CategoryConflict   Category = "CONFLICT"
	CategoryValidation Category = "VALIDATION"
	CategoryInternal   Category = "INTERNAL"
)

// CategoryOf classifies err. Unknown errors are internal.
func CategoryOf(err error) Category {
	switch {
	case errors.Is(err, ErrResourceNotFound):
		return CategoryNotFound
	case errors.Is(err, ErrConflict):
		return CategoryConflict
	case errors.Is(err, ErrValidationFailed), errors.Is(err, ErrZeroDenominator):
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) *CustomError {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a new custom error for malformed input
func NewValidationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, cause error) *CustomError {
	return &CustomError{
		Err:     ErrInternal,
		Message: message,
		Cause:   cause,
	}
}

// NewZeroDenominatorError reports an aggregate whose divisor was zero.
func NewZeroDenominatorError(message string) *CustomError {
	return &CustomError{
		Err:     ErrZeroDenominator,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Cause   error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes both the category sentinel and the underlying cause.
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// WithDetails returns a copy of the error carrying context details
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCode returns a copy of the error carrying an error code
func (e *CustomError) WithCode(code string) *CustomError {
	cp := *e
	cp.Code = code
	return &cp
}
