package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// YearMonthLayout is the payroll ledger month key, e.g. "2023-10".
	YearMonthLayout = "2006-01"

	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

var monthNames = map[string]string{}

func init() {
	for m := time.January; m <= time.December; m++ {
		monthNames[strings.ToLower(m.String())] = m.String()
	}
}

// CanonicalMonth returns the title-cased English month name for a
// case-insensitive input ("march" -> "March").
func CanonicalMonth(month string) (string, bool) {
	canonical, ok := monthNames[strings.ToLower(strings.TrimSpace(month))]
	return canonical, ok
}

// IsYearMonth reports whether s is a "YYYY-MM" payroll month.
func IsYearMonth(s string) bool {
	if len(s) != len(YearMonthLayout) {
		return false
	}
	_, err := time.Parse(YearMonthLayout, s)
	return err == nil
}

// RegisterRules adds the custom binding tags used by request DTOs.
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		_, ok := CanonicalMonth(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		return IsYearMonth(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("entityname", func(fl validator.FieldLevel) bool {
		return IsValidName(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("schoolemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
}

// StringValidation checks a single string value
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Required && v.Value == "" {
		return false
	}
	if !v.Required && v.Value == "" {
		return true
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// IsValidName applies the shared name length rule.
func IsValidName(name string) bool {
	return NewStringValidation(name).
		WithMinLength(NameMinLength).
		WithMaxLength(NameMaxLength).
		Validate()
}

// IsValidEmail applies the shared email rule to a lower-cased address.
func IsValidEmail(email string) bool {
	return NewStringValidation(strings.ToLower(email)).
		WithPattern(CompiledPatterns.Email).
		Validate()
}
