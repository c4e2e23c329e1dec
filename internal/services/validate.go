package services

import (
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lojf/enroll/internal/apperr"
	"github.com/lojf/enroll/internal/models"
)

const (
	// EligibilityThreshold is the minimum percentage a record needs to be stored.
	EligibilityThreshold = 60.0
	// MaxPhoneLen is the longest phone value the form accepts.
	MaxPhoneLen = 10
)

// User-facing messages.
const (
	MsgMissingField  = "Please fill in all fields."
	MsgInvalidNumber = "Invalid input for percentage."
	MsgInvalidPhone  = "Phone must contain only digits (at most 10)."
	MsgIneligible    = "Your percentage is less than 60. You are not eligible for this course."
	MsgWriteFailed   = "Could not save your enrollment. Please try again."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String())
	})
	// report form field names ("dob") rather than Go names ("DOB")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequired reports whether every field is non-empty.
// Whitespace counts as a value.
func ValidateRequired(fields []string) bool {
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}

// ValidatePhone reports whether proposed is an acceptable phone value:
// empty, or ASCII digits only and at most MaxPhoneLen long.
func ValidatePhone(proposed string) bool {
	if len(proposed) > MaxPhoneLen {
		return false
	}
	for i := 0; i < len(proposed); i++ {
		if proposed[i] < '0' || proposed[i] > '9' {
			return false
		}
	}
	return true
}

// ValidatePhoneChar is the keystroke filter: it accepts r if appending it to
// current still yields a valid phone value.
func ValidatePhoneChar(r rune, current string) bool {
	return ValidatePhone(current + string(r))
}

// ParsePercentage parses a decimal percentage. NaN and infinities are rejected.
func ParsePercentage(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if isHexLiteral(text) {
		return 0, apperr.FieldError("enroll.ParsePercentage", apperr.ErrInvalidNumber, models.FieldPercentage, MsgInvalidNumber)
	}
	p, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		e := apperr.FieldError("enroll.ParsePercentage", apperr.ErrInvalidNumber, models.FieldPercentage, MsgInvalidNumber)
		e.Err = err
		return 0, e
	}
	return p, nil
}

// isHexLiteral reports whether text uses Go's hex float syntax, which
// ParseFloat accepts but a decimal percentage must not.
func isHexLiteral(text string) bool {
	text = strings.TrimLeft(text, "+-")
	return len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

// IsEligible reports whether percentage meets EligibilityThreshold.
func IsEligible(percentage float64) bool {
	return percentage >= EligibilityThreshold
}

// CheckSubmission runs the submit-time field checks. Blank fields are
// reported before a malformed phone.
func CheckSubmission(sub models.Submission) error {
	if fields := sub.Fields(); !ValidateRequired(fields) {
		for i, v := range fields {
			if v == "" {
				return apperr.FieldError("enroll.Check", apperr.ErrMissingField, models.FieldOrder[i], MsgMissingField)
			}
		}
	}
	err := validate.Struct(sub)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap("enroll.Check", apperr.ErrMissingField, MsgMissingField, err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return apperr.FieldError("enroll.Check", apperr.ErrMissingField, fe.Field(), MsgMissingField)
		}
	}
	fe := verrs[0]
	return apperr.FieldError("enroll.Check", apperr.ErrInvalidPhone, fe.Field(), MsgInvalidPhone)
}
