package records

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	errInvalidCategory = errors.New("invalid category")
	errMissingCode     = errors.New("missing metric code")
	errInvalidValue    = errors.New("invalid value")
	errMissingTime     = errors.New("missing timestamp")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ObservationInput is one incoming measurement before it is persisted.
type ObservationInput struct {
	Category    string    `json:"category"`
	Code        string    `json:"code"`
	DisplayName string    `json:"display_name,omitempty"`
	Value       float64   `json:"value"`
	Unit        string    `json:"unit,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Normalized returns a copy with category and code trimmed and lowercased.
// This is the canonical form persisted and matched against rule triggers;
// storing the raw casing would let "Lab" slip past an exact compare later.
func (in ObservationInput) Normalized() ObservationInput {
	out := in
	out.Category = strings.TrimSpace(strings.ToLower(in.Category))
	out.Code = strings.TrimSpace(strings.ToLower(in.Code))
	return out
}

type Validator struct {
	allowedCategories map[string]struct{}
}

func NewValidator(categories []string) *Validator {
	allowed := make(map[string]struct{})
	for _, c := range categories {
		if trimmed := strings.TrimSpace(strings.ToLower(c)); trimmed != "" {
			allowed[trimmed] = struct{}{}
		}
	}
	return &Validator{allowedCategories: allowed}
}

func (v *Validator) Validate(input ObservationInput) error {
	if v == nil {
		return ValidationError{reason: errors.New("validator not initialised")}
	}

	category := strings.TrimSpace(strings.ToLower(input.Category))
	if category == "" {
		return ValidationError{reason: fmt.Errorf("category required: %w", errInvalidCategory)}
	}
	if len(v.allowedCategories) > 0 {
		if _, ok := v.allowedCategories[category]; !ok {
			return ValidationError{reason: fmt.Errorf("category '%s' not allowed: %w", category, errInvalidCategory)}
		}
	}

	if strings.TrimSpace(input.Code) == "" {
		return ValidationError{reason: errMissingCode}
	}

	if math.IsNaN(input.Value) || math.IsInf(input.Value, 0) {
		return ValidationError{reason: errInvalidValue}
	}

	if input.Timestamp.IsZero() {
		return ValidationError{reason: errMissingTime}
	}

	return nil
}
