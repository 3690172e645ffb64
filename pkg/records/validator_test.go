package records

import (
	"math"
	"testing"
	"time"

	"github.com/prevalet-health/platform/pkg/common/models"
)

func validInput() ObservationInput {
	return ObservationInput{
		Category:  "lab",
		Code:      "glucose",
		Value:     95,
		Unit:      "mg/dL",
		Timestamp: time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidatorAcceptsWellFormedObservation(t *testing.T) {
	v := NewValidator([]string{"lab", "vital", "activity"})
	if err := v.Validate(validInput()); err != nil {
		t.Fatalf("expected valid observation, got %v", err)
	}
}

func TestValidatorRejectsUnknownCategory(t *testing.T) {
	v := NewValidator([]string{"lab", "vital"})

	input := validInput()
	input.Category = "imaging"
	err := v.Validate(input)
	if err == nil {
		t.Fatal("expected category rejection")
	}
	if !IsValidationError(err) {
		t.Fatalf("expected a validation error, got %T", err)
	}
}

func TestValidatorRejectsMissingCode(t *testing.T) {
	v := NewValidator([]string{"lab"})

	input := validInput()
	input.Code = "  "
	if err := v.Validate(input); err == nil {
		t.Fatal("expected missing-code rejection")
	}
}

func TestValidatorRejectsNonFiniteValues(t *testing.T) {
	v := NewValidator([]string{"lab"})

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		input := validInput()
		input.Value = bad
		if err := v.Validate(input); err == nil {
			t.Fatalf("expected rejection of value %f", bad)
		}
	}
}

func TestNormalizedCanonicalizesCategoryAndCode(t *testing.T) {
	input := validInput()
	input.Category = " Lab "
	input.Code = " Glucose "

	norm := input.Normalized()
	if norm.Category != "lab" {
		t.Fatalf("expected canonical category 'lab', got %q", norm.Category)
	}
	if norm.Code != "glucose" {
		t.Fatalf("expected canonical code 'glucose', got %q", norm.Code)
	}
	// The canonical form is what rule triggers compare against.
	if !models.ValidCategory(norm.Category) {
		t.Fatalf("normalized category %q not recognized", norm.Category)
	}
	if norm.Value != input.Value || !norm.Timestamp.Equal(input.Timestamp) {
		t.Fatal("normalization must not touch value or timestamp")
	}
}

func TestValidatorRejectsZeroTimestamp(t *testing.T) {
	v := NewValidator([]string{"lab"})

	input := validInput()
	input.Timestamp = time.Time{}
	if err := v.Validate(input); err == nil {
		t.Fatal("expected missing-timestamp rejection")
	}
}
