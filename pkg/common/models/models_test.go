package models

import (
	"testing"
	"time"
)

func TestAgeAtIsStableAcrossZones(t *testing.T) {
	dob := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	profile := UserProfile{DateOfBirth: &dob}

	utcNow := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	age, known := profile.AgeAt(utcNow)
	if !known {
		t.Fatal("expected a known age")
	}
	if age != 40 {
		t.Fatalf("expected age 40, got %d", age)
	}

	// Same instant expressed in a different zone must not change the age.
	tokyo := time.FixedZone("UTC+9", 9*3600)
	sameInstant := utcNow.In(tokyo)
	shifted, _ := profile.AgeAt(sameInstant)
	if shifted != age {
		t.Fatalf("age drifted across zones: %d vs %d", age, shifted)
	}
}

func TestAgeAtBeforeBirthday(t *testing.T) {
	dob := time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC)
	profile := UserProfile{DateOfBirth: &dob}

	before, _ := profile.AgeAt(time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC))
	if before != 40 {
		t.Fatalf("expected 40 the day before the birthday, got %d", before)
	}
	on, _ := profile.AgeAt(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	if on != 41 {
		t.Fatalf("expected 41 on the birthday, got %d", on)
	}
}

func TestAgeAtUnknown(t *testing.T) {
	if _, known := (UserProfile{}).AgeAt(time.Now()); known {
		t.Fatal("expected unknown age without a date of birth")
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range []string{CategoryLab, CategoryVital, CategoryActivity, CategorySleep, CategoryNutrition, CategorySurvey, CategoryScreening} {
		if !ValidCategory(c) {
			t.Fatalf("expected %s to be valid", c)
		}
	}
	if ValidCategory("imaging") {
		t.Fatal("expected imaging to be invalid")
	}
}
