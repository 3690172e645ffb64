package models

import (
	"time"

	"github.com/google/uuid"
)

// Biological sex values carried on a user profile. An empty string means
// the field was never supplied.
const (
	SexMale        = "male"
	SexFemale      = "female"
	SexOther       = "other"
	SexUnspecified = "unspecified"
)

// Observation categories.
const (
	CategoryLab       = "lab"
	CategoryVital     = "vital"
	CategoryActivity  = "activity"
	CategorySleep     = "sleep"
	CategoryNutrition = "nutrition"
	CategorySurvey    = "survey"
	CategoryScreening = "screening"
)

var categorySet = map[string]struct{}{
	CategoryLab:       {},
	CategoryVital:     {},
	CategoryActivity:  {},
	CategorySleep:     {},
	CategoryNutrition: {},
	CategorySurvey:    {},
	CategoryScreening: {},
}

func ValidCategory(category string) bool {
	_, ok := categorySet[category]
	return ok
}

// Risk signal severities.
const (
	SeverityInfo     = "info"
	SeverityWatch    = "watch"
	SeverityElevated = "elevated"
)

// Trend classifications.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Recommendation priorities.
const (
	PriorityRoutine  = "routine"
	PriorityElevated = "elevated"
)

// EducationalDisclaimer must accompany every externally surfaced response
// that carries recommendations or risk signals. The evaluator itself never
// embeds it; the HTTP layer attaches it.
const EducationalDisclaimer = "This information is educational and based on published preventive-care guidelines. It is not a diagnosis, treatment, or substitute for professional medical advice."

type UserProfile struct {
	ID            uuid.UUID  `json:"id"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	BiologicalSex string     `json:"biological_sex,omitempty"` // male, female, other, unspecified
}

// AgeAt returns the profile's age in whole years at the given instant.
// Both dates are reduced to UTC calendar days so the result is stable for
// a fixed (dateOfBirth, now) pair regardless of the zone they arrived in.
func (p UserProfile) AgeAt(now time.Time) (int, bool) {
	if p.DateOfBirth == nil {
		return 0, false
	}
	dob := p.DateOfBirth.UTC()
	at := now.UTC()
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age, true
}

// Observation is a single measured fact. Observations are immutable once
// recorded; a correction is a new observation.
type Observation struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	Code        string    `json:"code"`
	DisplayName string    `json:"display_name,omitempty"`
	Value       float64   `json:"value"`
	Unit        string    `json:"unit,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type Applicability struct {
	AgeMin *int     `yaml:"age_min" json:"age_min,omitempty"`
	AgeMax *int     `yaml:"age_max" json:"age_max,omitempty"`
	Sex    []string `yaml:"sex" json:"sex,omitempty"`
}

type Trigger struct {
	Category string `yaml:"category" json:"category"`
	Code     string `yaml:"code" json:"code,omitempty"`
}

type ReferenceRange struct {
	Min   *float64 `yaml:"min" json:"min,omitempty"`
	Max   *float64 `yaml:"max" json:"max,omitempty"`
	Unit  string   `yaml:"unit" json:"unit,omitempty"`
	Label string   `yaml:"label" json:"label,omitempty"`
}

// GuidelineRule is a versioned, externally authored record. Rules are
// read-only inputs; they may be added or removed between runs without any
// change to evaluator logic.
type GuidelineRule struct {
	ID                 string          `yaml:"id" json:"id"`
	Source             string          `yaml:"source" json:"source"`
	AppliesTo          *Applicability  `yaml:"applies_to" json:"applies_to,omitempty"`
	Trigger            Trigger         `yaml:"trigger" json:"trigger"`
	RecommendationText string          `yaml:"recommendation_text" json:"recommendation_text"`
	ReferenceRange     *ReferenceRange `yaml:"reference_range" json:"reference_range,omitempty"`
	CitationURL        string          `yaml:"citation_url" json:"citation_url,omitempty"`
}

type Recommendation struct {
	Text            string   `json:"text"`
	Category        string   `json:"category"`
	GuidelineSource string   `json:"guideline_source"`
	GuidelineID     string   `json:"guideline_id"`
	Citations       []string `json:"citations,omitempty"`
	Priority        string   `json:"priority"`
}

type RiskSignal struct {
	Factor            string   `json:"factor"`
	DisplayName       string   `json:"display_name,omitempty"`
	CurrentValue      float64  `json:"current_value"`
	Unit              string   `json:"unit,omitempty"`
	ReferenceRangeMin *float64 `json:"reference_range_min,omitempty"`
	ReferenceRangeMax *float64 `json:"reference_range_max,omitempty"`
	ReferenceLabel    string   `json:"reference_label,omitempty"`
	GuidelineSource   string   `json:"guideline_source"`
	GuidelineID       string   `json:"guideline_id"`
	Severity          string   `json:"severity"`
}

// EvaluationResult is the structured output of a single evaluation run.
// It fully supersedes any previously persisted set for the same user.
type EvaluationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	RiskSignals     []RiskSignal     `json:"risk_signals"`
	Questions       []string         `json:"questions"`
	Summary         []string         `json:"summary"`
	RulesEvaluated  int              `json:"rules_evaluated"`
	SkippedRules    []string         `json:"skipped_rules,omitempty"`
	EvaluatedAt     time.Time        `json:"evaluated_at"`
}

// TrendResult is ephemeral: computed per category per window, never stored.
type TrendResult struct {
	Trend         string  `json:"trend"`
	Slope         float64 `json:"slope"`
	MovingAverage float64 `json:"moving_average"`
	Anomaly       bool    `json:"anomaly"`
}

type TimelineResult struct {
	Window    string                 `json:"window,omitempty"`
	Trends    map[string]TrendResult `json:"per_category_trend"`
	Summaries map[string]string      `json:"per_category_summary"`
}

// Event bus envelope.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
