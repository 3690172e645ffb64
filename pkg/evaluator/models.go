package evaluator

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Persisted output rows. Each evaluation run fully replaces the prior set
// for the user; there is no incremental merge.

type RecommendationRecord struct {
	ID              uuid.UUID      `json:"id" gorm:"primaryKey;column:id"`
	UserID          uuid.UUID      `json:"user_id" gorm:"column:user_id;index"`
	GuidelineID     string         `json:"guideline_id" gorm:"column:guideline_id"`
	GuidelineSource string         `json:"guideline_source" gorm:"column:guideline_source"`
	Category        string         `json:"category" gorm:"column:category"`
	Text            string         `json:"text" gorm:"column:text"`
	Priority        string         `json:"priority" gorm:"column:priority"`
	Citations       datatypes.JSON `json:"citations,omitempty" gorm:"column:citations"`
	EvaluatedAt     time.Time      `json:"evaluated_at" gorm:"column:evaluated_at"`
	CreatedAt       time.Time      `json:"created_at" gorm:"column:created_at"`
}

func (RecommendationRecord) TableName() string {
	return "recommendations"
}

type RiskSignalRecord struct {
	ID              uuid.UUID         `json:"id" gorm:"primaryKey;column:id"`
	UserID          uuid.UUID         `json:"user_id" gorm:"column:user_id;index"`
	Factor          string            `json:"factor" gorm:"column:factor"`
	DisplayName     string            `json:"display_name,omitempty" gorm:"column:display_name"`
	CurrentValue    float64           `json:"current_value" gorm:"column:current_value"`
	Unit            string            `json:"unit,omitempty" gorm:"column:unit"`
	Reference       datatypes.JSONMap `json:"reference,omitempty" gorm:"column:reference"`
	GuidelineID     string            `json:"guideline_id" gorm:"column:guideline_id"`
	GuidelineSource string            `json:"guideline_source" gorm:"column:guideline_source"`
	Severity        string            `json:"severity" gorm:"column:severity"`
	EvaluatedAt     time.Time         `json:"evaluated_at" gorm:"column:evaluated_at"`
	CreatedAt       time.Time         `json:"created_at" gorm:"column:created_at"`
}

func (RiskSignalRecord) TableName() string {
	return "risk_signals"
}

// RunRecord keeps the full structured result of the most recent run so the
// latest-evaluation endpoint can be served when the cache is cold.
type RunRecord struct {
	UserID      uuid.UUID      `json:"user_id" gorm:"primaryKey;column:user_id"`
	Result      datatypes.JSON `json:"result" gorm:"column:result"`
	RulesetVer  string         `json:"ruleset_version,omitempty" gorm:"column:ruleset_version"`
	EvaluatedAt time.Time      `json:"evaluated_at" gorm:"column:evaluated_at"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"column:updated_at"`
}

func (RunRecord) TableName() string {
	return "evaluation_runs"
}
