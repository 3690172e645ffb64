package records

import (
	"time"

	"github.com/google/uuid"
	"github.com/prevalet-health/platform/pkg/common/models"
	"gorm.io/datatypes"
)

type ProfileRecord struct {
	ID            uuid.UUID  `json:"id" gorm:"primaryKey;column:id"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty" gorm:"column:date_of_birth"`
	BiologicalSex string     `json:"biological_sex,omitempty" gorm:"column:biological_sex"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (ProfileRecord) TableName() string {
	return "user_profiles"
}

func (r ProfileRecord) ToModel() models.UserProfile {
	return models.UserProfile{
		ID:            r.ID,
		DateOfBirth:   r.DateOfBirth,
		BiologicalSex: r.BiologicalSex,
	}
}

// ObservationRecord rows are immutable once written; a correction is a new
// row, never an update.
type ObservationRecord struct {
	ID          uuid.UUID         `json:"id" gorm:"primaryKey;column:id"`
	UserID      uuid.UUID         `json:"user_id" gorm:"column:user_id;index"`
	Category    string            `json:"category" gorm:"column:category;index"`
	Code        string            `json:"code" gorm:"column:code"`
	DisplayName string            `json:"display_name,omitempty" gorm:"column:display_name"`
	Value       float64           `json:"value" gorm:"column:value"`
	Unit        string            `json:"unit,omitempty" gorm:"column:unit"`
	Timestamp   time.Time         `json:"timestamp" gorm:"column:timestamp;index"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"column:metadata"`
	CreatedAt   time.Time         `json:"created_at" gorm:"column:created_at"`
}

func (ObservationRecord) TableName() string {
	return "observations"
}

func (r ObservationRecord) ToModel() models.Observation {
	return models.Observation{
		ID:          r.ID,
		Category:    r.Category,
		Code:        r.Code,
		DisplayName: r.DisplayName,
		Value:       r.Value,
		Unit:        r.Unit,
		Timestamp:   r.Timestamp,
	}
}
