package records

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prevalet-health/platform/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("user profile not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&ProfileRecord{}, &ObservationRecord{})
}

func (r *Repository) UpsertProfile(ctx context.Context, rec *ProfileRecord) error {
	now := time.Now().UTC()
	rec.UpdatedAt = now

	var existing ProfileRecord
	result := r.db.WithContext(ctx).First(&existing, "id = ?", rec.ID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		rec.CreatedAt = now
		return r.db.WithContext(ctx).Create(rec).Error
	}
	if result.Error != nil {
		return result.Error
	}

	rec.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (models.UserProfile, error) {
	var rec ProfileRecord
	result := r.db.WithContext(ctx).First(&rec, "id = ?", userID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return models.UserProfile{}, ErrNotFound
	}
	if result.Error != nil {
		return models.UserProfile{}, result.Error
	}
	return rec.ToModel(), nil
}

func (r *Repository) CreateObservations(ctx context.Context, recs []ObservationRecord) error {
	if len(recs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range recs {
		if recs[i].ID == uuid.Nil {
			recs[i].ID = uuid.New()
		}
		recs[i].CreatedAt = now
	}
	return r.db.WithContext(ctx).Create(&recs).Error
}

// ListObservations returns the user's observations ordered by timestamp
// ascending, then insertion order for equal timestamps.
func (r *Repository) ListObservations(ctx context.Context, userID uuid.UUID, since *time.Time) ([]models.Observation, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp asc").
		Order("created_at asc")
	if since != nil {
		query = query.Where("timestamp >= ?", *since)
	}

	var recs []ObservationRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}

	observations := make([]models.Observation, 0, len(recs))
	for _, rec := range recs {
		observations = append(observations, rec.ToModel())
	}
	return observations, nil
}
