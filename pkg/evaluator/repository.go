package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prevalet-health/platform/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNoEvaluation = errors.New("no evaluation on record")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&RecommendationRecord{}, &RiskSignalRecord{}, &RunRecord{})
}

// ReplaceForUser persists a run's outputs, fully superseding the user's
// prior recommendation and risk-signal sets in one transaction.
func (r *Repository) ReplaceForUser(ctx context.Context, userID uuid.UUID, result models.EvaluationResult, rulesetVersion string) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&RecommendationRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&RiskSignalRecord{}).Error; err != nil {
			return err
		}

		for _, rec := range result.Recommendations {
			var citations []byte
			if len(rec.Citations) > 0 {
				citations, err = json.Marshal(rec.Citations)
				if err != nil {
					return err
				}
			}
			row := RecommendationRecord{
				ID:              uuid.New(),
				UserID:          userID,
				GuidelineID:     rec.GuidelineID,
				GuidelineSource: rec.GuidelineSource,
				Category:        rec.Category,
				Text:            rec.Text,
				Priority:        rec.Priority,
				Citations:       citations,
				EvaluatedAt:     result.EvaluatedAt,
				CreatedAt:       now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for _, sig := range result.RiskSignals {
			reference := map[string]interface{}{}
			if sig.ReferenceRangeMin != nil {
				reference["min"] = *sig.ReferenceRangeMin
			}
			if sig.ReferenceRangeMax != nil {
				reference["max"] = *sig.ReferenceRangeMax
			}
			if sig.ReferenceLabel != "" {
				reference["label"] = sig.ReferenceLabel
			}
			row := RiskSignalRecord{
				ID:              uuid.New(),
				UserID:          userID,
				Factor:          sig.Factor,
				DisplayName:     sig.DisplayName,
				CurrentValue:    sig.CurrentValue,
				Unit:            sig.Unit,
				Reference:       reference,
				GuidelineID:     sig.GuidelineID,
				GuidelineSource: sig.GuidelineSource,
				Severity:        sig.Severity,
				EvaluatedAt:     result.EvaluatedAt,
				CreatedAt:       now,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		run := RunRecord{
			UserID:      userID,
			Result:      resultJSON,
			RulesetVer:  rulesetVersion,
			EvaluatedAt: result.EvaluatedAt,
			UpdatedAt:   now,
		}
		return tx.Save(&run).Error
	})
}

// LatestForUser reconstructs the most recent run's full result.
func (r *Repository) LatestForUser(ctx context.Context, userID uuid.UUID) (*models.EvaluationResult, error) {
	var run RunRecord
	result := r.db.WithContext(ctx).First(&run, "user_id = ?", userID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNoEvaluation
	}
	if result.Error != nil {
		return nil, result.Error
	}

	var out models.EvaluationResult
	if err := json.Unmarshal(run.Result, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
