package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prevalet-health/platform/pkg/common/kafka"
	"github.com/prevalet-health/platform/pkg/common/logger"
	"github.com/prevalet-health/platform/pkg/common/models"
	"github.com/prevalet-health/platform/pkg/guideline"
	"github.com/prevalet-health/platform/pkg/records"
	"github.com/prevalet-health/platform/pkg/safety"
	"github.com/redis/go-redis/v9"
)

type Service struct {
	users    *records.Repository
	repo     *Repository
	store    *guideline.Store
	filter   *safety.Filter
	cache    *redis.Client
	producer *kafka.Producer
	cacheTTL time.Duration
}

func NewService(users *records.Repository, repo *Repository, store *guideline.Store, filter *safety.Filter, cache *redis.Client, producer *kafka.Producer, cacheTTL time.Duration) *Service {
	return &Service{
		users:    users,
		repo:     repo,
		store:    store,
		filter:   filter,
		cache:    cache,
		producer: producer,
		cacheTTL: cacheTTL,
	}
}

func cacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("evaluation:latest:%s", userID)
}

// Run evaluates a user against the current rule snapshot, persists the
// result (fully replacing the prior set), caches it, and publishes a
// completion event. An unknown user is the one fatal precondition.
func (s *Service) Run(ctx context.Context, userID uuid.UUID, now time.Time) (*models.EvaluationResult, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	observations, err := s.users.ListObservations(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("loading observations: %w", err)
	}

	snapshot, err := s.store.Get()
	if err != nil {
		return nil, fmt.Errorf("loading guideline rules: %w", err)
	}

	result := Evaluate(profile, observations, snapshot.Rules, s.filter, now)

	if len(result.SkippedRules) > 0 {
		logger.Log.WithFields(map[string]interface{}{
			"user_id":       userID,
			"skipped_rules": result.SkippedRules,
		}).Warn("skipped guideline rules with malformed triggers")
	}

	if err := s.repo.ReplaceForUser(ctx, userID, result, snapshot.Version); err != nil {
		return nil, fmt.Errorf("persisting evaluation: %w", err)
	}

	s.cacheResult(ctx, userID, result)

	if s.producer != nil {
		publishErr := s.producer.PublishEvent(ctx, "evaluation.completed", "evaluation-service", map[string]interface{}{
			"user_id":         userID.String(),
			"ruleset_version": snapshot.Version,
			"recommendations": len(result.Recommendations),
			"risk_signals":    len(result.RiskSignals),
			"evaluated_at":    result.EvaluatedAt,
		})
		if publishErr != nil {
			logger.Log.WithError(publishErr).Warn("failed to publish evaluation event")
		}
	}

	return &result, nil
}

// Latest serves the most recent persisted result, preferring the cache.
func (s *Service) Latest(ctx context.Context, userID uuid.UUID) (*models.EvaluationResult, error) {
	if _, err := s.users.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey(userID)).Result()
		if err == nil {
			var cached models.EvaluationResult
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	return s.repo.LatestForUser(ctx, userID)
}

// ReloadRules swaps in a fresh rule snapshot and returns its version.
func (s *Service) ReloadRules() (string, int, error) {
	snapshot, err := s.store.Reload()
	if err != nil {
		return "", 0, err
	}
	logger.Log.WithFields(map[string]interface{}{
		"version": snapshot.Version,
		"rules":   len(snapshot.Rules),
	}).Info("guideline rules reloaded")
	return snapshot.Version, len(snapshot.Rules), nil
}

func (s *Service) cacheResult(ctx context.Context, userID uuid.UUID, result models.EvaluationResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(userID), data, s.cacheTTL).Err(); err != nil {
		logger.Log.WithError(err).Debug("failed to cache evaluation result")
	}
}
