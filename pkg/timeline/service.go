package timeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prevalet-health/platform/pkg/common/logger"
	"github.com/prevalet-health/platform/pkg/common/models"
	"github.com/prevalet-health/platform/pkg/records"
	"github.com/redis/go-redis/v9"
)

// DefaultWindow is used when a request names no reporting window.
const DefaultWindow = "30d"

var windowDurations = map[string]time.Duration{
	"7d":   7 * 24 * time.Hour,
	"30d":  30 * 24 * time.Hour,
	"90d":  90 * 24 * time.Hour,
	"365d": 365 * 24 * time.Hour,
}

type Service struct {
	users    *records.Repository
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewService(users *records.Repository, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{users: users, cache: cache, cacheTTL: cacheTTL}
}

func cacheKey(userID uuid.UUID, window string) string {
	return fmt.Sprintf("timeline:%s:%s", userID, window)
}

// Timeline computes the per-category trend view for a user over a named
// window, serving from cache when possible.
func (s *Service) Timeline(ctx context.Context, userID uuid.UUID, window string) (*models.TimelineResult, error) {
	if window == "" {
		window = DefaultWindow
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey(userID, window)).Result()
		if err == nil {
			var cached models.TimelineResult
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	return s.compute(ctx, userID, window)
}

func (s *Service) compute(ctx context.Context, userID uuid.UUID, window string) (*models.TimelineResult, error) {
	if _, err := s.users.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	var since *time.Time
	if duration, ok := windowDurations[window]; ok {
		cutoff := time.Now().UTC().Add(-duration)
		since = &cutoff
	}

	observations, err := s.users.ListObservations(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("loading observations: %w", err)
	}

	result := Aggregate(observations, window)
	s.cacheResult(ctx, userID, window, result)
	return &result, nil
}

// HandleEvaluationEvent warms the default-window timeline whenever an
// evaluation completes for a user.
func (s *Service) HandleEvaluationEvent(ctx context.Context, event models.Event) error {
	raw, ok := event.Data["user_id"].(string)
	if !ok {
		logger.Log.WithField("event_id", event.ID).Warn("evaluation event without user_id")
		return nil
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", event.ID).Warn("evaluation event with invalid user_id")
		return nil
	}

	if _, err := s.compute(ctx, userID, DefaultWindow); err != nil {
		return fmt.Errorf("warming timeline for %s: %w", userID, err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID,
		"window":  DefaultWindow,
	}).Debug("timeline cache warmed")
	return nil
}

func (s *Service) cacheResult(ctx context.Context, userID uuid.UUID, window string, result models.TimelineResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(userID, window), data, s.cacheTTL).Err(); err != nil {
		logger.Log.WithError(err).Debug("failed to cache timeline")
	}
}
