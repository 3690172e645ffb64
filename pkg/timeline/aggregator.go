package timeline

import (
	"github.com/prevalet-health/platform/pkg/common/models"
	"github.com/prevalet-health/platform/pkg/trend"
)

// Aggregate groups an observation snapshot by category, runs trend detection
// per group, and renders one summary sentence per detected trend. Categories
// with fewer than two observations are simply absent from the result.
func Aggregate(observations []models.Observation, window string) models.TimelineResult {
	groups := make(map[string][]trend.Point)
	for _, obs := range observations {
		groups[obs.Category] = append(groups[obs.Category], trend.Point{
			Value:     obs.Value,
			Timestamp: obs.Timestamp,
		})
	}

	result := models.TimelineResult{
		Window:    window,
		Trends:    make(map[string]models.TrendResult),
		Summaries: make(map[string]string),
	}

	for category, points := range groups {
		detected := trend.Detect(points)
		if detected == nil {
			continue
		}
		result.Trends[category] = *detected
		result.Summaries[category] = trend.Summarize(*detected, category, window)
	}

	return result
}
