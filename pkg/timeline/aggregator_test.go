package timeline

import (
	"strings"
	"testing"
	"time"

	"github.com/prevalet-health/platform/pkg/common/models"
)

func obs(category string, day int, value float64) models.Observation {
	return models.Observation{
		Category:  category,
		Code:      category + "_metric",
		Value:     value,
		Timestamp: time.Date(2026, 1, 1+day, 0, 0, 0, 0, time.UTC),
	}
}

func TestAggregateGroupsByCategory(t *testing.T) {
	observations := []models.Observation{
		obs(models.CategoryActivity, 0, 4000),
		obs(models.CategoryActivity, 1, 5000),
		obs(models.CategoryActivity, 2, 6000),
		obs(models.CategorySleep, 0, 7.5),
		obs(models.CategorySleep, 1, 7.2),
	}

	result := Aggregate(observations, "30d")
	if len(result.Trends) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(result.Trends))
	}

	activity, ok := result.Trends[models.CategoryActivity]
	if !ok {
		t.Fatal("expected an activity trend")
	}
	if activity.Trend != models.TrendImproving {
		t.Fatalf("expected improving activity trend, got %s", activity.Trend)
	}

	summary, ok := result.Summaries[models.CategoryActivity]
	if !ok {
		t.Fatal("expected an activity summary")
	}
	if !strings.Contains(summary, "the last 30 days") {
		t.Fatalf("expected window phrase in summary, got %q", summary)
	}
}

func TestAggregateSkipsSparseCategories(t *testing.T) {
	observations := []models.Observation{
		obs(models.CategoryLab, 0, 95),
		obs(models.CategoryVital, 0, 118),
		obs(models.CategoryVital, 1, 121),
	}

	result := Aggregate(observations, "7d")
	if _, ok := result.Trends[models.CategoryLab]; ok {
		t.Fatal("expected single-observation category to be absent")
	}
	if _, ok := result.Trends[models.CategoryVital]; !ok {
		t.Fatal("expected two-observation category to be present")
	}
}

func TestAggregateEmptySnapshot(t *testing.T) {
	result := Aggregate(nil, "7d")
	if len(result.Trends) != 0 || len(result.Summaries) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestFavorableDirections(t *testing.T) {
	favorable := favorableDirections(map[string]models.TrendResult{
		models.CategoryActivity: {Trend: models.TrendImproving},
		models.CategorySleep:    {Trend: models.TrendDeclining},
		models.CategoryVital:    {Trend: models.TrendDeclining},
		models.CategoryLab:      {Trend: models.TrendStable},
	})

	// Rising step counts are good news.
	if !favorable[models.CategoryActivity] {
		t.Fatal("expected an improving activity trend to be favorable")
	}
	if favorable[models.CategorySleep] {
		t.Fatal("expected a declining sleep trend to be unfavorable")
	}
	if !favorable[models.CategoryVital] {
		t.Fatal("expected a declining vital trend to be favorable")
	}
	if !favorable[models.CategoryLab] {
		t.Fatal("expected a stable trend to be favorable")
	}
}

func TestAggregateHandlesUnsortedObservations(t *testing.T) {
	observations := []models.Observation{
		obs(models.CategoryVital, 4, 180),
		obs(models.CategoryVital, 0, 100),
		obs(models.CategoryVital, 2, 140),
		obs(models.CategoryVital, 1, 120),
		obs(models.CategoryVital, 3, 160),
	}

	result := Aggregate(observations, "")
	vital, ok := result.Trends[models.CategoryVital]
	if !ok {
		t.Fatal("expected a vital trend")
	}
	if vital.Trend != models.TrendImproving {
		t.Fatalf("expected improving trend after internal sort, got %s", vital.Trend)
	}
	if vital.Slope <= 0 {
		t.Fatalf("expected positive slope, got %f", vital.Slope)
	}
}
