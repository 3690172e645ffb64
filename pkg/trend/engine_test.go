package trend

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/prevalet-health/platform/pkg/common/models"
)

func makeSeries(values ...float64) []Point {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]Point, len(values))
	for i, v := range values {
		series[i] = Point{Value: v, Timestamp: base.AddDate(0, 0, i)}
	}
	return series
}

func TestDetectNeedsTwoPoints(t *testing.T) {
	if Detect(nil) != nil {
		t.Fatal("expected nil for empty series")
	}
	if Detect(makeSeries(42)) != nil {
		t.Fatal("expected nil for single point")
	}
}

func TestDetectIncreasingSeries(t *testing.T) {
	result := Detect(makeSeries(1, 2, 3, 4, 5))
	if result == nil {
		t.Fatal("expected a trend result")
	}
	if result.Trend != models.TrendImproving {
		t.Fatalf("expected improving, got %s", result.Trend)
	}
	if result.Slope <= 0 {
		t.Fatalf("expected positive slope, got %f", result.Slope)
	}
}

func TestDetectDecreasingSeries(t *testing.T) {
	result := Detect(makeSeries(5, 4, 3, 2, 1))
	if result == nil {
		t.Fatal("expected a trend result")
	}
	if result.Trend != models.TrendDeclining {
		t.Fatalf("expected declining, got %s", result.Trend)
	}
	if result.Slope >= 0 {
		t.Fatalf("expected negative slope, got %f", result.Slope)
	}
}

func TestDetectConstantSeries(t *testing.T) {
	result := Detect(makeSeries(3, 3, 3, 3))
	if result == nil {
		t.Fatal("expected a trend result")
	}
	if result.Trend != models.TrendStable {
		t.Fatalf("expected stable, got %s", result.Trend)
	}
	if result.Anomaly {
		t.Fatal("constant series must not flag an anomaly")
	}
}

func TestDetectZeroMeanUsesAbsoluteThreshold(t *testing.T) {
	result := Detect(makeSeries(-0.01, 0.01, -0.01, 0.01))
	if result == nil {
		t.Fatal("expected a trend result")
	}
	if result.Trend != models.TrendStable {
		t.Fatalf("expected stable around zero mean, got %s", result.Trend)
	}
}

func TestDetectAnomaly(t *testing.T) {
	result := Detect(makeSeries(10, 10, 10, 10, 10, 100))
	if result == nil {
		t.Fatal("expected a trend result")
	}
	if !result.Anomaly {
		t.Fatal("expected anomaly for an outlier latest value")
	}
}

func TestDetectSortsByTimestamp(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := []Point{
		{Value: 5, Timestamp: base.AddDate(0, 0, 4)},
		{Value: 1, Timestamp: base},
		{Value: 3, Timestamp: base.AddDate(0, 0, 2)},
		{Value: 2, Timestamp: base.AddDate(0, 0, 1)},
		{Value: 4, Timestamp: base.AddDate(0, 0, 3)},
	}
	result := Detect(series)
	if result == nil {
		t.Fatal("expected a trend result")
	}
	if result.Trend != models.TrendImproving {
		t.Fatalf("expected improving after sorting, got %s", result.Trend)
	}
	if math.Abs(result.Slope-1) > 1e-9 {
		t.Fatalf("expected slope 1, got %f", result.Slope)
	}
}

func TestMovingAverageUsesLastSevenPoints(t *testing.T) {
	// 10 points: the first three should not influence the moving average.
	result := Detect(makeSeries(100, 100, 100, 7, 7, 7, 7, 7, 7, 7))
	if result == nil {
		t.Fatal("expected a trend result")
	}
	if math.Abs(result.MovingAverage-7) > 1e-9 {
		t.Fatalf("expected moving average 7, got %f", result.MovingAverage)
	}
}

func TestSummarize(t *testing.T) {
	sentence := Summarize(models.TrendResult{Trend: models.TrendDeclining}, "resting_heart_rate", "30d")
	if !strings.HasPrefix(sentence, "Resting heart rate") {
		t.Fatalf("expected mechanical label, got %q", sentence)
	}
	if !strings.Contains(sentence, "the last 30 days") {
		t.Fatalf("expected window phrase, got %q", sentence)
	}

	anomalous := Summarize(models.TrendResult{Trend: models.TrendStable, Anomaly: true}, "glucose", "")
	if !strings.Contains(anomalous, "unusual") {
		t.Fatalf("expected anomaly clause, got %q", anomalous)
	}
}

func TestHigherIsBetter(t *testing.T) {
	if !HigherIsBetter("daily_steps") {
		t.Fatal("steps should count as higher-is-better")
	}
	if !HigherIsBetter("sleep_duration") {
		t.Fatal("sleep should count as higher-is-better")
	}
	if HigherIsBetter("resting_heart_rate") {
		t.Fatal("heart rate should not count as higher-is-better")
	}
	// The category vocabulary must resolve the same way as metric codes.
	if !HigherIsBetter(models.CategoryActivity) {
		t.Fatal("the activity category should count as higher-is-better")
	}
	if !HigherIsBetter("active_minutes") {
		t.Fatal("active minutes should count as higher-is-better")
	}
	if HigherIsBetter(models.CategoryLab) {
		t.Fatal("the lab category should not count as higher-is-better")
	}
}
