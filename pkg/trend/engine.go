package trend

import (
	"math"
	"sort"
	"time"

	"github.com/prevalet-health/platform/pkg/common/models"
)

// Point is one sample of a metric series. Series do not need to arrive
// pre-sorted.
type Point struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Detect computes slope, moving average and an anomaly flag for a value
// series. It returns nil when fewer than two points are supplied.
//
// The regression uses the sample index as the independent variable, so
// irregular sampling intervals are not time-weighted. The trend label is a
// bare sign judgment; callers decide whether an increasing value is the
// favorable direction for a given metric.
func Detect(series []Point) *models.TrendResult {
	if len(series) < 2 {
		return nil
	}

	sorted := make([]Point, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	n := len(sorted)
	values := make([]float64, n)
	for i, p := range sorted {
		values[i] = p.Value
	}

	slope := leastSquaresSlope(values)
	mean := arithmeticMean(values)
	std := populationStdDev(values, mean)

	windowSize := 7
	if n < windowSize {
		windowSize = n
	}
	movingAverage := arithmeticMean(values[n-windowSize:])

	latest := values[n-1]
	anomaly := std > 0 && math.Abs(latest-mean) > 2*std

	threshold := 0.05 * math.Abs(mean)
	if mean == 0 {
		threshold = 0.05
	}

	label := models.TrendStable
	if math.Abs(slope) >= threshold {
		if slope > 0 {
			label = models.TrendImproving
		} else {
			label = models.TrendDeclining
		}
	}

	return &models.TrendResult{
		Trend:         label,
		Slope:         slope,
		MovingAverage: movingAverage,
		Anomaly:       anomaly,
	}
}

// leastSquaresSlope fits value against index 0..n-1.
func leastSquaresSlope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func arithmeticMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
