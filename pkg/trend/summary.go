package trend

import (
	"fmt"
	"strings"

	"github.com/prevalet-health/platform/pkg/common/models"
)

// Named reporting windows accepted by the timeline API.
var windowPhrases = map[string]string{
	"7d":   "the last 7 days",
	"30d":  "the last 30 days",
	"90d":  "the last 90 days",
	"365d": "the last year",
}

func ValidWindow(window string) bool {
	_, ok := windowPhrases[window]
	return ok
}

// Summarize renders one natural-language sentence for a trend result, with
// a second clause when the latest reading is anomalous. Category labels are
// derived mechanically from the category code.
func Summarize(result models.TrendResult, category, window string) string {
	phrase, ok := windowPhrases[window]
	if !ok {
		phrase = "recently"
	}

	var direction string
	switch result.Trend {
	case models.TrendImproving:
		direction = "has been trending upward"
	case models.TrendDeclining:
		direction = "has been trending downward"
	default:
		direction = "has remained stable"
	}

	sentence := fmt.Sprintf("%s %s over %s.", Label(category), direction, phrase)
	if result.Anomaly {
		sentence += " The most recent reading is unusual compared with its recent history."
	}
	return sentence
}

// Label turns a metric or category code into a display label: separators
// become spaces, first letter capitalized. No per-metric special cases.
func Label(code string) string {
	label := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(code))
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

// HigherIsBetter reports whether an increasing value is the favorable
// direction for a metric or category code. The markers are stems so both
// vocabularies match ("activ" covers the activity category as well as codes
// like active_minutes); a per-metric polarity table would be the eventual
// replacement.
func HigherIsBetter(code string) bool {
	lower := strings.ToLower(code)
	for _, marker := range []string{"step", "sleep", "activ", "exercise"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
