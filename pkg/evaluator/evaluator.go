package evaluator

import (
	"fmt"
	"strings"
	"time"

	"github.com/prevalet-health/platform/pkg/common/models"
	"github.com/prevalet-health/platform/pkg/safety"
)

// maxQuestions caps the missing-data questions on a single result.
const maxQuestions = 5

// Evaluate matches a profile and observation snapshot against a rule set and
// produces recommendations, risk signals, clarifying questions and a short
// summary. It is pure given its inputs: the same (profile, observations,
// rules, now) always yields the same result. Missing demographics and data
// gaps are reported as questions, never errors; a rule with an unrecognized
// trigger category is skipped and recorded for the caller to log.
func Evaluate(profile models.UserProfile, observations []models.Observation, rules []models.GuidelineRule, filter *safety.Filter, now time.Time) models.EvaluationResult {
	age, ageKnown := profile.AgeAt(now)
	sex := strings.ToLower(strings.TrimSpace(profile.BiologicalSex))
	sexKnown := sex != "" && sex != models.SexUnspecified

	var questions []string
	seen := make(map[string]struct{})
	addQuestion := func(q string) {
		if len(questions) >= maxQuestions {
			return
		}
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		questions = append(questions, q)
	}

	if !ageKnown {
		addQuestion("What is your date of birth? Several guidelines apply only to specific age ranges.")
	}
	if !sexKnown {
		addQuestion("What is your biological sex? Some screening guidelines apply only to specific sexes.")
	}
	if len(observations) == 0 {
		addQuestion("No measurements are on file yet. Would you like to add recent lab results or device data?")
	}

	var (
		recommendations []models.Recommendation
		riskSignals     []models.RiskSignal
		skipped         []string
	)

	for _, rule := range rules {
		if !models.ValidCategory(rule.Trigger.Category) {
			skipped = append(skipped, rule.ID)
			continue
		}

		if !eligible(rule, age, ageKnown, sex, sexKnown) {
			continue
		}

		latest, found := latestRelevant(observations, rule.Trigger)

		violated := false
		if found && rule.ReferenceRange != nil {
			if outOfRange(latest.Value, rule.ReferenceRange) {
				violated = true
				riskSignals = append(riskSignals, models.RiskSignal{
					Factor:            factorFor(rule, latest),
					DisplayName:       latest.DisplayName,
					CurrentValue:      latest.Value,
					Unit:              latest.Unit,
					ReferenceRangeMin: rule.ReferenceRange.Min,
					ReferenceRangeMax: rule.ReferenceRange.Max,
					ReferenceLabel:    rule.ReferenceRange.Label,
					GuidelineSource:   rule.Source,
					GuidelineID:       rule.ID,
					Severity:          models.SeverityWatch,
				})
			}
		}

		// Eligibility, not data availability, gates a recommendation.
		priority := models.PriorityRoutine
		if violated {
			priority = models.PriorityElevated
		}
		var citations []string
		if rule.CitationURL != "" {
			citations = []string{rule.CitationURL}
		}
		recommendations = append(recommendations, models.Recommendation{
			Text:            filter.Sanitize(rule.RecommendationText),
			Category:        rule.Trigger.Category,
			GuidelineSource: rule.Source,
			GuidelineID:     rule.ID,
			Citations:       citations,
			Priority:        priority,
		})

		if !found && rule.Trigger.Code != "" {
			addQuestion(fmt.Sprintf("Do you have a recent %s measurement on file? It is referenced by a guideline that applies to you.",
				strings.NewReplacer("_", " ", "-", " ").Replace(rule.Trigger.Code)))
		}
	}

	evaluated := len(rules) - len(skipped)

	return models.EvaluationResult{
		Recommendations: recommendations,
		RiskSignals:     riskSignals,
		Questions:       questions,
		Summary:         buildSummary(evaluated, len(recommendations), len(riskSignals)),
		RulesEvaluated:  evaluated,
		SkippedRules:    skipped,
		EvaluatedAt:     now,
	}
}

// eligible applies the age and sex filters. Unknown age or sex never
// excludes a rule; the gap is reported as a missing-data question instead.
func eligible(rule models.GuidelineRule, age int, ageKnown bool, sex string, sexKnown bool) bool {
	if rule.AppliesTo == nil {
		return true
	}
	if ageKnown {
		if rule.AppliesTo.AgeMin != nil && age < *rule.AppliesTo.AgeMin {
			return false
		}
		if rule.AppliesTo.AgeMax != nil && age > *rule.AppliesTo.AgeMax {
			return false
		}
	}
	if sexKnown && len(rule.AppliesTo.Sex) > 0 {
		member := false
		for _, allowed := range rule.AppliesTo.Sex {
			if strings.EqualFold(allowed, sex) {
				member = true
				break
			}
		}
		if !member {
			return false
		}
	}
	return true
}

// latestRelevant returns the most recent observation matching the trigger.
// Most recent means highest timestamp; among equal timestamps the first one
// in snapshot order wins, so a fixed snapshot always yields the same pick.
func latestRelevant(observations []models.Observation, trigger models.Trigger) (models.Observation, bool) {
	var best models.Observation
	found := false
	for _, obs := range observations {
		if obs.Category != trigger.Category {
			continue
		}
		if trigger.Code != "" && obs.Code != trigger.Code {
			continue
		}
		if !found || obs.Timestamp.After(best.Timestamp) {
			best = obs
			found = true
		}
	}
	return best, found
}

// outOfRange treats inclusive bounds as compliant; only values strictly
// outside [min, max] violate.
func outOfRange(value float64, rr *models.ReferenceRange) bool {
	if rr.Min != nil && value < *rr.Min {
		return true
	}
	if rr.Max != nil && value > *rr.Max {
		return true
	}
	return false
}

func factorFor(rule models.GuidelineRule, obs models.Observation) string {
	if rule.Trigger.Code != "" {
		return rule.Trigger.Code
	}
	return obs.Code
}

func buildSummary(evaluated, recommended, flagged int) []string {
	summary := []string{
		fmt.Sprintf("Evaluated %d guideline rules.", evaluated),
		fmt.Sprintf("Produced %d recommendations.", recommended),
	}
	switch flagged {
	case 0:
		summary = append(summary, "No out-of-range values were found in your recent data.")
	case 1:
		summary = append(summary, "1 value was outside its typical reference range and is flagged for discussion.")
	default:
		summary = append(summary, fmt.Sprintf("%d values were outside their typical reference ranges and are flagged for discussion.", flagged))
	}
	return summary
}
