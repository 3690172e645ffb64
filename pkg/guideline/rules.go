package guideline

import (
	"errors"
	"io/ioutil"
	"path/filepath"

	"github.com/prevalet-health/platform/pkg/common/models"
	"gopkg.in/yaml.v3"
)

// Ruleset is one versioned, externally authored collection of guideline
// rules. Rules may be added or removed between loads without any evaluator
// change.
type Ruleset struct {
	Version string                 `yaml:"version" json:"version"`
	Rules   []models.GuidelineRule `yaml:"rules" json:"rules"`
}

func LoadRules(path string) (Ruleset, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	content, err := ioutil.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultRules(), err
	}

	var rs Ruleset
	if err := yaml.Unmarshal(content, &rs); err != nil {
		return Ruleset{}, err
	}

	if len(rs.Rules) == 0 {
		return Ruleset{}, errors.New("no guideline rules configured")
	}

	return rs, nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

// DefaultRules is the built-in preventive-care rule set used when no rules
// file is configured.
func DefaultRules() Ruleset {
	return Ruleset{
		Version: "2026.1",
		Rules: []models.GuidelineRule{
			{
				ID:     "uspstf-glucose-screening",
				Source: "USPSTF Prediabetes and Type 2 Diabetes Screening (2021)",
				AppliesTo: &models.Applicability{
					AgeMin: intPtr(35),
					AgeMax: intPtr(70),
					Sex:    []string{models.SexMale, models.SexFemale},
				},
				Trigger:            models.Trigger{Category: models.CategoryLab, Code: "glucose"},
				RecommendationText: "Periodic fasting glucose screening is suggested for adults aged 35 to 70. Reviewing recent glucose readings with a clinician can help put them in context.",
				ReferenceRange: &models.ReferenceRange{
					Min:   floatPtr(70),
					Max:   floatPtr(100),
					Unit:  "mg/dL",
					Label: "typical fasting glucose",
				},
				CitationURL: "https://www.uspreventiveservicestaskforce.org/uspstf/recommendation/screening-for-prediabetes-and-type-2-diabetes",
			},
			{
				ID:     "aha-blood-pressure",
				Source: "AHA Blood Pressure Guidance (2017)",
				AppliesTo: &models.Applicability{
					AgeMin: intPtr(18),
				},
				Trigger:            models.Trigger{Category: models.CategoryVital, Code: "systolic_blood_pressure"},
				RecommendationText: "Regular blood pressure checks are suggested for adults. Tracking readings over time gives a clinician a fuller picture than a single measurement.",
				ReferenceRange: &models.ReferenceRange{
					Min:   floatPtr(90),
					Max:   floatPtr(120),
					Unit:  "mmHg",
					Label: "typical systolic range",
				},
				CitationURL: "https://www.heart.org/en/health-topics/high-blood-pressure",
			},
			{
				ID:     "uspstf-lipid-screening",
				Source: "USPSTF Statin Use / Lipid Screening (2022)",
				AppliesTo: &models.Applicability{
					AgeMin: intPtr(40),
					AgeMax: intPtr(75),
				},
				Trigger:            models.Trigger{Category: models.CategoryLab, Code: "total_cholesterol"},
				RecommendationText: "A periodic lipid panel is suggested for adults aged 40 to 75. Cholesterol values are best interpreted alongside other cardiovascular risk factors.",
				ReferenceRange: &models.ReferenceRange{
					Max:   floatPtr(200),
					Unit:  "mg/dL",
					Label: "desirable total cholesterol",
				},
				CitationURL: "https://www.uspreventiveservicestaskforce.org/uspstf/recommendation/statin-use-in-adults-preventive-medication",
			},
			{
				ID:     "cdc-physical-activity",
				Source: "CDC Physical Activity Guidelines for Adults",
				AppliesTo: &models.Applicability{
					AgeMin: intPtr(18),
				},
				Trigger:            models.Trigger{Category: models.CategoryActivity, Code: "daily_steps"},
				RecommendationText: "Regular physical activity supports long-term health. A gradual increase in daily movement is a common starting point worth discussing at a routine visit.",
				ReferenceRange: &models.ReferenceRange{
					Min:   floatPtr(7000),
					Unit:  "steps/day",
					Label: "commonly cited daily step target",
				},
				CitationURL: "https://www.cdc.gov/physical-activity-basics/guidelines/adults.html",
			},
			{
				ID:     "nsf-sleep-duration",
				Source: "National Sleep Foundation Sleep Duration Recommendations",
				AppliesTo: &models.Applicability{
					AgeMin: intPtr(18),
					AgeMax: intPtr(64),
				},
				Trigger:            models.Trigger{Category: models.CategorySleep, Code: "sleep_duration"},
				RecommendationText: "Adults generally benefit from 7 to 9 hours of sleep. Persistent short or long sleep is worth mentioning at a routine checkup.",
				ReferenceRange: &models.ReferenceRange{
					Min:   floatPtr(7),
					Max:   floatPtr(9),
					Unit:  "hours",
					Label: "recommended adult sleep duration",
				},
				CitationURL: "https://www.thensf.org/how-many-hours-of-sleep-do-you-really-need/",
			},
			{
				ID:     "uspstf-colorectal-screening",
				Source: "USPSTF Colorectal Cancer Screening (2021)",
				AppliesTo: &models.Applicability{
					AgeMin: intPtr(45),
					AgeMax: intPtr(75),
				},
				Trigger:            models.Trigger{Category: models.CategoryScreening, Code: "colorectal_screening"},
				RecommendationText: "Colorectal screening is suggested for adults aged 45 to 75. Several screening options exist; a clinician can help choose among them.",
				CitationURL:        "https://www.uspreventiveservicestaskforce.org/uspstf/recommendation/colorectal-cancer-screening",
			},
			{
				ID:     "uspstf-cervical-screening",
				Source: "USPSTF Cervical Cancer Screening (2018)",
				AppliesTo: &models.Applicability{
					AgeMin: intPtr(21),
					AgeMax: intPtr(65),
					Sex:    []string{models.SexFemale},
				},
				Trigger:            models.Trigger{Category: models.CategoryScreening, Code: "cervical_screening"},
				RecommendationText: "Cervical screening is suggested at regular intervals between ages 21 and 65. The appropriate interval depends on the screening method used.",
				CitationURL:        "https://www.uspreventiveservicestaskforce.org/uspstf/recommendation/cervical-cancer-screening",
			},
		},
	}
}
