package safety

import (
	"errors"
	"io/ioutil"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RewriteRule transforms a known unsafe phrasing into a safe equivalent.
// Replacement templates use capture-group references so the substantive
// noun phrase survives the rewrite.
type RewriteRule struct {
	Name        string `yaml:"name" json:"name"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Replacement string `yaml:"replacement" json:"replacement"`
	Enabled     bool   `yaml:"enabled" json:"enabled"`
}

// RedactRule is a disallowed pattern checked after rewriting. Any remaining
// match is replaced with the redaction marker.
type RedactRule struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
	Enabled bool   `yaml:"enabled" json:"enabled"`
}

type PatternsConfig struct {
	Rewrites   []RewriteRule `yaml:"rewrites" json:"rewrites"`
	Redactions []RedactRule  `yaml:"redactions" json:"redactions"`
}

func LoadPatterns(path string) (PatternsConfig, error) {
	if path == "" {
		return DefaultPatterns(), nil
	}
	content, err := ioutil.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultPatterns(), err
	}

	var cfg PatternsConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return PatternsConfig{}, err
	}

	if len(cfg.Redactions) == 0 {
		return PatternsConfig{}, errors.New("no redaction patterns configured")
	}

	return cfg, nil
}

// DefaultPatterns is the built-in pattern set. The rewrite list handles the
// common unsafe phrasings; the redaction list is a superset safety net for
// anything the rewrites could not repair.
func DefaultPatterns() PatternsConfig {
	return PatternsConfig{
		Rewrites: []RewriteRule{
			{
				Name:        "diagnostic-assertion",
				Pattern:     `(?i)\byou (?:have|have been diagnosed with|are suffering from|are showing signs of) ([a-z][a-z0-9' -]*)`,
				Replacement: "your data shows signals sometimes associated with $1",
				Enabled:     true,
			},
			{
				Name:        "medication-imperative",
				Pattern:     `(?i)\byou (?:should|must|need to) (?:take|start taking|begin taking|start|begin) ([a-z][a-z0-9' -]*)`,
				Replacement: "you may want to discuss $1 with your clinician",
				Enabled:     true,
			},
			{
				Name:        "emergency-directive",
				Pattern:     `(?i)\b(?:go to|visit|head to) (?:the |an? )?(?:emergency room|er|urgent care|hospital)(?: immediately| right away| now)?`,
				Replacement: "consider contacting a healthcare professional promptly",
				Enabled:     true,
			},
			{
				Name:        "urgency-softener",
				Pattern:     `(?i)\b(?:immediately|right away|urgently)\b`,
				Replacement: "promptly",
				Enabled:     true,
			},
		},
		Redactions: []RedactRule{
			{Name: "diagnostic-assertion", Pattern: `(?i)\byou (?:have|are suffering from|are diagnosed with)\b[^.!?\n]*`, Enabled: true},
			{Name: "diagnosis-verb", Pattern: `(?i)\bdiagnos\w*\b`, Enabled: true},
			{Name: "prescription", Pattern: `(?i)\bprescri\w*\b`, Enabled: true},
			{Name: "dosage-instruction", Pattern: `(?i)\b(?:take|taking)\s+\d+\s*(?:mg|mcg|ml|units?)\b[^.!?\n]*`, Enabled: true},
			{Name: "medication-imperative", Pattern: `(?i)\byou (?:should|must|need to) (?:take|stop taking)\b[^.!?\n]*`, Enabled: true},
			{Name: "emergency-number", Pattern: `(?i)\bcall\s+(?:911|112|999|emergency services)\b`, Enabled: true},
			{Name: "emergency-directive", Pattern: `(?i)\b(?:go to|visit|head to) (?:the |an? )?(?:emergency room|er|urgent care)\b[^.!?\n]*`, Enabled: true},
			{Name: "urgency", Pattern: `(?i)\b(?:immediately|right away)\b`, Enabled: true},
		},
	}
}
