package guideline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRulesAreUsable(t *testing.T) {
	rs := DefaultRules()
	if rs.Version == "" {
		t.Fatal("expected a rule set version")
	}
	if len(rs.Rules) == 0 {
		t.Fatal("expected built-in rules")
	}
	for _, rule := range rs.Rules {
		if rule.ID == "" || rule.Source == "" || rule.RecommendationText == "" {
			t.Fatalf("incomplete built-in rule: %+v", rule)
		}
		if rule.Trigger.Category == "" {
			t.Fatalf("rule %s missing trigger category", rule.ID)
		}
	}
}

func TestStoreGetCachesSnapshot(t *testing.T) {
	store := NewStore("")

	first, err := store.Get()
	if err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}
	second, err := store.Get()
	if err != nil {
		t.Fatalf("failed to load cached rules: %v", err)
	}
	if !first.LoadedAt.Equal(second.LoadedAt) {
		t.Fatal("expected the cached snapshot, not a reload")
	}
}

func TestStoreInvalidateForcesReload(t *testing.T) {
	store := NewStore("")

	first, err := store.Get()
	if err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}

	store.Invalidate()

	second, err := store.Get()
	if err != nil {
		t.Fatalf("failed to reload rules: %v", err)
	}
	if second.LoadedAt.Before(first.LoadedAt) {
		t.Fatal("expected a fresh snapshot after invalidation")
	}
}

func TestLoadRulesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := []byte(`
version: "test.1"
rules:
  - id: test-rule
    source: Test Authority
    applies_to:
      age_min: 30
      age_max: 60
      sex: [female]
    trigger:
      category: lab
      code: glucose
    recommendation_text: Periodic screening is suggested.
    reference_range:
      min: 70
      max: 100
      unit: mg/dL
      label: typical range
    citation_url: https://example.org/rule
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}
	if rs.Version != "test.1" {
		t.Fatalf("unexpected version %q", rs.Version)
	}
	if len(rs.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(rs.Rules))
	}

	rule := rs.Rules[0]
	if rule.AppliesTo == nil || rule.AppliesTo.AgeMin == nil || *rule.AppliesTo.AgeMin != 30 {
		t.Fatalf("applies_to not parsed: %+v", rule.AppliesTo)
	}
	if rule.ReferenceRange == nil || rule.ReferenceRange.Max == nil || *rule.ReferenceRange.Max != 100 {
		t.Fatalf("reference_range not parsed: %+v", rule.ReferenceRange)
	}
	if rule.Trigger.Code != "glucose" {
		t.Fatalf("trigger not parsed: %+v", rule.Trigger)
	}
}

func TestLoadRulesMissingFileFallsBack(t *testing.T) {
	rs, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if len(rs.Rules) == 0 {
		t.Fatal("expected default rules as fallback")
	}
}
