package safety

import (
	"strings"
	"testing"
)

func newTestFilter(t *testing.T) *Filter {
	t.Helper()
	filter, err := NewFilter(DefaultPatterns())
	if err != nil {
		t.Fatalf("failed to create filter: %v", err)
	}
	return filter
}

func TestRewritePreservesNounPhrase(t *testing.T) {
	filter := newTestFilter(t)

	out := filter.Sanitize("Based on these results, you have prediabetes.")
	if !strings.Contains(out, "prediabetes") {
		t.Fatalf("expected condition to survive the rewrite, got %q", out)
	}
	if strings.Contains(strings.ToLower(out), "you have") {
		t.Fatalf("expected diagnostic assertion to be rewritten, got %q", out)
	}
	if !strings.Contains(out, "signals sometimes associated with") {
		t.Fatalf("expected safe phrasing, got %q", out)
	}
}

func TestMedicationImperativeBecomesInvitation(t *testing.T) {
	filter := newTestFilter(t)

	out := filter.Sanitize("You should take metformin every morning.")
	if !strings.Contains(out, "metformin") {
		t.Fatalf("expected medication name to survive, got %q", out)
	}
	if !strings.Contains(out, "discuss") || !strings.Contains(out, "clinician") {
		t.Fatalf("expected invitation to discuss with a clinician, got %q", out)
	}
}

func TestEmergencyDirectiveSoftened(t *testing.T) {
	filter := newTestFilter(t)

	out := filter.Sanitize("Go to the emergency room immediately.")
	if strings.Contains(strings.ToLower(out), "emergency room") {
		t.Fatalf("expected emergency directive to be rewritten, got %q", out)
	}
	if !strings.Contains(out, "promptly") {
		t.Fatalf("expected softened urgency, got %q", out)
	}
}

func TestRedactionCatchesResidue(t *testing.T) {
	filter := newTestFilter(t)

	// Phrasing the rewrite pass has no template for.
	out := filter.Sanitize("Your doctor prescribed this, so keep taking 10 mg daily.")
	if !strings.Contains(out, RedactionMarker) {
		t.Fatalf("expected redaction marker in output, got %q", out)
	}
	if !filter.IsSafe(out) {
		t.Fatalf("redacted output still unsafe: %q", out)
	}
}

func TestSanitizeOutputIsAlwaysSafe(t *testing.T) {
	filter := newTestFilter(t)

	inputs := []string{
		"",
		"Keep up the regular walking routine.",
		"You have hypertension and you must take lisinopril.",
		"you are suffering from chronic insomnia",
		"Call 911 right away.",
		"The diagnosis was confirmed yesterday; visit the ER immediately.",
		"Take 500 mg twice a day as prescribed.",
		"Consider scheduling a routine cholesterol screening.",
		"YOU HAVE DIABETES. GO TO THE EMERGENCY ROOM NOW.",
	}

	for _, input := range inputs {
		out := filter.Sanitize(input)
		if !filter.IsSafe(out) {
			t.Fatalf("IsSafe(Sanitize(%q)) = false, output %q", input, out)
		}
	}
}

func TestIsSafeStandalone(t *testing.T) {
	filter := newTestFilter(t)

	if filter.IsSafe("You have atrial fibrillation.") {
		t.Fatal("expected diagnostic assertion to be unsafe")
	}
	if !filter.IsSafe("Your recent readings are within the typical range.") {
		t.Fatal("expected neutral text to be safe")
	}
}

func TestDisabledRulesAreSkipped(t *testing.T) {
	cfg := DefaultPatterns()
	for i := range cfg.Rewrites {
		cfg.Rewrites[i].Enabled = false
	}
	filter, err := NewFilter(cfg)
	if err != nil {
		t.Fatalf("failed to create filter: %v", err)
	}

	// With rewrites disabled the redaction pass is the only line of defense.
	out := filter.Sanitize("You have prediabetes.")
	if !strings.Contains(out, RedactionMarker) {
		t.Fatalf("expected redaction fallback, got %q", out)
	}
	if !filter.IsSafe(out) {
		t.Fatalf("expected redacted output to be safe, got %q", out)
	}
}
