package safety

import (
	"regexp"
)

// RedactionMarker replaces any disallowed phrase the rewrite pass could not
// repair. Last-resort guarantee, not the primary mechanism.
const RedactionMarker = "[removed by safety review]"

type compiledRewrite struct {
	rule RewriteRule
	re   *regexp.Regexp
}

type compiledRedaction struct {
	rule RedactRule
	re   *regexp.Regexp
}

// Filter is a pure text transformer. It holds only compiled patterns and is
// safe for concurrent use.
type Filter struct {
	rewrites   []compiledRewrite
	redactions []compiledRedaction
}

func NewFilter(cfg PatternsConfig) (*Filter, error) {
	var rewrites []compiledRewrite
	for _, rule := range cfg.Rewrites {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		rewrites = append(rewrites, compiledRewrite{rule: rule, re: re})
	}

	var redactions []compiledRedaction
	for _, rule := range cfg.Redactions {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		redactions = append(redactions, compiledRedaction{rule: rule, re: re})
	}

	return &Filter{rewrites: rewrites, redactions: redactions}, nil
}

// Sanitize rewrites known unsafe phrasings into safe equivalents, then
// redacts anything still matching a disallowed pattern. For any input,
// IsSafe(Sanitize(text)) holds.
func (f *Filter) Sanitize(text string) string {
	if f == nil {
		return text
	}

	out := text
	for _, rw := range f.rewrites {
		out = rw.re.ReplaceAllString(out, rw.rule.Replacement)
	}
	for _, rd := range f.redactions {
		out = rd.re.ReplaceAllString(out, RedactionMarker)
	}
	return out
}

// IsSafe reports whether text matches no disallowed pattern. Pure pattern
// matching, usable standalone as an output guard.
func (f *Filter) IsSafe(text string) bool {
	if f == nil {
		return true
	}
	for _, rd := range f.redactions {
		if rd.re.MatchString(text) {
			return false
		}
	}
	return true
}
