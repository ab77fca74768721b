package narrative

import (
	"fmt"
	"strings"
)

// QualityConfig holds the tunable thresholds of the narrative quality gate.
// They are configuration, not magic numbers, so they can be tested and tuned
// independently.
type QualityConfig struct {
	// MinLength is the minimum character count of acceptable prose.
	MinLength int
	// MarkerWord reused more than MarkerWordMax times marks degenerate output.
	MarkerWord    string
	MarkerWordMax int
	// Denylist phrases identify known degenerate generations.
	Denylist []string
	// MaxFailures failing gate conditions reject the text.
	MaxFailures int
}

// DefaultQualityConfig returns the standard gate thresholds.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MinLength:     120,
		MarkerWord:    "indicator",
		MarkerWordMax: 6,
		Denylist: []string{
			"no insights generated",
			"error generating insights",
			"analysis completed using available data",
			"as an ai",
			"i cannot",
			"thinking...",
		},
		MaxFailures: 2,
	}
}

// Validator quality-gates generated prose against the canonical stats and
// repairs or replaces it. It never returns an empty summary and never fails.
type Validator struct {
	cfg QualityConfig
}

// NewValidator creates a validator with the given thresholds. Zero-valued
// fields fall back to their defaults individually, so a partial config keeps
// the fields it does set.
func NewValidator(cfg QualityConfig) *Validator {
	def := DefaultQualityConfig()
	if cfg.MinLength <= 0 {
		cfg.MinLength = def.MinLength
	}
	if cfg.MarkerWord == "" {
		cfg.MarkerWord = def.MarkerWord
	}
	if cfg.MarkerWordMax <= 0 {
		cfg.MarkerWordMax = def.MarkerWordMax
	}
	if cfg.Denylist == nil {
		cfg.Denylist = def.Denylist
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = def.MaxFailures
	}
	return &Validator{cfg: cfg}
}

// Finalize runs the state machine over raw generated text: dedupe, gate, then
// either cosmetic repair or deterministic regeneration from the template.
func (v *Validator) Finalize(raw string, stats []CanonicalStat, vocab VocabularyContext, notes PatternNotes, skeleton string) string {
	deduped := v.dedupe(raw)

	if len(v.gateFailures(deduped, stats)) >= v.cfg.MaxFailures {
		return v.TemplateSummary(stats, vocab, notes, skeleton)
	}
	return v.repair(deduped, stats)
}

// dedupe drops lines duplicating previously seen content and lines matching
// the degenerate-phrase denylist.
func (v *Validator) dedupe(raw string) string {
	seen := map[string]bool{}
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if trimmed != "" {
			if seen[trimmed] {
				continue
			}
			if v.matchesDenylist(trimmed) {
				continue
			}
			seen[trimmed] = true
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func (v *Validator) matchesDenylist(lower string) bool {
	for _, phrase := range v.cfg.Denylist {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// gateFailures evaluates the quality conditions on deduped text and returns
// the ones that fail.
func (v *Validator) gateFailures(text string, stats []CanonicalStat) []string {
	var failures []string
	lower := strings.ToLower(text)

	if len(strings.TrimSpace(text)) < v.cfg.MinLength {
		failures = append(failures, "below minimum length")
	}

	if strings.Count(lower, strings.ToLower(v.cfg.MarkerWord)) > v.cfg.MarkerWordMax {
		failures = append(failures, "marker word overused")
	}

	locations := knownLocations(stats)
	if len(locations) > 0 {
		found := false
		for _, loc := range locations {
			if strings.Contains(lower, strings.ToLower(loc)) {
				found = true
				break
			}
		}
		if !found {
			failures = append(failures, "no source locations mentioned")
		}
	}

	if v.matchesDenylist(lower) {
		failures = append(failures, "degenerate phrase present")
	}

	return failures
}

// repair applies cosmetic fixes to accepted text: a factual supplement when
// the leading indicators' locations are missing, and the section header when
// the generator omitted it.
func (v *Validator) repair(text string, stats []CanonicalStat) string {
	if supplementNeeded(text, stats) {
		text = factualSupplement(stats) + "\n\n" + text
	}
	if !strings.Contains(text, SummaryHeader) {
		text = SummaryHeader + "\n\n" + text
	}
	return text
}

// supplementNeeded reports whether the first two canonical stats' locations
// are all absent from the text.
func supplementNeeded(text string, stats []CanonicalStat) bool {
	lower := strings.ToLower(text)
	checked := 0
	for _, s := range stats {
		if checked >= 2 {
			break
		}
		checked++
		for _, loc := range []string{s.LowestLocation, s.HighestLocation} {
			if loc == SentinelLocation {
				continue
			}
			if strings.Contains(lower, strings.ToLower(loc)) {
				return false
			}
		}
	}
	return checked > 0
}

func factualSupplement(stats []CanonicalStat) string {
	var b strings.Builder
	b.WriteString("**Key figures:**\n")
	count := 0
	for _, s := range stats {
		if count >= 2 {
			break
		}
		count++
		fmt.Fprintf(&b, "- %s: lowest %s in %s, highest %s in %s.\n",
			s.IndicatorName, s.LowestValue, s.LowestLocation, s.HighestValue, s.HighestLocation)
	}
	return strings.TrimRight(b.String(), "\n")
}

// TemplateSummary deterministically synthesizes a summary from the template
// facts, top-3 indicator detail sentences, pattern notes and intervention
// phrasing. This path performs no external calls and never fails.
func (v *Validator) TemplateSummary(stats []CanonicalStat, vocab VocabularyContext, notes PatternNotes, skeleton string) string {
	var b strings.Builder
	b.WriteString(skeleton)

	if len(stats) > 0 {
		b.WriteString("\n### Highlights\n\n")
		for i, s := range stats {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "%s ranges from %s in %s to %s in %s",
				s.IndicatorName, s.LowestValue, s.LowestLocation, s.HighestValue, s.HighestLocation)
			if s.Baseline != SentinelValue {
				fmt.Fprintf(&b, ", against a baseline average of %s", s.Baseline)
			}
			b.WriteString(".\n")
		}
	}

	if lines := notes.Lines(); len(lines) > 0 {
		b.WriteString("\n### Patterns\n\n")
		for _, line := range lines {
			b.WriteString("- " + line + "\n")
		}
	}

	if len(vocab.Interventions) > 0 {
		b.WriteString("\n### Recommended Actions\n\n")
		for _, iv := range vocab.Interventions {
			fmt.Fprintf(&b, "- Prioritize %s in the lowest-performing areas.\n", iv)
		}
	}

	return strings.TrimSpace(b.String())
}

// GenericFallback produces the unconditional last-resort summary used when
// the narrator transport fails or the pipeline itself errors. It references
// the resolved vocabulary and must never itself fail.
func (v *Validator) GenericFallback(vocab VocabularyContext) string {
	keywords := vocab.Keywords
	if len(keywords) == 0 {
		keywords = []string{"public health"}
	}

	var b strings.Builder
	b.WriteString(SummaryHeader)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "A narrative summary could not be generated for this selection. The selected indicators relate to %s.\n\n",
		strings.Join(keywords, ", "))
	if len(vocab.FocusAreas) > 0 {
		fmt.Fprintf(&b, "Relevant focus areas include %s.\n\n", strings.Join(vocab.FocusAreas, ", "))
	}
	b.WriteString("The numeric statistics and correlation tables remain available and are unaffected.")
	return b.String()
}

func knownLocations(stats []CanonicalStat) []string {
	var out []string
	for _, s := range stats {
		if s.LowestLocation != SentinelLocation {
			out = append(out, s.LowestLocation)
		}
		if s.HighestLocation != SentinelLocation {
			out = append(out, s.HighestLocation)
		}
	}
	return out
}
