package narrative

import (
	"fmt"
	"strings"
)

// PatternNotes summarizes cross-indicator structure found in the canonical
// stats: locations recurring at either extreme, and the identical-baseline
// anomaly that usually signals an upstream data bug.
type PatternNotes struct {
	ConsistentlyStrong []string
	ConsistentlyWeak   []string
	DataQualityNote    string
}

// Lines renders the notes as prompt-ready bullet text.
func (n PatternNotes) Lines() []string {
	var out []string
	for _, loc := range n.ConsistentlyStrong {
		out = append(out, fmt.Sprintf("%s records the highest value for two or more indicators.", loc))
	}
	for _, loc := range n.ConsistentlyWeak {
		out = append(out, fmt.Sprintf("%s records the lowest value for two or more indicators.", loc))
	}
	if n.DataQualityNote != "" {
		out = append(out, n.DataQualityNote)
	}
	return out
}

// DetectPatterns scans canonical stats for locations appearing as an extreme
// in two or more indicators, and for the shared-baseline data-quality anomaly.
func DetectPatterns(stats []CanonicalStat) PatternNotes {
	notes := PatternNotes{}

	highCounts := map[string]int{}
	lowCounts := map[string]int{}
	var highOrder, lowOrder []string
	for _, s := range stats {
		if s.HighestLocation != SentinelLocation {
			if highCounts[s.HighestLocation] == 0 {
				highOrder = append(highOrder, s.HighestLocation)
			}
			highCounts[s.HighestLocation]++
		}
		if s.LowestLocation != SentinelLocation {
			if lowCounts[s.LowestLocation] == 0 {
				lowOrder = append(lowOrder, s.LowestLocation)
			}
			lowCounts[s.LowestLocation]++
		}
	}
	for _, loc := range highOrder {
		if highCounts[loc] >= 2 {
			notes.ConsistentlyStrong = append(notes.ConsistentlyStrong, loc)
		}
	}
	for _, loc := range lowOrder {
		if lowCounts[loc] >= 2 {
			notes.ConsistentlyWeak = append(notes.ConsistentlyWeak, loc)
		}
	}

	// Every indicator sharing one baseline is a likely upstream bug, not a
	// coincidence; surface it instead of silently accepting.
	if len(stats) >= 2 {
		shared := stats[0].Baseline
		identical := shared != SentinelValue
		for _, s := range stats[1:] {
			if s.Baseline != shared {
				identical = false
				break
			}
		}
		if identical {
			notes.DataQualityNote = fmt.Sprintf(
				"Data quality warning: every selected indicator reports the identical baseline average %s; verify the upstream averages table.", shared)
		}
	}

	return notes
}

// BuildPrompt assembles the full generation request body: the rendered
// skeleton, pattern notes, vocabulary and an enumerated instruction set that
// pins the generator to the supplied numeric facts.
func BuildPrompt(skeleton string, stats []CanonicalStat, vocab VocabularyContext, notes PatternNotes, level string, maxWords int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are analyzing %d health indicators at %s level.\n\n", len(stats), level)
	b.WriteString("Pre-computed statistics:\n\n")
	b.WriteString(skeleton)
	b.WriteString("\n")

	if lines := notes.Lines(); len(lines) > 0 {
		b.WriteString("Observed patterns:\n")
		for _, line := range lines {
			b.WriteString("- " + line + "\n")
		}
		b.WriteString("\n")
	}

	if len(vocab.Keywords) > 0 {
		fmt.Fprintf(&b, "Domain vocabulary: %s.\n", strings.Join(vocab.Keywords, ", "))
	}
	if len(vocab.FocusAreas) > 0 {
		fmt.Fprintf(&b, "Focus areas: %s.\n", strings.Join(vocab.FocusAreas, ", "))
	}
	if len(vocab.Interventions) > 0 {
		fmt.Fprintf(&b, "Relevant interventions: %s.\n", strings.Join(vocab.Interventions, ", "))
	}
	b.WriteString("\n")

	b.WriteString("Instructions:\n")
	fmt.Fprintf(&b, "1. Use ONLY the numeric facts listed above; do not invent numbers.\n")
	fmt.Fprintf(&b, "2. Name the lowest and highest location for each indicator.\n")
	fmt.Fprintf(&b, "3. Compare each indicator against its baseline average.\n")
	fmt.Fprintf(&b, "4. Do not repeat sentences or phrases.\n")
	fmt.Fprintf(&b, "5. Keep the summary under %d words.\n", maxWords)
	fmt.Fprintf(&b, "6. Output markdown starting with the header %q.\n", SummaryHeader)
	fmt.Fprintf(&b, "7. Provide the summary only, not code or JSON.\n")

	return b.String()
}
