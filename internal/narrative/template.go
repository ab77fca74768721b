package narrative

import (
	"fmt"
	"strings"
)

// SummaryHeader opens every summary the pipeline produces, generated or
// synthesized. The validator injects it when the generator omits it.
const SummaryHeader = "## Indicator Summary"

// RenderSkeleton renders the fixed-structure prose skeleton: one bullet block
// per indicator. Pure and deterministic; identical canonical input yields
// identical output.
func RenderSkeleton(stats []CanonicalStat) string {
	var b strings.Builder
	b.WriteString(SummaryHeader)
	b.WriteString("\n\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "- **%s**: lowest %s (%s); highest %s (%s); baseline average %s.\n",
			s.IndicatorName, s.LowestValue, s.LowestLocation, s.HighestValue, s.HighestLocation, s.Baseline)
	}
	return b.String()
}
