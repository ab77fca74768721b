package ui

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var (
	percentRe     = regexp.MustCompile(`(\d+\.\d+%)`)
	stdDevRe      = regexp.MustCompile(`(standard deviation: )(\d+\.\d+)`)
	correlationRe = regexp.MustCompile(`(correlation coefficient: )(\d+\.\d+)`)
)

// PolishSummary applies the dashboard's cosmetic touch-ups to generated
// markdown: section separators before the secondary headers and bold styling
// on numeric stats.
func PolishSummary(summary string) string {
	summary = strings.ReplaceAll(summary, "## Variability", "\n---\n\n## Variability")
	summary = strings.ReplaceAll(summary, "## Correlations", "\n---\n\n## Correlations")

	summary = percentRe.ReplaceAllString(summary, "**$1**")
	summary = stdDevRe.ReplaceAllString(summary, "$1**$2**")
	summary = correlationRe.ReplaceAllString(summary, "$1**$2**")

	return strings.TrimSpace(summary)
}

// RenderHTML renders polished summary markdown to HTML for clients that embed
// it directly.
func RenderHTML(summary string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	return string(markdown.ToHTML([]byte(summary), p, renderer))
}
