package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPatternsRecurringExtremes(t *testing.T) {
	notes := DetectPatterns(canonicalFixture())

	assert.Equal(t, []string{"Eastland"}, notes.ConsistentlyStrong)
	assert.Equal(t, []string{"Westfall"}, notes.ConsistentlyWeak)
}

func TestDetectPatternsNoRecurrence(t *testing.T) {
	stats := canonicalFixture()
	stats[1].HighestLocation = "Southmark"
	stats[1].LowestLocation = "Northstate"

	notes := DetectPatterns(stats)
	assert.Empty(t, notes.ConsistentlyStrong)
	assert.Empty(t, notes.ConsistentlyWeak)
}

func TestDetectPatternsIgnoresSentinelLocations(t *testing.T) {
	stats := []CanonicalStat{
		{HighestLocation: SentinelLocation, LowestLocation: SentinelLocation, Baseline: SentinelValue},
		{HighestLocation: SentinelLocation, LowestLocation: SentinelLocation, Baseline: SentinelValue},
	}
	notes := DetectPatterns(stats)
	assert.Empty(t, notes.ConsistentlyStrong)
	assert.Empty(t, notes.ConsistentlyWeak)
	assert.Empty(t, notes.DataQualityNote)
}

func TestDetectPatternsIdenticalBaselineWarning(t *testing.T) {
	stats := canonicalFixture()
	stats[0].Baseline = "42.0"
	stats[1].Baseline = "42.0"

	notes := DetectPatterns(stats)
	require.NotEmpty(t, notes.DataQualityNote)
	assert.Contains(t, notes.DataQualityNote, "Data quality warning")
	assert.Contains(t, notes.DataQualityNote, "42.0")
}

func TestDetectPatternsDistinctBaselinesNoWarning(t *testing.T) {
	notes := DetectPatterns(canonicalFixture())
	assert.Empty(t, notes.DataQualityNote)
}

func TestBuildPromptContainsAllSections(t *testing.T) {
	stats := canonicalFixture()
	skeleton := RenderSkeleton(stats)
	vocab := ResolveVocabulary([]string{"Anemia prevalence among women"}, DefaultVocabulary(), DefaultCaps())
	notes := DetectPatterns(stats)

	prompt := BuildPrompt(skeleton, stats, vocab, notes, "state", 300)

	assert.Contains(t, prompt, "2 health indicators at state level")
	assert.Contains(t, prompt, skeleton)
	assert.Contains(t, prompt, "anemia burden")
	assert.Contains(t, prompt, "Eastland records the highest value")
	assert.Contains(t, prompt, "under 300 words")
	assert.Contains(t, prompt, "do not invent numbers")
}

func TestBuildPromptDeterministic(t *testing.T) {
	stats := canonicalFixture()
	skeleton := RenderSkeleton(stats)
	vocab := ResolveVocabulary([]string{"Anemia"}, DefaultVocabulary(), DefaultCaps())
	notes := DetectPatterns(stats)

	a := BuildPrompt(skeleton, stats, vocab, notes, "district", 250)
	b := BuildPrompt(skeleton, stats, vocab, notes, "district", 250)
	assert.Equal(t, a, b)
	assert.True(t, strings.Contains(a, "district level"))
}
