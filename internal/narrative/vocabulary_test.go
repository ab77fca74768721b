package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVocabularyMatchesFragments(t *testing.T) {
	ctx := ResolveVocabulary(
		[]string{"Anaemia among pregnant women", "Children under 5 who are stunted"},
		DefaultVocabulary(), DefaultCaps())

	assert.Contains(t, ctx.Keywords, "anemia burden")
	assert.Contains(t, ctx.Keywords, "stunting")
	assert.Contains(t, ctx.Interventions, "iron and folic acid supplementation")
	assert.Contains(t, ctx.FocusAreas, "maternal and child nutrition")
}

func TestResolveVocabularyCaseInsensitive(t *testing.T) {
	ctx := ResolveVocabulary([]string{"ANEMIA PREVALENCE"}, DefaultVocabulary(), DefaultCaps())
	assert.Contains(t, ctx.Keywords, "anemia burden")
}

func TestResolveVocabularyUnmatchedGetsGeneric(t *testing.T) {
	ctx := ResolveVocabulary([]string{"Households with a bicycle"}, DefaultVocabulary(), DefaultCaps())
	assert.Contains(t, ctx.Keywords, "public health")
	assert.NotEmpty(t, ctx.Interventions)
}

func TestResolveVocabularyCapsRespected(t *testing.T) {
	names := []string{
		"Anemia prevalence", "Stunted children", "Wasted children",
		"Immunization coverage", "Institutional birth", "Antenatal visits",
		"Household sanitation", "Tobacco use", "Obesity among adults",
		"Hypertension screening", "Diabetes screening", "Early breastfeeding",
	}
	caps := VocabularyCaps{Keywords: 4, Interventions: 3, FocusAreas: 2}
	ctx := ResolveVocabulary(names, DefaultVocabulary(), caps)

	assert.LessOrEqual(t, len(ctx.Keywords), 4)
	assert.LessOrEqual(t, len(ctx.Interventions), 3)
	assert.LessOrEqual(t, len(ctx.FocusAreas), 2)
}

func TestResolveVocabularyInputOrderAndDedup(t *testing.T) {
	ctx := ResolveVocabulary(
		[]string{"Children who are stunted", "Anemia in women", "Severe stunting"},
		DefaultVocabulary(), DefaultCaps())

	// stunting entry first because it matched first; repeated match adds nothing
	assert.Equal(t, "stunting", ctx.Keywords[0])
	count := 0
	for _, k := range ctx.Keywords {
		if k == "stunting" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestResolveVocabularyEmptyInputNeverEmpty(t *testing.T) {
	ctx := ResolveVocabulary(nil, DefaultVocabulary(), DefaultCaps())
	assert.NotEmpty(t, ctx.Keywords)
}
