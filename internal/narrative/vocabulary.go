package narrative

import "strings"

// VocabularyEntry maps indicator-name fragments to domain vocabulary. The
// table is read-only after process start and safe for concurrent use.
type VocabularyEntry struct {
	Fragments     []string
	Keywords      []string
	Interventions []string
	Focus         string
}

// VocabularyCaps bound the resolved sets so the generation prompt stays small.
type VocabularyCaps struct {
	Keywords      int
	Interventions int
	FocusAreas    int
}

// DefaultCaps returns the standard prompt-size bounds.
func DefaultCaps() VocabularyCaps {
	return VocabularyCaps{Keywords: 8, Interventions: 6, FocusAreas: 3}
}

// VocabularyContext is the derived vocabulary for one selection.
type VocabularyContext struct {
	Keywords      []string
	Interventions []string
	FocusAreas    []string
}

// DefaultVocabulary is the built-in fragment table covering the NFHS
// indicator families. Matching is case-insensitive substring on the
// indicator display name.
func DefaultVocabulary() []VocabularyEntry {
	return []VocabularyEntry{
		{
			Fragments:     []string{"anemia", "anaemia"},
			Keywords:      []string{"anemia burden", "iron deficiency"},
			Interventions: []string{"iron and folic acid supplementation", "dietary diversification"},
			Focus:         "maternal and child nutrition",
		},
		{
			Fragments:     []string{"stunt"},
			Keywords:      []string{"stunting", "chronic undernutrition"},
			Interventions: []string{"complementary feeding counselling", "growth monitoring"},
			Focus:         "early childhood growth",
		},
		{
			Fragments:     []string{"wast", "underweight"},
			Keywords:      []string{"acute undernutrition"},
			Interventions: []string{"therapeutic feeding programmes"},
			Focus:         "child nutrition recovery",
		},
		{
			Fragments:     []string{"immuni", "vaccin"},
			Keywords:      []string{"immunization coverage"},
			Interventions: []string{"routine immunization outreach", "catch-up vaccination drives"},
			Focus:         "preventive child health",
		},
		{
			Fragments:     []string{"birth", "delivery", "institution"},
			Keywords:      []string{"institutional delivery"},
			Interventions: []string{"skilled birth attendance", "facility readiness assessments"},
			Focus:         "safe motherhood",
		},
		{
			Fragments:     []string{"antenatal", "anc "},
			Keywords:      []string{"antenatal care uptake"},
			Interventions: []string{"early antenatal registration"},
			Focus:         "maternal health",
		},
		{
			Fragments:     []string{"sanita", "toilet", "drinking water"},
			Keywords:      []string{"household sanitation", "safe water access"},
			Interventions: []string{"water and sanitation promotion"},
			Focus:         "environmental health",
		},
		{
			Fragments:     []string{"tobacco", "alcohol"},
			Keywords:      []string{"substance use"},
			Interventions: []string{"cessation counselling"},
			Focus:         "behavioural risk reduction",
		},
		{
			Fragments:     []string{"obes", "overweight", "bmi"},
			Keywords:      []string{"overweight prevalence"},
			Interventions: []string{"lifestyle and diet counselling"},
			Focus:         "non-communicable disease prevention",
		},
		{
			Fragments:     []string{"hypertens", "blood pressure"},
			Keywords:      []string{"elevated blood pressure"},
			Interventions: []string{"screening and referral for hypertension"},
			Focus:         "non-communicable disease control",
		},
		{
			Fragments:     []string{"diabet", "blood sugar"},
			Keywords:      []string{"elevated blood sugar"},
			Interventions: []string{"screening and referral for diabetes"},
			Focus:         "non-communicable disease control",
		},
		{
			Fragments:     []string{"breastf"},
			Keywords:      []string{"early breastfeeding"},
			Interventions: []string{"breastfeeding support at facilities"},
			Focus:         "infant feeding",
		},
	}
}

// genericEntry covers indicators that match nothing in the table.
var genericEntry = VocabularyEntry{
	Keywords:      []string{"public health", "population health indicators"},
	Interventions: []string{"strengthened primary health care", "targeted district-level programmes"},
	Focus:         "general public health",
}

// ResolveVocabulary matches each indicator name against the fragment table,
// in input order, and assembles a capped vocabulary context. Unmatched names
// contribute the generic entry.
func ResolveVocabulary(names []string, table []VocabularyEntry, caps VocabularyCaps) VocabularyContext {
	ctx := VocabularyContext{}
	seenKeyword := map[string]bool{}
	seenIntervention := map[string]bool{}
	seenFocus := map[string]bool{}

	appendEntry := func(e VocabularyEntry) {
		for _, k := range e.Keywords {
			if len(ctx.Keywords) < caps.Keywords && !seenKeyword[k] {
				seenKeyword[k] = true
				ctx.Keywords = append(ctx.Keywords, k)
			}
		}
		for _, iv := range e.Interventions {
			if len(ctx.Interventions) < caps.Interventions && !seenIntervention[iv] {
				seenIntervention[iv] = true
				ctx.Interventions = append(ctx.Interventions, iv)
			}
		}
		if e.Focus != "" && len(ctx.FocusAreas) < caps.FocusAreas && !seenFocus[e.Focus] {
			seenFocus[e.Focus] = true
			ctx.FocusAreas = append(ctx.FocusAreas, e.Focus)
		}
	}

	for _, name := range names {
		lower := strings.ToLower(name)
		matched := false
		for _, entry := range table {
			for _, fragment := range entry.Fragments {
				if strings.Contains(lower, fragment) {
					appendEntry(entry)
					matched = true
					break
				}
			}
		}
		if !matched {
			appendEntry(genericEntry)
		}
	}

	if len(ctx.Keywords) == 0 {
		appendEntry(genericEntry)
	}
	return ctx
}
