package app

import (
	"context"

	"healthdash/domain/indicator"
	"healthdash/internal/config"
	"healthdash/internal/logging"
	"healthdash/internal/narrative"
	"healthdash/ports"
)

// summaryMaxWords bounds the requested narrative length in the prompt.
const summaryMaxWords = 300

var summaryLog = logging.NewDefault("SummaryService")

// SummaryService runs the narrative pipeline: aggregate, normalize, render
// the factual skeleton, build the prompt, call the narrator, then validate
// and repair the result. Every failure mode downstream of aggregation
// degrades to a deterministic summary instead of an error.
type SummaryService struct {
	dashboard *DashboardService
	narrator  ports.Narrator
	validator *narrative.Validator
	vocab     []narrative.VocabularyEntry
	caps      narrative.VocabularyCaps
	narCfg    config.NarratorConfig
}

// NewSummaryService creates the narrative service.
func NewSummaryService(dashboard *DashboardService, narrator ports.Narrator, validator *narrative.Validator, narCfg config.NarratorConfig) *SummaryService {
	return &SummaryService{
		dashboard: dashboard,
		narrator:  narrator,
		validator: validator,
		vocab:     narrative.DefaultVocabulary(),
		caps:      narrative.DefaultCaps(),
		narCfg:    narCfg,
	}
}

// Summarize produces the markdown summary for a selection. Validation and
// aggregation errors are returned; narrator failures and pipeline panics
// yield the deterministic fallback instead.
func (s *SummaryService) Summarize(ctx context.Context, req indicator.SelectionRequest) (summary string, err error) {
	stats, err := s.dashboard.Stats(ctx, req)
	if err != nil {
		return "", err
	}

	canonical := narrative.Normalize(stats)
	vocab := narrative.ResolveVocabulary(canonicalNames(canonical), s.vocab, s.caps)

	// Anything past this point must still produce a summary.
	defer func() {
		if r := recover(); r != nil {
			summaryLog.Error("pipeline panic recovered: %v", r)
			summary, err = s.validator.GenericFallback(vocab), nil
		}
	}()

	skeleton := narrative.RenderSkeleton(canonical)
	notes := narrative.DetectPatterns(canonical)
	prompt := narrative.BuildPrompt(skeleton, canonical, vocab, notes, req.Level(), summaryMaxWords)

	genCtx, cancel := context.WithTimeout(ctx, s.narCfg.Timeout)
	defer cancel()

	raw, genErr := s.narrator.Generate(genCtx, ports.GenerationRequest{
		Prompt:        prompt,
		Temperature:   s.narCfg.Temperature,
		TopP:          s.narCfg.TopP,
		RepeatPenalty: s.narCfg.RepeatPenalty,
		MaxTokens:     s.narCfg.MaxTokens,
		Seed:          s.narCfg.Seed,
	})
	if genErr != nil {
		summaryLog.Warn("narrator unavailable, using fallback: %v", genErr)
		return s.validator.GenericFallback(vocab), nil
	}

	return s.validator.Finalize(raw, canonical, vocab, notes, skeleton), nil
}

func canonicalNames(stats []narrative.CanonicalStat) []string {
	names := make([]string, 0, len(stats))
	for _, s := range stats {
		if s.IndicatorName != narrative.SentinelName {
			names = append(names, s.IndicatorName)
		}
	}
	return names
}
