// Package scoring runs the fit-scoring pipeline: validate the job, consult
// the cache, ask the analyzer, store the result.
package scoring

import (
	"context"
	"strings"

	"job-agent/internal/ai"
	"job-agent/internal/cache"

	"go.uber.org/zap"
)

// requiredFields maps wire field names to their accessors. Validation runs
// before the analyzer so a missing field never costs an LLM call.
var requiredFields = []struct {
	name  string
	value func(*ai.JobPosting) string
}{
	{"job_title", func(j *ai.JobPosting) string { return j.Title }},
	{"company", func(j *ai.JobPosting) string { return j.Company }},
	{"job_description", func(j *ai.JobPosting) string { return j.Description }},
}

// Scorer scores jobs against the fixed candidate CV, reusing cached results
// for already-seen (title, company) pairs.
type Scorer struct {
	analyzer ai.Analyzer
	cache    *cache.Cache
	cv       string
	logger   *zap.Logger
}

func New(analyzer ai.Analyzer, c *cache.Cache, cv string, logger *zap.Logger) *Scorer {
	return &Scorer{
		analyzer: analyzer,
		cache:    c,
		cv:       cv,
		logger:   logger,
	}
}

// Score returns the fit analysis for the job. A cached analysis for the same
// (title, company) pair is returned unchanged without re-scoring.
func (s *Scorer) Score(ctx context.Context, job *ai.JobPosting) (*ai.FitAnalysis, error) {
	if err := validate(job); err != nil {
		return nil, err
	}

	key := cache.Key(job.Title, job.Company)
	if analysis, ok := s.cache.Get(key); ok {
		s.logger.Info("using cached analysis",
			zap.String("job_title", job.Title),
			zap.String("company", job.Company),
		)
		return analysis, nil
	}

	s.logger.Info("analyzing job",
		zap.String("job_title", job.Title),
		zap.String("company", job.Company),
	)

	analysis, err := s.analyzer.AnalyzeFit(ctx, s.cv, job)
	if err != nil {
		return nil, err
	}

	s.logger.Info("job analyzed",
		zap.String("job_title", job.Title),
		zap.Float64("overall_score", analysis.OverallScore),
		zap.String("priority", analysis.Priority),
	)

	s.cache.Put(key, analysis)

	return analysis, nil
}

// CacheSize reports how many analyses are held in memory.
func (s *Scorer) CacheSize() int {
	return s.cache.Len()
}

func validate(job *ai.JobPosting) error {
	if job == nil {
		return &ai.ValidationError{Field: "job_title"}
	}

	for _, field := range requiredFields {
		if strings.TrimSpace(field.value(job)) == "" {
			return &ai.ValidationError{Field: field.name}
		}
	}

	return nil
}
