package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"job-agent/internal/ai"
	"job-agent/internal/util"

	"go.uber.org/zap"
)

// locationNotSpecified is substituted when a job carries no location.
const locationNotSpecified = "Not specified"

const defaultMaxLogLength = 200

//go:embed prompt_fit.md
var fitPromptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Analyzer produces FitAnalysis results by prompting Gemini with the
// candidate CV and a job posting. Scoring runs with temperature 0 so
// identical inputs stay as reproducible as the model allows.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyzer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) AnalyzeFit(ctx context.Context, cv string, job *ai.JobPosting) (*ai.FitAnalysis, error) {
	if job == nil {
		return nil, fmt.Errorf("job posting is required")
	}

	prompt := buildFitPrompt(cv, job)

	a.logger.Debug("gemini fit analysis request",
		zap.String("job_title", job.Title),
		zap.String("company", job.Company),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt, GenerateOptions{Temperature: 0})
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini fit analysis response",
		zap.String("job_title", job.Title),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	analysis, err := parseFitResponse(raw)
	if err != nil {
		return nil, err
	}

	analysis.JobData = ai.JobData{
		Title:    job.Title,
		Company:  job.Company,
		Location: job.Location,
		URL:      job.URL,
	}
	analysis.Raw = raw

	return analysis, nil
}

func buildFitPrompt(cv string, job *ai.JobPosting) string {
	location := strings.TrimSpace(job.Location)
	if location == "" {
		location = locationNotSpecified
	}

	prompt := strings.ReplaceAll(fitPromptTemplate, "{{CV}}", cv)
	prompt = strings.ReplaceAll(prompt, "{{JOB_TITLE}}", job.Title)
	prompt = strings.ReplaceAll(prompt, "{{COMPANY}}", job.Company)
	prompt = strings.ReplaceAll(prompt, "{{LOCATION}}", location)
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", job.Description)

	return prompt
}

func parseFitResponse(raw string) (*ai.FitAnalysis, error) {
	body, err := extractJSONObject(raw)
	if err != nil {
		return nil, &ai.ParseError{Raw: raw, Err: err}
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &keys); err != nil {
		return nil, &ai.ParseError{Raw: raw, Err: err}
	}

	if _, ok := keys["overall_score"]; !ok {
		return nil, &ai.ParseError{Raw: raw, Err: errors.New("response is missing overall_score")}
	}

	var analysis ai.FitAnalysis
	if err := json.Unmarshal([]byte(body), &analysis); err != nil {
		return nil, &ai.ParseError{Raw: raw, Err: err}
	}

	return &analysis, nil
}

// extractJSONObject returns the substring between the first '{' and the last
// '}' of the reply. A deliberately lenient heuristic: it assumes the model
// wraps valid JSON with at most leading and trailing prose.
func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("no JSON object found in response")
	}

	return raw[start : end+1], nil
}
