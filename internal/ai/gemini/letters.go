package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"job-agent/internal/ai"
	"job-agent/internal/util"

	"go.uber.org/zap"
)

const (
	// Letters are allowed some creativity, unlike fit scoring.
	letterTemperature = 0.7
	letterMaxTokens   = 1000

	// How many missing skills the letter is asked to address.
	letterMissingSkillsLimit = 3

	// How much of the output is inspected for language keywords.
	languageSniffRunes = 100

	LanguageFrench  = "fr"
	LanguageEnglish = "en"
)

//go:embed prompt_letter_en.md
var letterPromptEN string

//go:embed prompt_letter_fr.md
var letterPromptFR string

var (
	frenchOutputKeywords  = []string{"madame", "monsieur", "votre", "entreprise"}
	englishOutputKeywords = []string{"dear", "hiring", "manager", "position"}
)

// LetterWriter generates cover letters with Gemini. The requested language
// picks the prompt template; the reply is sniffed afterwards to report which
// language actually came back.
type LetterWriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	now       func() time.Time
}

func NewLetterWriter(generator contentGenerator, logger *zap.Logger, maxLogLength int) *LetterWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &LetterWriter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
		now:       time.Now,
	}
}

func (w *LetterWriter) GenerateLetter(ctx context.Context, cv string, req *ai.LetterRequest) (*ai.CoverLetter, error) {
	if req == nil {
		return nil, fmt.Errorf("letter request is required")
	}

	requested := resolveLanguage(req.Language)
	prompt := buildLetterPrompt(cv, req, requested)

	w.logger.Debug("gemini cover letter request",
		zap.String("job_title", req.JobTitle),
		zap.String("company", req.Company),
		zap.String("requested_language", requested),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := w.generator.GenerateContent(ctx, prompt, GenerateOptions{
		Temperature:     letterTemperature,
		MaxOutputTokens: letterMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate cover letter: %w", err)
	}

	text := strings.TrimSpace(raw)
	actual := sniffOutputLanguage(text, requested)

	w.logger.Info("cover letter generated",
		zap.String("job_title", req.JobTitle),
		zap.String("company", req.Company),
		zap.Int("characters", utf8.RuneCountInString(text)),
		zap.String("requested_language", requested),
		zap.String("detected_language", actual),
		zap.String("preview", util.TruncateForLog(text, w.maxLogLen)),
	)

	return &ai.CoverLetter{
		CoverLetter: text,
		GeneratedAt: w.now().Format(time.RFC3339),
		JobTitle:    req.JobTitle,
		Company:     req.Company,
		WordCount:   len(strings.Fields(text)),
		Language:    actual,
	}, nil
}

// resolveLanguage maps the requested language to a template choice. Only an
// explicit "en" selects English; everything else falls back to French.
func resolveLanguage(language string) string {
	if strings.EqualFold(strings.TrimSpace(language), LanguageEnglish) {
		return LanguageEnglish
	}
	return LanguageFrench
}

func buildLetterPrompt(cv string, req *ai.LetterRequest, language string) string {
	template := letterPromptFR
	description := req.Description
	if description == "" {
		description = "Non fournie"
	}

	if language == LanguageEnglish {
		template = letterPromptEN
		if req.Description == "" {
			description = "Not provided"
		}
	}

	missing := req.MissingSkills
	if len(missing) > letterMissingSkillsLimit {
		missing = missing[:letterMissingSkillsLimit]
	}

	prompt := strings.ReplaceAll(template, "{{CV}}", cv)
	prompt = strings.ReplaceAll(prompt, "{{JOB_TITLE}}", req.JobTitle)
	prompt = strings.ReplaceAll(prompt, "{{COMPANY}}", req.Company)
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", description)
	prompt = strings.ReplaceAll(prompt, "{{MATCHING_SKILLS}}", strings.Join(req.MatchingSkills, ", "))
	prompt = strings.ReplaceAll(prompt, "{{MISSING_SKILLS}}", strings.Join(missing, ", "))

	return prompt
}

// sniffOutputLanguage inspects the opening of the generated text for
// language-indicative keywords. Informational only: a mismatch with the
// requested language is reported, never corrected.
func sniffOutputLanguage(text, requested string) string {
	opening := strings.ToLower(text)
	if runes := []rune(opening); len(runes) > languageSniffRunes {
		opening = string(runes[:languageSniffRunes])
	}

	for _, word := range frenchOutputKeywords {
		if strings.Contains(opening, word) {
			return LanguageFrench
		}
	}
	for _, word := range englishOutputKeywords {
		if strings.Contains(opening, word) {
			return LanguageEnglish
		}
	}

	return requested
}
