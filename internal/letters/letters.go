// Package letters persists generated cover letters and classifies the
// language of raw posting text.
package letters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"job-agent/internal/ai"
)

var frenchPostingIndicators = []string{"nous", "recherchons", "poste", "vous", "entreprise", "équipe"}

var englishPostingIndicators = []string{"we", "looking", "position", "you", "company", "team"}

// DetectPostingLanguage classifies raw job-posting text as French or English
// by counting indicator words. Ties resolve to English.
func DetectPostingLanguage(text string) string {
	lower := strings.ToLower(text)

	french := 0
	for _, word := range frenchPostingIndicators {
		if strings.Contains(lower, word) {
			french++
		}
	}

	english := 0
	for _, word := range englishPostingIndicators {
		if strings.Contains(lower, word) {
			english++
		}
	}

	if french > english {
		return "fr"
	}
	return "en"
}

// Save writes the letter with a metadata header to
// <dir>/cover_letter_<company>_<title>.txt and returns the path.
func Save(dir string, letter *ai.CoverLetter) (string, error) {
	if letter == nil {
		return "", fmt.Errorf("cover letter is required")
	}

	filename := fmt.Sprintf("cover_letter_%s_%s.txt",
		sanitize(letter.Company), sanitize(letter.JobTitle))
	path := filepath.Join(dir, filename)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create letters directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cover Letter for %s at %s\n", letter.JobTitle, letter.Company)
	fmt.Fprintf(&b, "Generated: %s\n", letter.GeneratedAt)
	fmt.Fprintf(&b, "Word Count: %d\n", letter.WordCount)
	b.WriteString("\n" + strings.Repeat("=", 80) + "\n\n")
	b.WriteString(letter.CoverLetter)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write cover letter: %w", err)
	}

	return path, nil
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "/", "_")
}
