package letters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"job-agent/internal/ai"
)

func TestDetectPostingLanguage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"french posting", "Nous recherchons un data scientist pour rejoindre notre équipe", "fr"},
		{"english posting", "We are looking for a data scientist to join our company team", "en"},
		{"tie resolves to english", "", "en"},
		{"mixed leans french", "Nous recherchons un poste pour vous dans notre entreprise avec notre équipe", "fr"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectPostingLanguage(tc.text); got != tc.want {
				t.Fatalf("DetectPostingLanguage(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "letters")

	letter := &ai.CoverLetter{
		CoverLetter: "Dear Hiring Manager,\n\nI am excited to apply.",
		GeneratedAt: "2026-08-30T12:00:00Z",
		JobTitle:    "Data Scientist / NLP",
		Company:     "Acme Corp",
		WordCount:   8,
	}

	path, err := Save(dir, letter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(path) != "cover_letter_Acme_Corp_Data_Scientist___NLP.txt" {
		t.Fatalf("unexpected filename: %s", filepath.Base(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved letter: %v", err)
	}

	text := string(content)
	for _, want := range []string{
		"Cover Letter for Data Scientist / NLP at Acme Corp",
		"Generated: 2026-08-30T12:00:00Z",
		"Word Count: 8",
		strings.Repeat("=", 80),
		"Dear Hiring Manager,",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected saved letter to contain %q", want)
		}
	}
}

func TestSaveNilLetter(t *testing.T) {
	if _, err := Save(t.TempDir(), nil); err == nil {
		t.Fatalf("expected an error for a nil letter")
	}
}
