package ai

import "context"

// JobPosting is the job side of every AI operation. It mirrors the wire
// fields accepted by the analyze endpoint.
type JobPosting struct {
	Title       string `json:"job_title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Description string `json:"job_description"`
	URL         string `json:"job_url,omitempty"`
}

// Breakdown holds the per-dimension points reported by the model.
// The scales (40/30/20/10) are fixed by the scoring prompt. Their sum is
// advisory only and never validated against OverallScore.
type Breakdown struct {
	SkillsMatch     float64 `json:"skills_match"`
	ExperienceLevel float64 `json:"experience_level"`
	DomainIndustry  float64 `json:"domain_industry"`
	OtherFactors    float64 `json:"other_factors"`
}

// JobData carries the original job identifiers attached to an analysis.
type JobData struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	URL      string `json:"url,omitempty"`
}

// FitAnalysis is the structured score produced for one job against the
// fixed candidate CV. Never mutated after creation, only replaced wholesale.
type FitAnalysis struct {
	OverallScore   float64   `json:"overall_score"`
	Breakdown      Breakdown `json:"breakdown"`
	MatchingSkills []string  `json:"matching_skills"`
	MissingSkills  []string  `json:"missing_skills"`
	Recommendation string    `json:"recommendation"`
	Priority       string    `json:"priority"`
	ShouldApply    bool      `json:"should_apply"`
	JobData        JobData   `json:"job_data"`
	Raw            string    `json:"-"`
}

// LetterRequest describes one cover-letter generation.
type LetterRequest struct {
	JobTitle       string   `json:"job_title"`
	Company        string   `json:"company"`
	Description    string   `json:"job_description"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
	Language       string   `json:"language"`
}

// CoverLetter is the generated letter with its metadata. Language is the
// language detected in the output, which may differ from the requested one.
type CoverLetter struct {
	CoverLetter string `json:"cover_letter"`
	GeneratedAt string `json:"generated_at"`
	JobTitle    string `json:"job_title"`
	Company     string `json:"company"`
	WordCount   int    `json:"word_count"`
	Language    string `json:"language"`
	Filepath    string `json:"filepath,omitempty"`
}

type Analyzer interface {
	AnalyzeFit(ctx context.Context, cv string, job *JobPosting) (*FitAnalysis, error)
}

type LetterWriter interface {
	GenerateLetter(ctx context.Context, cv string, req *LetterRequest) (*CoverLetter, error)
}
