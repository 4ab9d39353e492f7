// Package results persists the last-saved batch of job analyses and computes
// the aggregate statistics shown on the dashboard.
package results

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Job is one flattened analysis record from the result file. OverallScore is
// a pointer so a record without a score can be told apart from a zero score.
type Job struct {
	Title            string         `json:"title" mapstructure:"title"`
	Company          string         `json:"company" mapstructure:"company"`
	Location         string         `json:"location" mapstructure:"location"`
	URL              string         `json:"url" mapstructure:"url"`
	Description      string         `json:"description" mapstructure:"description"`
	OverallScore     *float64       `json:"overall_score,omitempty" mapstructure:"overall_score"`
	SkillsMatchScore float64        `json:"skills_match_score" mapstructure:"skills_match_score"`
	MatchingSkills   []string       `json:"matching_skills" mapstructure:"matching_skills"`
	MissingSkills    []string       `json:"missing_skills" mapstructure:"missing_skills"`
	Priority         string         `json:"priority" mapstructure:"priority"`
	Recommendation   string         `json:"recommendation" mapstructure:"recommendation"`
	ShouldApply      bool           `json:"should_apply" mapstructure:"should_apply"`
	Extra            map[string]any `json:"-" mapstructure:",remain"`
}

// Score returns the overall score, treating a missing one as 0.
func (j Job) Score() float64 {
	if j.OverallScore == nil {
		return 0
	}
	return *j.OverallScore
}

// HasScore reports whether the record carries an overall_score at all.
func (j Job) HasScore() bool { return j.OverallScore != nil }

// Store reads and writes the on-disk result file. Concurrent writers are
// last-write-wins: acceptable for a single-operator tool.
type Store struct {
	path   string
	logger *zap.Logger
}

func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

// SaveRaw writes an arbitrary JSON payload verbatim to the result file and
// reports how many jobs it appears to contain (only the wrapped shape is
// counted, matching the save endpoint's contract).
func (s *Store) SaveRaw(payload []byte) (int, error) {
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return 0, fmt.Errorf("decode payload: %w", err)
	}

	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode payload: %w", err)
	}

	if err := os.WriteFile(s.path, pretty, 0o644); err != nil {
		return 0, fmt.Errorf("write result file: %w", err)
	}

	count := 0
	if list, ok := data.([]any); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]any); ok {
			if inner, ok := first["data"].([]any); ok {
				count = len(inner)
			}
		}
	}

	s.logger.Info("saved results",
		zap.Int("jobs", count),
		zap.String("filepath", s.path),
	)

	return count, nil
}

// SaveJobs writes a batch of records as a flat JSON list.
func (s *Store) SaveJobs(jobs any) error {
	pretty, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode jobs: %w", err)
	}

	if err := os.WriteFile(s.path, pretty, 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}

	return nil
}

// Load reads the result file and flattens it into job records. The file may
// be in any of three shapes; an unrecognized shape or any read error yields
// an empty list, never a failure.
func (s *Store) Load() []Job {
	raw, shape := s.loadRaw()
	if len(raw) == 0 {
		return nil
	}

	jobs := make([]Job, 0, len(raw))
	for _, item := range raw {
		var job Job
		cfg := &mapstructure.DecoderConfig{
			Result:           &job,
			WeaklyTypedInput: true,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			continue
		}
		if err := decoder.Decode(item); err != nil {
			s.logger.Warn("skipping undecodable job record", zap.Error(err))
			continue
		}
		jobs = append(jobs, job)
	}

	s.logger.Debug("loaded jobs from result file",
		zap.Int("count", len(jobs)),
		zap.String("shape", shape),
	)

	return jobs
}

// LoadRaw returns the flattened records without decoding, for endpoints that
// echo the stored data as-is.
func (s *Store) LoadRaw() []any {
	raw, _ := s.loadRaw()
	return raw
}

// loadRaw tries each known file shape in order:
//
//	[{"json": {"data": [...]}}]  n8n-wrapped
//	[{"data": [...]}]            data-wrapped
//	[{"overall_score": ...}]     flat list of records
func (s *Store) loadRaw() ([]any, string) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("result file does not exist", zap.String("filepath", s.path))
		} else {
			s.logger.Warn("reading result file", zap.Error(err))
		}
		return nil, ""
	}

	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		s.logger.Warn("result file is not valid JSON", zap.Error(err))
		return nil, ""
	}

	list, ok := data.([]any)
	if !ok || len(list) == 0 {
		s.logger.Warn("could not parse job data structure")
		return nil, ""
	}

	first, ok := list[0].(map[string]any)
	if !ok {
		s.logger.Warn("could not parse job data structure")
		return nil, ""
	}

	if wrapped, ok := first["json"].(map[string]any); ok {
		if inner, ok := wrapped["data"].([]any); ok {
			s.logger.Info("loaded jobs from result file",
				zap.Int("count", len(inner)),
				zap.String("shape", "n8n_wrapped"),
			)
			return inner, "n8n_wrapped"
		}
	}

	if inner, ok := first["data"].([]any); ok {
		s.logger.Info("loaded jobs from result file",
			zap.Int("count", len(inner)),
			zap.String("shape", "data_wrapped"),
		)
		return inner, "data_wrapped"
	}

	if _, ok := first["overall_score"]; ok {
		s.logger.Info("loaded jobs from result file",
			zap.Int("count", len(list)),
			zap.String("shape", "flat"),
		)
		return list, "flat"
	}

	s.logger.Warn("could not parse job data structure")
	return nil, ""
}
