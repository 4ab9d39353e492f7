package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func score(v float64) *float64 { return &v }

func TestCalculateStatisticsEmpty(t *testing.T) {
	assert.Equal(t, Statistics{}, CalculateStatistics(nil))
	assert.Equal(t, Statistics{}, CalculateStatistics([]Job{}))
}

func TestCalculateStatistics(t *testing.T) {
	jobs := []Job{
		{OverallScore: score(80), SkillsMatchScore: 32},
		{OverallScore: score(70), SkillsMatchScore: 28},
		{OverallScore: score(60), SkillsMatchScore: 24},
	}

	stats := CalculateStatistics(jobs)

	assert.Equal(t, 3, stats.TotalJobs)
	assert.Equal(t, 70.0, stats.AvgScore)
	assert.Equal(t, 1, stats.HighPriority)
	assert.Equal(t, 1, stats.MediumPriority)
	assert.Equal(t, 1, stats.LowPriority)
	// (32+28+24)/3 = 28 on the 0-40 scale, 70% once rescaled.
	assert.Equal(t, 70.0, stats.AvgSkillsMatch)
}

func TestCalculateStatisticsUnscoredJobs(t *testing.T) {
	jobs := []Job{
		{OverallScore: score(90), SkillsMatchScore: 40},
		{SkillsMatchScore: 0}, // no overall_score in the record
	}

	stats := CalculateStatistics(jobs)

	assert.Equal(t, 2, stats.TotalJobs)
	// The unscored job is excluded from the score average but still counts
	// toward the skills-match denominator.
	assert.Equal(t, 90.0, stats.AvgScore)
	assert.Equal(t, 1, stats.HighPriority)
	assert.Equal(t, 0, stats.LowPriority)
	assert.Equal(t, 50.0, stats.AvgSkillsMatch)
}

func TestCalculateStatisticsBoundaries(t *testing.T) {
	jobs := []Job{
		{OverallScore: score(75)},
		{OverallScore: score(65)},
		{OverallScore: score(64.9)},
	}

	stats := CalculateStatistics(jobs)

	assert.Equal(t, 1, stats.HighPriority)
	assert.Equal(t, 1, stats.MediumPriority)
	assert.Equal(t, 1, stats.LowPriority)
}

func TestTopMissingSkills(t *testing.T) {
	jobs := []Job{
		{MissingSkills: []string{"AWS", "Docker"}},
		{MissingSkills: []string{"AWS", "Kubernetes"}},
		{MissingSkills: []string{"Docker", "AWS"}},
	}

	top := TopMissingSkills(jobs, 2)

	assert.Equal(t, []SkillCount{
		{Skill: "AWS", Count: 3},
		{Skill: "Docker", Count: 2},
	}, top)
}

func TestTopMissingSkillsFrequencyOrder(t *testing.T) {
	jobs := []Job{
		{MissingSkills: []string{"AWS", "Docker"}},
		{MissingSkills: []string{"AWS"}},
		{MissingSkills: []string{"Docker", "K8s"}},
	}

	top := TopMissingSkills(jobs, 10)

	assert.Equal(t, []SkillCount{
		{Skill: "AWS", Count: 2},
		{Skill: "Docker", Count: 2},
		{Skill: "K8s", Count: 1},
	}, top)
}

func TestTopMissingSkillsTieKeepsFirstSeenOrder(t *testing.T) {
	jobs := []Job{
		{MissingSkills: []string{"Docker", "AWS"}},
		{MissingSkills: []string{"AWS", "Docker"}},
	}

	top := TopMissingSkills(jobs, 10)

	assert.Equal(t, []SkillCount{
		{Skill: "Docker", Count: 2},
		{Skill: "AWS", Count: 2},
	}, top)
}

func TestTopMissingSkillsEmpty(t *testing.T) {
	assert.Nil(t, TopMissingSkills(nil, 5))
	assert.Nil(t, TopMissingSkills([]Job{{MissingSkills: []string{"AWS"}}}, 0))
}

func TestSortByScore(t *testing.T) {
	jobs := []Job{
		{Title: "low", OverallScore: score(50)},
		{Title: "unscored"},
		{Title: "high", OverallScore: score(90)},
	}

	sorted := SortByScore(jobs)

	assert.Equal(t, "high", sorted[0].Title)
	assert.Equal(t, "low", sorted[1].Title)
	assert.Equal(t, "unscored", sorted[2].Title)

	// The input order is untouched.
	assert.Equal(t, "low", jobs[0].Title)
}
