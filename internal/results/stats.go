package results

import (
	"math"
	"sort"
)

const (
	highScoreThreshold   = 75
	mediumScoreThreshold = 65

	// Skills Match is reported on a 0-40 scale by the scoring prompt.
	skillsMatchScale = 40
)

// Statistics summarizes a batch of scored jobs for the dashboard.
type Statistics struct {
	TotalJobs      int     `json:"total_jobs"`
	AvgScore       float64 `json:"avg_score"`
	HighPriority   int     `json:"high_priority"`
	MediumPriority int     `json:"medium_priority"`
	LowPriority    int     `json:"low_priority"`
	AvgSkillsMatch float64 `json:"avg_skills_match"`
}

// SkillCount is one entry of the top-missing-skills ranking.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// CalculateStatistics aggregates the batch. Scores partition into
// high (>=75), medium ([65,75)) and low (<65); the skills-match average is
// rescaled from its 0-40 scale to a percentage. An empty batch yields
// all-zero aggregates.
func CalculateStatistics(jobs []Job) Statistics {
	if len(jobs) == 0 {
		return Statistics{}
	}

	var (
		scoreSum  float64
		scored    int
		high      int
		medium    int
		low       int
		skillsSum float64
	)

	for _, job := range jobs {
		skillsSum += job.SkillsMatchScore

		if !job.HasScore() {
			continue
		}

		score := job.Score()
		scoreSum += score
		scored++

		switch {
		case score >= highScoreThreshold:
			high++
		case score >= mediumScoreThreshold:
			medium++
		default:
			low++
		}
	}

	stats := Statistics{
		TotalJobs:      len(jobs),
		HighPriority:   high,
		MediumPriority: medium,
		LowPriority:    low,
		AvgSkillsMatch: round1(skillsSum / float64(len(jobs)) / skillsMatchScale * 100),
	}
	if scored > 0 {
		stats.AvgScore = round1(scoreSum / float64(scored))
	}

	return stats
}

// TopMissingSkills counts every missing skill across the batch and returns
// the n most frequent. Ties keep first-encountered order.
func TopMissingSkills(jobs []Job, n int) []SkillCount {
	if len(jobs) == 0 || n <= 0 {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string

	for _, job := range jobs {
		for _, skill := range job.MissingSkills {
			if _, ok := counts[skill]; !ok {
				firstSeen[skill] = len(order)
				order = append(order, skill)
			}
			counts[skill]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}

	top := make([]SkillCount, 0, len(order))
	for _, skill := range order {
		top = append(top, SkillCount{Skill: skill, Count: counts[skill]})
	}

	return top
}

// SortByScore orders jobs by overall score descending, treating a missing
// score as 0. The input slice is not modified.
func SortByScore(jobs []Job) []Job {
	sorted := make([]Job, len(jobs))
	copy(sorted, jobs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score() > sorted[j].Score()
	})

	return sorted
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
