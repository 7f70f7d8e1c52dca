package progress

import "sort"

// AverageScore returns the mean of the non-nil scores, rounded half up.
// Ungraded entries are skipped and an empty input averages to 0. Callers
// flatten per-item scores across courses first; averaging per-course
// averages would weight courses instead of activities.
func AverageScore(scores []*float64) int {
	var total float64
	var count int
	for _, score := range scores {
		if score == nil {
			continue
		}
		total += *score
		count++
	}
	if count == 0 {
		return 0
	}
	return RoundHalfUp(total / float64(count))
}

// FlattenScores concatenates per-course score lists into one sequence.
func FlattenScores(courses ...CourseProgress) []*float64 {
	size := 0
	for _, course := range courses {
		size += len(course.Scores)
	}
	flat := make([]*float64, 0, size)
	for _, course := range courses {
		flat = append(flat, course.Scores...)
	}
	return flat
}

// CompletionRate is the share of enrollments at 100%, rounded half up.
func CompletionRate(percentages []int) int {
	completed := 0
	for _, percentage := range percentages {
		if percentage >= 100 {
			completed++
		}
	}
	return Percentage(completed, len(percentages))
}

// MeanPercentage averages progress percentages, rounded half up.
func MeanPercentage(percentages []int) int {
	if len(percentages) == 0 {
		return 0
	}
	sum := 0
	for _, percentage := range percentages {
		sum += percentage
	}
	n := len(percentages)
	return (2*sum + n) / (2 * n)
}

// Standing is one student's leaderboard entry.
type Standing struct {
	StudentID   uint   `json:"student_id"`
	Name        string `json:"name"`
	Average     int    `json:"average_score"`
	GradedItems int    `json:"graded_items"`
}

// RankStandings orders standings by average descending, then name and id
// ascending, and keeps at most limit entries when limit is positive.
func RankStandings(standings []Standing, limit int) []Standing {
	ranked := append([]Standing(nil), standings...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Average != ranked[j].Average {
			return ranked[i].Average > ranked[j].Average
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].StudentID < ranked[j].StudentID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// CountGraded returns how many scores are present.
func CountGraded(scores []*float64) int {
	count := 0
	for _, score := range scores {
		if score != nil {
			count++
		}
	}
	return count
}
