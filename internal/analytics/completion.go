package analytics

import (
	"math"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
)

// CompletionStats summarises how many responses were submitted and how long they took.
type CompletionStats struct {
	Total          int      `json:"total"`
	Completed      int      `json:"completed"`
	CompletionRate float64  `json:"completion_rate"`
	AverageTime    float64  `json:"average_time"`
	MinTime        *float64 `json:"min_time"`
	MaxTime        *float64 `json:"max_time"`
}

// ComputeCompletion counts submitted responses and aggregates completion times.
// In-progress responses count towards Total only.
func ComputeCompletion(responses []models.Response) CompletionStats {
	stats := CompletionStats{Total: len(responses)}

	times := completionTimes(responses)
	for i := range responses {
		if responses[i].IsSubmitted() {
			stats.Completed++
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}

	if len(times) == 0 {
		return stats
	}

	minTime, maxTime, sum := times[0], times[0], 0.0
	for _, t := range times {
		sum += t
		minTime = math.Min(minTime, t)
		maxTime = math.Max(maxTime, t)
	}
	stats.AverageTime = sum / float64(len(times))
	stats.MinTime = &minTime
	stats.MaxTime = &maxTime

	return stats
}

// ComputeCompletionTimeStdDev returns the sample standard deviation of the
// completion times, nil when fewer than two are present.
func ComputeCompletionTimeStdDev(responses []models.Response) *float64 {
	times := completionTimes(responses)
	n := len(times)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, t := range times {
		mean += t
	}
	mean /= float64(n)

	sumSq := 0.0
	for _, t := range times {
		d := t - mean
		sumSq += d * d
	}
	std := math.Sqrt(sumSq / float64(n-1))
	return &std
}

func completionTimes(responses []models.Response) []float64 {
	times := make([]float64, 0, len(responses))
	for i := range responses {
		if t := responses[i].CompletionTime; t != nil && isFinite(*t) {
			times = append(times, *t)
		}
	}
	return times
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
