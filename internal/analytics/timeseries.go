package analytics

import (
	"sort"
	"time"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
)

const dateLayout = "2006-01-02"

// TimeField selects which response timestamp a series is bucketed on.
type TimeField int

const (
	TimeFieldStarted TimeField = iota
	TimeFieldSubmitted
)

func (f TimeField) String() string {
	if f == TimeFieldSubmitted {
		return "submitted_at"
	}
	return "started_at"
}

type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ComputeTimeSeries counts responses per UTC calendar date of the selected
// timestamp. Responses without that timestamp are left out and dates without
// responses are not emitted.
func ComputeTimeSeries(responses []models.Response, field TimeField) []TimeSeriesPoint {
	counts := make(map[string]int)
	for i := range responses {
		ts := timestampOf(&responses[i], field)
		if ts == nil {
			continue
		}
		counts[ts.UTC().Format(dateLayout)]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]TimeSeriesPoint, 0, len(days))
	for _, day := range days {
		series = append(series, TimeSeriesPoint{Date: day, Count: counts[day]})
	}
	return series
}

func timestampOf(r *models.Response, field TimeField) *time.Time {
	if field == TimeFieldSubmitted {
		return r.SubmittedAt
	}
	return r.StartedAt
}
