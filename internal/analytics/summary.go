// Package analytics turns a questionnaire's question schema and a snapshot of
// its responses into completion metrics, answer distributions, correlations and
// response-rate series. Every function is pure: inputs are never mutated and no
// I/O is performed.
package analytics

import (
	"bytes"
	"encoding/json"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
)

// ===== RESPONSE ANALYTICS =====

type ResponseCount struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

type CompletionTimeStats struct {
	AverageTime float64  `json:"average_time"`
	MinTime     *float64 `json:"min_time"`
	MaxTime     *float64 `json:"max_time"`
}

// ResponseAnalytics is the per-response-set payload. An empty snapshot yields
// the sentinel shape where every field is nil and response_count serialises as 0;
// check IsEmpty before reading fields.
type ResponseAnalytics struct {
	ResponseCount      *ResponseCount       `json:"response_count"`
	CompletionStats    *CompletionTimeStats `json:"completion_stats"`
	AnswerDistribution AnswerDistribution   `json:"answer_distribution"`
	TimeSeriesData     []TimeSeriesPoint    `json:"time_series_data"`
}

func (a ResponseAnalytics) IsEmpty() bool {
	return a.ResponseCount == nil
}

func (a ResponseAnalytics) MarshalJSON() ([]byte, error) {
	type plain ResponseAnalytics
	if !a.IsEmpty() {
		return json.Marshal(plain(a))
	}
	return json.Marshal(struct {
		ResponseCount      int                  `json:"response_count"`
		CompletionStats    *CompletionTimeStats `json:"completion_stats"`
		AnswerDistribution AnswerDistribution   `json:"answer_distribution"`
		TimeSeriesData     []TimeSeriesPoint    `json:"time_series_data"`
	}{})
}

func (a *ResponseAnalytics) UnmarshalJSON(data []byte) error {
	type plain ResponseAnalytics
	var raw struct {
		ResponseCount json.RawMessage `json:"response_count"`
		plain
	}
	// the embedded field's response_count is shadowed by the raw one
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = ResponseAnalytics(raw.plain)
	a.ResponseCount = nil

	trimmed := bytes.TrimSpace(raw.ResponseCount)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var count ResponseCount
	if err := json.Unmarshal(trimmed, &count); err != nil {
		return err
	}
	a.ResponseCount = &count
	return nil
}

// BuildResponseAnalytics assembles the response-analytics payload. The time
// series is bucketed on start time.
func BuildResponseAnalytics(responses []models.Response) ResponseAnalytics {
	if len(responses) == 0 {
		return ResponseAnalytics{}
	}

	completion := ComputeCompletion(responses)
	return ResponseAnalytics{
		ResponseCount: &ResponseCount{
			Total:          completion.Total,
			Completed:      completion.Completed,
			CompletionRate: completion.CompletionRate,
		},
		CompletionStats: &CompletionTimeStats{
			AverageTime: completion.AverageTime,
			MinTime:     completion.MinTime,
			MaxTime:     completion.MaxTime,
		},
		AnswerDistribution: ComputeAnswerDistribution(responses),
		TimeSeriesData:     ComputeTimeSeries(responses, TimeFieldStarted),
	}
}

// ===== QUESTIONNAIRE STATISTICS =====

// Statistics is the schema-bound per-questionnaire view. An empty snapshot
// yields zeroed fields and an empty question_stats list.
type Statistics struct {
	TotalResponses int                  `json:"total_responses"`
	Completed      int                  `json:"completed"`
	CompletionRate float64              `json:"completion_rate"`
	AverageTime    float64              `json:"average_time"`
	MinTime        *float64             `json:"min_time"`
	MaxTime        *float64             `json:"max_time"`
	QuestionStats  []QuestionStatistics `json:"question_stats"`
}

func BuildStatistics(questions []models.Question, responses []models.Response) Statistics {
	completion := ComputeCompletion(responses)
	return Statistics{
		TotalResponses: completion.Total,
		Completed:      completion.Completed,
		CompletionRate: completion.CompletionRate,
		AverageTime:    completion.AverageTime,
		MinTime:        completion.MinTime,
		MaxTime:        completion.MaxTime,
		QuestionStats:  ComputeQuestionStatistics(questions, responses),
	}
}

// ===== OPERATOR SUMMARY =====

type ResponseMetrics struct {
	TotalResponses        int               `json:"total_responses"`
	CompletedResponses    int               `json:"completed_responses"`
	CompletionRate        float64           `json:"completion_rate"`
	AverageCompletionTime *float64          `json:"average_completion_time"`
	CompletionTimeStdDev  *float64          `json:"completion_time_std"`
	ResponseRateOverTime  []TimeSeriesPoint `json:"response_rate_over_time"`
}

type Summary struct {
	ResponseMetrics     ResponseMetrics             `json:"response_metrics"`
	QuestionStats       []QuestionStatistics        `json:"question_stats"`
	QuestionAnalysis    map[string]QuestionAnalysis `json:"question_analysis"`
	CorrelationAnalysis CorrelationMatrix           `json:"correlation_analysis"`
}

func (s Summary) IsEmpty() bool {
	return s.ResponseMetrics.TotalResponses == 0
}

// BuildSummary assembles the operator-facing summary. The response-rate series
// is bucketed on submission time.
func BuildSummary(questions []models.Question, responses []models.Response) Summary {
	completion := ComputeCompletion(responses)

	metrics := ResponseMetrics{
		TotalResponses:       completion.Total,
		CompletedResponses:   completion.Completed,
		CompletionRate:       completion.CompletionRate,
		CompletionTimeStdDev: ComputeCompletionTimeStdDev(responses),
		ResponseRateOverTime: ComputeTimeSeries(responses, TimeFieldSubmitted),
	}
	if completion.MinTime != nil {
		avg := completion.AverageTime
		metrics.AverageCompletionTime = &avg
	}

	return Summary{
		ResponseMetrics:     metrics,
		QuestionStats:       ComputeQuestionStatistics(questions, responses),
		QuestionAnalysis:    ComputeQuestionAnalysis(questions, responses),
		CorrelationAnalysis: ComputeCorrelations(responses),
	}
}
