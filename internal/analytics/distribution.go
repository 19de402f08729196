package analytics

import (
	"sort"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
)

// Frequencies counts how often each raw answer value was given.
type Frequencies map[string]int

// AnswerDistribution maps raw question-index keys to their answer frequencies.
type AnswerDistribution map[string]Frequencies

type QuestionStatistics struct {
	QuestionID         int                 `json:"question_id"`
	QuestionText       string              `json:"question_text"`
	Type               models.QuestionType `json:"type"`
	OptionDistribution Frequencies         `json:"option_distribution"`
	ResponseRate       float64             `json:"response_rate"`
}

type QuestionAnalysis struct {
	QuestionText         string              `json:"question_text"`
	Type                 models.QuestionType `json:"type"`
	ResponseDistribution Frequencies         `json:"response_distribution"`
	ResponseCount        int                 `json:"response_count"`
	UniqueAnswers        int                 `json:"unique_answers"`
	MostCommon           *string             `json:"most_common,omitempty"`
	LeastCommon          *string             `json:"least_common,omitempty"`
}

// ComputeAnswerDistribution builds the schema-agnostic view: every key seen in
// any answer map, including keys no longer present in the schema.
func ComputeAnswerDistribution(responses []models.Response) AnswerDistribution {
	dist := AnswerDistribution{}
	for i := range responses {
		for key, value := range responses[i].Answers {
			if value.IsAbsent() {
				continue
			}
			freq, ok := dist[key]
			if !ok {
				freq = Frequencies{}
				dist[key] = freq
			}
			freq[value.String()]++
		}
	}
	return dist
}

// ComputeQuestionStatistics builds the schema-bound view for choice-based questions.
// ResponseRate is the number of distinct answers over the total number of
// responses, not the share of respondents who answered.
func ComputeQuestionStatistics(questions []models.Question, responses []models.Response) []QuestionStatistics {
	total := len(responses)
	stats := make([]QuestionStatistics, 0, len(questions))

	for _, q := range models.SortedQuestions(questions) {
		if !q.Type.IsChoiceBased() {
			continue
		}

		t := tallyQuestion(q, responses)
		rate := 0.0
		if total > 0 {
			rate = float64(len(t.counts)) / float64(total)
		}

		stats = append(stats, QuestionStatistics{
			QuestionID:         q.Index,
			QuestionText:       q.Text,
			Type:               q.Type,
			OptionDistribution: t.counts,
			ResponseRate:       rate,
		})
	}

	return stats
}

// ComputeQuestionAnalysis describes every schema question answered at least once.
// Most and least common answers are reported for choice-based questions only;
// ties go to the answer observed first.
func ComputeQuestionAnalysis(questions []models.Question, responses []models.Response) map[string]QuestionAnalysis {
	analysis := make(map[string]QuestionAnalysis)

	for _, q := range models.SortedQuestions(questions) {
		t := tallyQuestion(q, responses)
		if t.answered == 0 {
			continue
		}

		qa := QuestionAnalysis{
			QuestionText:         q.Text,
			Type:                 q.Type,
			ResponseDistribution: t.counts,
			ResponseCount:        t.answered,
			UniqueAnswers:        len(t.counts),
		}
		if q.Type.IsChoiceBased() {
			most, least := t.extremes()
			qa.MostCommon = &most
			qa.LeastCommon = &least
		}

		analysis[q.Key()] = qa
	}

	return analysis
}

type tally struct {
	counts   Frequencies
	order    []string
	answered int
}

func tallyQuestion(q models.Question, responses []models.Response) *tally {
	t := &tally{counts: Frequencies{}}
	key := q.Key()
	for i := range responses {
		value, ok := responses[i].Answers[key]
		if !ok || value.IsAbsent() {
			continue
		}
		raw := value.String()
		if _, seen := t.counts[raw]; !seen {
			t.order = append(t.order, raw)
		}
		t.counts[raw]++
		t.answered++
	}
	return t
}

// ranked orders answers by count descending, keeping first-seen order on ties.
func (t *tally) ranked() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	sort.SliceStable(out, func(i, j int) bool {
		return t.counts[out[i]] > t.counts[out[j]]
	})
	return out
}

// extremes returns the most and least frequent answers. Both resolve ties to
// the earliest observation. The tally must not be empty.
func (t *tally) extremes() (most, least string) {
	ranked := t.ranked()
	most = ranked[0]
	lowest := t.counts[ranked[len(ranked)-1]]
	for _, raw := range t.order {
		if t.counts[raw] == lowest {
			return most, raw
		}
	}
	return most, ranked[len(ranked)-1]
}
