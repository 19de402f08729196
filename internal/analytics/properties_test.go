package analytics

import (
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
	"pgregory.net/rapid"
)

var choiceOptions = []string{"Yes", "No", "Maybe"}

func answerGen() *rapid.Generator[models.AnswerValue] {
	return rapid.Custom(func(t *rapid.T) models.AnswerValue {
		switch rapid.IntRange(0, 3).Draw(t, "kind") {
		case 0:
			return models.AbsentAnswer()
		case 1:
			return models.StringAnswer(rapid.SampledFrom(choiceOptions).Draw(t, "option"))
		case 2:
			return models.StringAnswer(strconv.Itoa(rapid.IntRange(-5, 5).Draw(t, "numericText")))
		default:
			return models.NumberAnswer(float64(rapid.IntRange(-50, 50).Draw(t, "number")))
		}
	})
}

func responseGen(questions int) *rapid.Generator[models.Response] {
	return rapid.Custom(func(t *rapid.T) models.Response {
		answers := models.Answers{}
		for q := 0; q < questions; q++ {
			if rapid.Bool().Draw(t, "answered") {
				answers[strconv.Itoa(q)] = answerGen().Draw(t, "answer")
			}
		}

		r := models.Response{Answers: answers}
		if rapid.IntRange(0, 4).Draw(t, "started") > 0 {
			started := baseTime.Add(time.Duration(rapid.IntRange(0, 10*24*60).Draw(t, "offsetMinutes")) * time.Minute)
			r.StartedAt = &started
			if rapid.Bool().Draw(t, "submitted") {
				r.Submit(started.Add(time.Duration(rapid.IntRange(0, 3600).Draw(t, "seconds")) * time.Second))
			}
		}
		return r
	})
}

func snapshotGen() *rapid.Generator[[]models.Response] {
	return rapid.Custom(func(t *rapid.T) []models.Response {
		questions := rapid.IntRange(1, 4).Draw(t, "questions")
		responses := rapid.SliceOfN(responseGen(questions), 0, 25).Draw(t, "responses")
		for i := range responses {
			responses[i].ID = uint(i + 1)
			responses[i].UserID = uint(i + 1)
		}
		return responses
	})
}

func schemaFor(n int) []models.Question {
	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			questions = append(questions, choiceQuestion(i, "Choice "+strconv.Itoa(i), choiceOptions...))
		} else {
			questions = append(questions, models.Question{Index: i, Text: "Numeric " + strconv.Itoa(i), Type: models.QuestionTypeNumeric})
		}
	}
	return questions
}

func TestProperty_CompletionBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		responses := snapshotGen().Draw(rt, "snapshot")
		stats := ComputeCompletion(responses)

		if stats.Total != len(responses) {
			rt.Fatalf("total %d, expected %d", stats.Total, len(responses))
		}
		if stats.Completed > stats.Total {
			rt.Fatalf("completed %d exceeds total %d", stats.Completed, stats.Total)
		}
		if stats.CompletionRate < 0 || stats.CompletionRate > 1 {
			rt.Fatalf("completion rate %f out of range", stats.CompletionRate)
		}
		if stats.MinTime != nil {
			if *stats.MinTime > stats.AverageTime+1e-9 || stats.AverageTime > *stats.MaxTime+1e-9 {
				rt.Fatalf("min %f avg %f max %f not ordered", *stats.MinTime, stats.AverageTime, *stats.MaxTime)
			}
		} else if stats.MaxTime != nil || stats.AverageTime != 0 {
			rt.Fatalf("time stats present without completion times")
		}
	})
}

func TestProperty_DistributionCountsAnsweredResponses(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		responses := snapshotGen().Draw(rt, "snapshot")
		questions := schemaFor(4)

		for _, qs := range ComputeQuestionStatistics(questions, responses) {
			answered := 0
			for i := range responses {
				if !responses[i].Answer(qs.QuestionID).IsAbsent() {
					answered++
				}
			}

			sum := 0
			for _, count := range qs.OptionDistribution {
				sum += count
			}
			if sum != answered {
				rt.Fatalf("question %d: distribution sums to %d, %d answered", qs.QuestionID, sum, answered)
			}
			if qs.ResponseRate < 0 || qs.ResponseRate > 1 {
				rt.Fatalf("question %d: response rate %f out of range", qs.QuestionID, qs.ResponseRate)
			}
		}
	})
}

func TestProperty_CorrelationSymmetricAndBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		responses := snapshotGen().Draw(rt, "snapshot")
		matrix := ComputeCorrelations(responses)

		for a, row := range matrix {
			if _, ok := row[a]; ok {
				rt.Fatalf("column %s correlated with itself", a)
			}
			for b, r := range row {
				mirror, ok := matrix[b][a]
				if !ok {
					rt.Fatalf("missing mirror entry %s/%s", b, a)
				}
				if (r == nil) != (mirror == nil) {
					rt.Fatalf("asymmetric nulls at %s/%s", a, b)
				}
				if r == nil {
					continue
				}
				if *r != *mirror {
					rt.Fatalf("asymmetric coefficient at %s/%s: %f vs %f", a, b, *r, *mirror)
				}
				if *r < -1 || *r > 1 {
					rt.Fatalf("coefficient %f out of range", *r)
				}
			}
		}
	})
}

func TestProperty_TimeSeriesSortedAndComplete(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		responses := snapshotGen().Draw(rt, "snapshot")

		for _, field := range []TimeField{TimeFieldStarted, TimeFieldSubmitted} {
			series := ComputeTimeSeries(responses, field)

			expected := 0
			for i := range responses {
				if timestampOf(&responses[i], field) != nil {
					expected++
				}
			}

			total := 0
			for i, point := range series {
				if point.Count <= 0 {
					rt.Fatalf("%s: non-positive count on %s", field, point.Date)
				}
				if i > 0 && series[i-1].Date >= point.Date {
					rt.Fatalf("%s: dates not strictly ascending at %d", field, i)
				}
				total += point.Count
			}
			if total != expected {
				rt.Fatalf("%s: series counts %d responses, expected %d", field, total, expected)
			}
		}
	})
}

func TestProperty_InputsAreNotMutated(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		responses := snapshotGen().Draw(rt, "snapshot")
		questions := schemaFor(4)

		before := cloneResponses(responses)
		schemaBefore := append([]models.Question(nil), questions...)

		BuildSummary(questions, responses)
		BuildStatistics(questions, responses)
		BuildResponseAnalytics(responses)

		if !reflect.DeepEqual(before, responses) {
			rt.Fatalf("responses mutated")
		}
		if !reflect.DeepEqual(schemaBefore, questions) {
			rt.Fatalf("questions mutated")
		}
	})
}

func cloneResponses(responses []models.Response) []models.Response {
	out := make([]models.Response, len(responses))
	for i, r := range responses {
		c := r
		if r.Answers != nil {
			c.Answers = make(models.Answers, len(r.Answers))
			for k, v := range r.Answers {
				c.Answers[k] = v
			}
		}
		out[i] = c
	}
	return out
}
