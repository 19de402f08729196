package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		kind AnswerKind
		text string
	}{
		{"null is absent", `null`, AnswerAbsent, ""},
		{"string", `"Yes"`, AnswerString, "Yes"},
		{"numeric string stays a string", `"42"`, AnswerString, "42"},
		{"integer", `5`, AnswerNumber, "5"},
		{"negative float", `-2.5`, AnswerNumber, "-2.5"},
		{"bool becomes text", `true`, AnswerString, "true"},
		{"array becomes compact text", `[1, "a"]`, AnswerString, `[1,"a"]`},
		{"object becomes compact text", `{"a": 1}`, AnswerString, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v AnswerValue
			require.NoError(t, json.Unmarshal([]byte(tt.json), &v))
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.text, v.String())
		})
	}
}

func TestAnswerValue_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Answers{
		"0": StringAnswer("Yes"),
		"1": NumberAnswer(3),
		"2": AbsentAnswer(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"0":"Yes","1":3,"2":null}`, string(data))
}

func TestAnswers_Scan(t *testing.T) {
	var a Answers
	require.NoError(t, a.Scan([]byte(`{"0":"No","1":7}`)))
	assert.Equal(t, Answers{"0": StringAnswer("No"), "1": NumberAnswer(7)}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	assert.Error(t, a.Scan(42))
}

func TestResponse_Submit(t *testing.T) {
	started := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	r := Response{StartedAt: &started}
	assert.False(t, r.IsSubmitted())

	r.Submit(started.Add(90 * time.Second))

	assert.True(t, r.IsSubmitted())
	require.NotNil(t, r.CompletionTime)
	assert.Equal(t, 90.0, *r.CompletionTime)
}

func TestResponse_SyncCompletionTime(t *testing.T) {
	stale := 12.0
	submitted := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	r := Response{SubmittedAt: &submitted, CompletionTime: &stale}

	r.SyncCompletionTime()

	assert.Nil(t, r.CompletionTime)
}

func TestResponse_Answer(t *testing.T) {
	r := Response{Answers: Answers{"2": StringAnswer("x")}}

	assert.Equal(t, "x", r.Answer(2).String())
	assert.True(t, r.Answer(0).IsAbsent())
	assert.True(t, (&Response{}).Answer(1).IsAbsent())
}

func TestQuestionnaire_Schema(t *testing.T) {
	q := Questionnaire{Questions: []Question{
		{Index: 2, Text: "c", Type: QuestionTypeFreeText},
		{Index: 0, Text: "a", Type: QuestionTypeDropdown, Options: []string{"x"}},
	}}

	schema := q.Schema()

	assert.Equal(t, 0, schema[0].Index)
	assert.Equal(t, 2, schema[1].Index)
	assert.Equal(t, 2, q.Questions[0].Index, "stored order is untouched")
	assert.True(t, QuestionTypeDropdown.IsChoiceBased())
	assert.False(t, QuestionTypeRating.IsChoiceBased())
	assert.False(t, QuestionType("matrix").IsKnown())
}
