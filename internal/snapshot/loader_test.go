package snapshot

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/SAP-F-2025/questionnaire-analytics/internal/errors"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestLoader() *Loader {
	return NewLoader(slog.New(slog.NewTextHandler(io.Discard, nil)), validator.New())
}

const questionnaireDoc = `{
	"title": "Team survey",
	"created_by": "owner-1",
	"questions": [
		{"index": 0, "text": "Happy?", "type": "multiple_choice", "options": ["Yes", "No"]},
		{"index": 1, "text": "Score", "type": "rating"}
	]
}`

func TestLoadQuestionnaire(t *testing.T) {
	questionnaire, err := newTestLoader().LoadQuestionnaire(strings.NewReader(questionnaireDoc))

	require.NoError(t, err)
	assert.Equal(t, "Team survey", questionnaire.Title)
	require.Len(t, questionnaire.Questions, 2)
	assert.Equal(t, models.QuestionTypeRating, questionnaire.Questions[1].Type)
}

func TestLoadQuestionnaire_InvalidSchema(t *testing.T) {
	doc := `{"title": "Broken", "questions": [{"index": 0, "text": "Pick", "type": "dropdown"}]}`

	_, err := newTestLoader().LoadQuestionnaire(strings.NewReader(doc))

	var validationErrs apperrors.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Equal(t, "questions[0].options", validationErrs[0].Field)
}

func TestLoadQuestionnaire_MalformedJSON(t *testing.T) {
	_, err := newTestLoader().LoadQuestionnaire(strings.NewReader(`{"title":`))
	assert.Error(t, err)
}

func TestLoadResponses_JSON(t *testing.T) {
	doc := `[
		{"id": 2, "user_id": 8, "answers": {"0": "No", "1": 3},
		 "started_at": "2025-03-10T09:00:00Z", "submitted_at": "2025-03-10T09:00:20Z"},
		{"id": 1, "user_id": 7, "answers": {"0": "Yes", "1": null}, "started_at": "2025-03-10T10:00:00Z", "completion_time": 99}
	]`

	responses, summary, err := newTestLoader().LoadResponses(strings.NewReader(doc), FormatJSON)

	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, uint(1), responses[0].ID)
	// completion time without a submission is dropped
	assert.Nil(t, responses[0].CompletionTime)
	assert.True(t, responses[0].Answer(1).IsAbsent())

	require.NotNil(t, responses[1].CompletionTime)
	assert.InDelta(t, 20.0, *responses[1].CompletionTime, 1e-9)
	n, ok := responses[1].Answer(1).Number()
	assert.True(t, ok)
	assert.Equal(t, 3.0, n)

	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, "json", summary.Format)
}

func TestLoadResponses_CSV(t *testing.T) {
	doc := strings.Join([]string{
		"response_id,user_id,started_at,submitted_at,q0,q1,notes",
		"3,30,2025-03-10 09:00:00,2025-03-10 09:00:45,Yes,4,ignored",
		"1,10,2025-03-10T08:00:00Z,,No,,",
		"",
		"x,11,,,Yes,2,",
		"2,20,not-a-date,,Yes,5,",
	}, "\n")

	responses, summary, err := newTestLoader().LoadResponses(strings.NewReader(doc), FormatCSV)

	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, uint(1), responses[0].ID)
	assert.Equal(t, uint(3), responses[1].ID)

	assert.Equal(t, models.Answers{"0": models.StringAnswer("No")}, responses[0].Answers)
	assert.False(t, responses[0].IsSubmitted())

	require.NotNil(t, responses[1].CompletionTime)
	assert.InDelta(t, 45.0, *responses[1].CompletionTime, 1e-9)
	assert.Equal(t, time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC), *responses[1].StartedAt)
	assert.NotContains(t, responses[1].Answers, "notes")

	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 2, summary.ErrorCount)
	require.Len(t, summary.Errors, 2)
	assert.Equal(t, "INVALID_ID", summary.Errors[0].Code)
	assert.Equal(t, 4, summary.Errors[0].Row)
	assert.Equal(t, "INVALID_TIMESTAMP", summary.Errors[1].Code)
}

func TestLoadResponses_CSVMissingColumns(t *testing.T) {
	_, _, err := newTestLoader().LoadResponses(strings.NewReader("user_id,q0\n1,Yes\n"), FormatCSV)

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "headers", validationErr.Field)
}

func TestLoadResponses_Excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Response_ID", "User_ID", "Started_At", "Submitted_At", "0", "1"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{2, 5, "2025-03-10T09:00:00Z", "2025-03-10T09:01:00Z", "Maybe", 7}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{1, 4, "2025-03-11T09:00:00Z", "", "Yes"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	responses, summary, err := newTestLoader().LoadResponses(bytes.NewReader(buf.Bytes()), FormatExcel)

	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, uint(1), responses[0].ID)
	assert.Equal(t, models.Answers{"0": models.StringAnswer("Yes")}, responses[0].Answers)
	assert.Equal(t, "7", responses[1].Answer(1).String())
	require.NotNil(t, responses[1].CompletionTime)
	assert.InDelta(t, 60.0, *responses[1].CompletionTime, 1e-9)
	assert.Equal(t, "xlsx", summary.Format)
}

func TestLoadResponses_UnsupportedFormat(t *testing.T) {
	_, _, err := newTestLoader().LoadResponses(strings.NewReader(""), Format("parquet"))
	assert.Error(t, err)
}

func TestFormatFromFilename(t *testing.T) {
	tests := map[string]Format{
		"responses.json": FormatJSON,
		"responses.CSV":  FormatCSV,
		"export.xlsx":    FormatExcel,
	}
	for name, expected := range tests {
		format, err := FormatFromFilename(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, format, name)
	}

	_, err := FormatFromFilename("responses.txt")
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	questionnairePath := filepath.Join(dir, "questionnaire.json")
	responsesPath := filepath.Join(dir, "responses.csv")
	require.NoError(t, os.WriteFile(questionnairePath, []byte(questionnaireDoc), 0o600))
	require.NoError(t, os.WriteFile(responsesPath, []byte("response_id,user_id,0\n1,1,Yes\n"), 0o600))

	loader := newTestLoader()

	questionnaire, err := loader.LoadQuestionnaireFile(questionnairePath)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", questionnaire.CreatedBy)

	responses, summary, err := loader.LoadResponsesFile(responsesPath)
	require.NoError(t, err)
	assert.Len(t, responses, 1)
	assert.Equal(t, responsesPath, summary.Source)

	_, err = loader.LoadQuestionnaireFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
