package analytics

import (
	"time"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
)

var baseTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func submittedResponse(id uint, answers models.Answers, started time.Time, seconds float64) models.Response {
	r := models.Response{
		ID:              id,
		QuestionnaireID: 1,
		UserID:          id,
		Answers:         answers,
		StartedAt:       &started,
	}
	r.Submit(started.Add(time.Duration(seconds * float64(time.Second))))
	return r
}

func inProgressResponse(id uint, answers models.Answers, started time.Time) models.Response {
	return models.Response{
		ID:              id,
		QuestionnaireID: 1,
		UserID:          id,
		Answers:         answers,
		StartedAt:       &started,
	}
}

func str(s string) models.AnswerValue { return models.StringAnswer(s) }

func num(n float64) models.AnswerValue { return models.NumberAnswer(n) }

func choiceQuestion(index int, text string, options ...string) models.Question {
	return models.Question{Index: index, Text: text, Type: models.QuestionTypeMultipleChoice, Options: options}
}

// scenarioA: one multiple-choice question answered Yes, No, Yes in 10, 20 and 30 seconds.
func scenarioA() ([]models.Question, []models.Response) {
	questions := []models.Question{choiceQuestion(0, "Do you like it?", "Yes", "No")}
	responses := []models.Response{
		submittedResponse(1, models.Answers{"0": str("Yes")}, baseTime, 10),
		submittedResponse(2, models.Answers{"0": str("No")}, baseTime.Add(time.Hour), 20),
		submittedResponse(3, models.Answers{"0": str("Yes")}, baseTime.Add(26*time.Hour), 30),
	}
	return questions, responses
}
