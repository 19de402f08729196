package cache

import "fmt"

const keyPrefix = "qa"

// View names one cached analytics payload
type View string

const (
	ViewStatistics View = "statistics"
	ViewAnalytics  View = "analytics"
	ViewSummary    View = "summary"
)

func AnalyticsKey(questionnaireID uint, view View) string {
	return fmt.Sprintf("%s:questionnaire:%d:%s", keyPrefix, questionnaireID, view)
}

// QuestionnairePattern matches every cached view of a questionnaire
func QuestionnairePattern(questionnaireID uint) string {
	return fmt.Sprintf("%s:questionnaire:%d:*", keyPrefix, questionnaireID)
}
