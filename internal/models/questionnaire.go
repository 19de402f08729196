package models

import (
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeDropdown       QuestionType = "dropdown"
	QuestionTypeFreeText       QuestionType = "free_text"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeNumeric        QuestionType = "numeric"
)

// IsChoiceBased reports whether answers are picked from a declared option list.
func (t QuestionType) IsChoiceBased() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeDropdown
}

func (t QuestionType) IsKnown() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeDropdown, QuestionTypeFreeText,
		QuestionTypeRating, QuestionTypeNumeric:
		return true
	}
	return false
}

type Question struct {
	Index   int          `json:"index" validate:"min=0"`
	Text    string       `json:"text" validate:"required,max=1000"`
	Type    QuestionType `json:"type" validate:"required,question_type"`
	Options []string     `json:"options,omitempty" validate:"omitempty,dive,required,max=200"`
}

// Key is the answer-map key for this question.
func (q Question) Key() string {
	return questionKey(q.Index)
}

type Questionnaire struct {
	ID          uint                          `json:"id" gorm:"primaryKey"`
	Title       string                        `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string                       `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Questions   datatypes.JSONSlice[Question] `json:"questions" gorm:"type:jsonb;not null" validate:"required,min=1,dive"`
	Settings    datatypes.JSON                `json:"settings" gorm:"type:jsonb"`

	CreatedBy string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Responses []Response `json:"-" gorm:"foreignKey:QuestionnaireID"`
}

func (Questionnaire) TableName() string {
	return "questionnaires"
}

// Schema returns a copy of the questions ordered by index.
func (q *Questionnaire) Schema() []Question {
	return SortedQuestions(q.Questions)
}

// SortedQuestions returns a copy of questions ordered by index.
func SortedQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}
