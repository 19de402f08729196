package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

type Response struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	QuestionnaireID uint       `json:"questionnaire_id" gorm:"not null;index"`
	UserID          uint       `json:"user_id" gorm:"not null;index"`
	Answers         Answers    `json:"answers" gorm:"type:jsonb;not null"`
	StartedAt       *time.Time `json:"started_at" gorm:"index"`
	SubmittedAt     *time.Time `json:"submitted_at" gorm:"index"`
	CompletionTime  *float64   `json:"completion_time"` // seconds
}

func (Response) TableName() string {
	return "responses"
}

// IsSubmitted reports whether the response has left the in-progress state.
func (r *Response) IsSubmitted() bool {
	return r.SubmittedAt != nil
}

// Submit marks the response as submitted at the given instant.
func (r *Response) Submit(at time.Time) {
	r.SubmittedAt = &at
	r.SyncCompletionTime()
}

// SyncCompletionTime keeps CompletionTime present iff both timestamps are,
// equal to their difference in seconds.
func (r *Response) SyncCompletionTime() {
	if r.StartedAt == nil || r.SubmittedAt == nil {
		r.CompletionTime = nil
		return
	}
	seconds := r.SubmittedAt.Sub(*r.StartedAt).Seconds()
	r.CompletionTime = &seconds
}

func (r *Response) BeforeSave(tx *gorm.DB) error {
	r.SyncCompletionTime()
	if r.Answers == nil {
		r.Answers = Answers{}
	}
	return nil
}

// Answer returns the answer for a question index, Absent when missing.
func (r *Response) Answer(index int) AnswerValue {
	return r.Answers[questionKey(index)]
}

func questionKey(index int) string {
	return strconv.Itoa(index)
}
