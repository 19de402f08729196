package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of domain events the service exchanges
type EventType string

const (
	// Published after analytics are computed
	EventSummaryGenerated EventType = "analytics.summary_generated"
	EventExportGenerated  EventType = "analytics.export_generated"

	// Consumed from the response intake service
	EventResponseSubmitted EventType = "response.submitted"
)

const (
	eventSource  = "questionnaire-analytics"
	eventVersion = "1.0"
)

// Event is the envelope shared by every event on the bus
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SummaryGeneratedEvent struct {
	QuestionnaireID    uint    `json:"questionnaire_id"`
	RequestedBy        string  `json:"requested_by"`
	TotalResponses     int     `json:"total_responses"`
	CompletedResponses int     `json:"completed_responses"`
	CompletionRate     float64 `json:"completion_rate"`
	Cached             bool    `json:"cached"`
}

type ExportGeneratedEvent struct {
	QuestionnaireID uint   `json:"questionnaire_id"`
	RequestedBy     string `json:"requested_by"`
	Format          string `json:"format"`
	RowCount        int    `json:"row_count"`
}

type ResponseSubmittedEvent struct {
	ResponseID      uint      `json:"response_id"`
	QuestionnaireID uint      `json:"questionnaire_id"`
	UserID          uint      `json:"user_id"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

func NewSummaryGeneratedEvent(payload SummaryGeneratedEvent) *Event {
	return newEvent(EventSummaryGenerated, payload)
}

func NewExportGeneratedEvent(payload ExportGeneratedEvent) *Event {
	return newEvent(EventExportGenerated, payload)
}

func NewResponseSubmittedEvent(payload ResponseSubmittedEvent) *Event {
	return newEvent(EventResponseSubmitted, payload)
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// DecodeResponseSubmitted parses a response.submitted envelope
func DecodeResponseSubmitted(payload []byte) (*ResponseSubmittedEvent, error) {
	var envelope struct {
		Type EventType       `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode event envelope: %w", err)
	}
	if envelope.Type != EventResponseSubmitted {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedEventType, envelope.Type)
	}

	var event ResponseSubmittedEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		return nil, fmt.Errorf("failed to decode response.submitted payload: %w", err)
	}
	if event.QuestionnaireID == 0 {
		return nil, fmt.Errorf("response.submitted payload is missing questionnaire_id")
	}
	return &event, nil
}
