package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/models"
)

// EventType defines the type of event
type EventType string

const (
	// Resolution events
	EventTypeOrderResolved   EventType = "order.resolved"
	EventTypeItemResolved    EventType = "item.resolved"
	EventTypeItemNeedsReview EventType = "item.needs_review"

	// Learning events
	EventTypeAliasLearned     EventType = "alias.learned"
	EventTypeSelectionLearned EventType = "selection.learned"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// OrderResolvedEvent is emitted once per processed order, whatever its status
type OrderResolvedEvent struct {
	BaseEvent
	Status     string                  `json:"status"`
	Client     models.ClientResolution `json:"client"`
	Items      []models.ItemResolution `json:"items"`
	LineCount  int                     `json:"line_count"`
	Unresolved int                     `json:"unresolved_count"`
}

// ItemResolvedEvent is emitted when a line auto-confirms
type ItemResolvedEvent struct {
	BaseEvent
	ClientCode string  `json:"client_code,omitempty"`
	Name       string  `json:"name"`
	Qty        int     `json:"qty"`
	ItemNo     string  `json:"item_no"`
	ItemName   string  `json:"item_name"`
	Score      float64 `json:"score"`
	Method     string  `json:"method"`
}

// ItemNeedsReviewEvent is emitted when a line goes to human review
type ItemNeedsReviewEvent struct {
	BaseEvent
	ClientCode         string                   `json:"client_code,omitempty"`
	Name               string                   `json:"name"`
	Qty                int                      `json:"qty"`
	NotInClientHistory bool                     `json:"not_in_client_history,omitempty"`
	Candidates         []models.ScoredCandidate `json:"candidates,omitempty"`
}

// AliasLearnedEvent is emitted when a confirmation lands in the alias table
type AliasLearnedEvent struct {
	BaseEvent
	Alias      string `json:"alias"`
	ItemNo     string `json:"item_no"`
	ItemName   string `json:"item_name,omitempty"`
	ClientCode string `json:"client_code,omitempty"`
}

// SelectionLearnedEvent is emitted when a candidate pick is recorded
type SelectionLearnedEvent struct {
	BaseEvent
	SearchKey string `json:"search_key"`
	ItemNo    string `json:"item_no"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		EventType:     eventType,
		SchemaVersion: SchemaVersion,
		Timestamp:     time.Now().UTC(),
		CorrelationID: uuid.New().String(),
	}
}
