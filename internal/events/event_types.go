package events

import (
	"time"

	"github.com/spec-kit/intent-score/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadAdded    EventType = "lead_added"
	EventLeadRemoved  EventType = "lead_removed"
	EventLeadsCleared EventType = "leads_cleared"
)

// Event represents a domain event emitted by the lead store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	LeadID    string      `json:"lead_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// LeadAddedPayload payload.
type LeadAddedPayload struct {
	InitialScore   int                `json:"initial_score"`
	RerankedScore  int                `json:"reranked_score"`
	Source         domain.ScoreSource `json:"source"`
	FallbackReason string             `json:"fallback_reason,omitempty"`
}

// LeadsClearedPayload payload.
type LeadsClearedPayload struct {
	Removed int `json:"removed"`
}
