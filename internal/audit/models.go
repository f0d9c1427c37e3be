// Package audit captures append-only events for every exchange operation so
// rejected requests and assembled presentations leave a trail.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the auditable outcomes of the exchange pipeline.
type EventType string

const (
	EventRequestBuilt          EventType = "exchange.request_built"
	EventRequestRejected       EventType = "exchange.request_rejected"
	EventPresentationAssembled EventType = "exchange.presentation_assembled"
	EventEmptyMatch            EventType = "exchange.empty_match"
)

// Event is one audit record. Reason is only set on rejections and carries
// the domain error code, never free-form request content.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Type         EventType `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	ClientID     string    `json:"client_id,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	MatchedCount int       `json:"matched_count,omitempty"`
}
