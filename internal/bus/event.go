package bus

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event published on the bus. Kinds in use:
//
//	chat.parsed     a chat export was parsed and persisted
//	chat.deleted    an upload was removed
//	filter.applied  a filter recomputation completed
type Event struct {
	ID        string
	Kind      string
	Timestamp time.Time
	Payload   any
}

// NewEvent stamps a payload with a fresh event ID and the current time.
func NewEvent(kind string, payload any) Event {
	return Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}
