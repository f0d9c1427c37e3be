package audit

import (
	"context"

	dErrors "cardwallet/pkg/domain-errors"
)

// ChannelStore hands events to a worker inbox instead of persisting them
// itself, decoupling the exchange pipeline from the audit sink's latency.
type ChannelStore struct {
	inbox chan<- Event
}

func NewChannelStore(inbox chan<- Event) *ChannelStore {
	return &ChannelStore{inbox: inbox}
}

// Append enqueues the event without blocking. A full inbox drops the event
// and reports it; audit backpressure must not stall presentations.
func (s *ChannelStore) Append(_ context.Context, event Event) error {
	select {
	case s.inbox <- event:
		return nil
	default:
		return dErrors.New(dErrors.CodeInternal, "audit inbox full")
	}
}
