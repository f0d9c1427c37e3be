package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublisherStampsEvents(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)

	err := publisher.Emit(context.Background(), Event{
		Type:     EventRequestRejected,
		ClientID: "https://rp.example",
		Reason:   "client_binding",
	})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	require.NotZero(t, events[0].ID)
	require.False(t, events[0].Timestamp.IsZero())
	require.Equal(t, EventRequestRejected, events[0].Type)
}

func TestWorkerDrainsInboxOnShutdown(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 8)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	worker := NewWorker(store, inbox, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- Event{Type: EventRequestBuilt}
	inbox <- Event{Type: EventPresentationAssembled}

	// Give the worker a moment to pick events up, then stop it.
	time.Sleep(20 * time.Millisecond)
	cancel()

	require.ErrorIs(t, <-done, context.Canceled)
	require.Len(t, store.Events(), 2)
}
