package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishRunsAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventLeadAdded, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.LeadID)
		return errors.New("boom")
	})
	d.Subscribe(EventLeadAdded, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.LeadID)
		return nil
	})
	d.Subscribe(EventLeadRemoved, func(_ context.Context, _ Event) error {
		calls = append(calls, "removed")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLeadAdded, LeadID: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"first:abc", "second:abc"}, calls)
}

func TestDispatcher_PublishWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventLeadsCleared}))
}
