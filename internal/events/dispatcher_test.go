package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherFansOutByType(t *testing.T) {
	t.Parallel()

	dispatcher := NewInMemoryDispatcher()

	var created, deleted int
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		created++
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) error {
		created++
		return nil
	})
	dispatcher.Subscribe(EventTicketDeleted, func(ctx context.Context, event Event) error {
		deleted++
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if created != 2 {
		t.Errorf("created handlers ran %d times, want 2", created)
	}
	if deleted != 0 {
		t.Errorf("deleted handler ran %d times, want 0", deleted)
	}
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	t.Parallel()

	dispatcher := NewInMemoryDispatcher()

	var second bool
	dispatcher.Subscribe(EventTicketUpdated, func(ctx context.Context, event Event) error {
		return errors.New("handler blew up")
	})
	dispatcher.Subscribe(EventTicketUpdated, func(ctx context.Context, event Event) error {
		second = true
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventTicketUpdated}); err != nil {
		t.Fatalf("publish returned handler error: %v", err)
	}
	if !second {
		t.Error("later handler skipped after earlier failure")
	}
}
