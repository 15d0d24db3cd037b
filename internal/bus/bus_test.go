package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("queue.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindQueueSizeChanged, Timestamp: time.Now(), Payload: 3})

	select {
	case evt := <-ch:
		if evt.Kind != KindQueueSizeChanged {
			t.Errorf("got kind %q, want %q", evt.Kind, KindQueueSizeChanged)
		}
		if evt.Payload.(int) != 3 {
			t.Errorf("payload = %v, want 3", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("network.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindQueueSizeChanged})
	b.Publish(Event{Kind: KindNetworkOnline})

	select {
	case evt := <-ch:
		if evt.Kind != KindNetworkOnline {
			t.Errorf("got kind %q, want %q", evt.Kind, KindNetworkOnline)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// Ensure the queue event was not delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected: no more events.
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("queue.", 10)
	unsub()

	b.Publish(Event{Kind: KindQueueSizeChanged})

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected.
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("sync.", 1)
	defer unsub()

	// Fill buffer.
	b.Publish(Event{Kind: KindSyncStarted})
	// This should be dropped (non-blocking).
	b.Publish(Event{Kind: KindSyncCompleted})

	evt := <-ch
	if evt.Kind != KindSyncStarted {
		t.Errorf("got %q, want %q", evt.Kind, KindSyncStarted)
	}
}
