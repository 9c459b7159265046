package events

import (
	"context"
	"testing"
	"time"
)

func TestCanvasOpenDeliveredPromptly(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received, err := bus.SubscribeCanvasOpen(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.PublishCanvasOpen(CanvasOpenEvent{SessionId: "s1", Reason: "preview"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case evt := <-received:
		if evt.SessionId != "s1" || evt.Reason != "preview" {
			t.Errorf("unexpected event: %+v", evt)
		}
		if evt.OccurredAt.IsZero() {
			t.Error("OccurredAt not stamped")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("canvas-open event not delivered within 500ms")
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sections, err := bus.SubscribeSectionChange(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// A canvas event must never surface on the section topic.
	if err := bus.PublishCanvasOpen(CanvasOpenEvent{SessionId: "s1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := bus.PublishSectionChange(SectionChangeEvent{Section: "entrenamiento"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case evt := <-sections:
		if evt.Section != "entrenamiento" {
			t.Errorf("unexpected section event: %+v", evt)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("section event not delivered")
	}
}

func TestSessionCreatedRoundTrip(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	created, err := bus.SubscribeSessionCreated(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := bus.PublishSessionCreated(SessionCreatedEvent{SessionId: "abc-123"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case evt := <-created:
		if evt.SessionId != "abc-123" {
			t.Errorf("SessionId = %q", evt.SessionId)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("session-created event not delivered")
	}
}
