// Package events carries the typed in-process signals between the state
// containers and whatever host renders them. Payloads are explicit structs
// on named topics, so subscribers never parse loosely-typed blobs.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	TopicCanvasOpen     = "canvas.abrir"
	TopicSectionChange  = "seccion.cambiar"
	TopicSessionCreated = "sesion.creada"
)

// CanvasOpenEvent asks the host to surface the document canvas, typically
// because the server flagged a preview on a fresh generation.
type CanvasOpenEvent struct {
	SessionId  string    `json:"session_id"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SectionChangeEvent asks the host to switch its visible section.
type SectionChangeEvent struct {
	Section    string    `json:"section"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SessionCreatedEvent announces a server-issued session key.
type SessionCreatedEvent struct {
	SessionId  string    `json:"session_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Bus is a thin typed facade over an in-process pub/sub. One instance is
// built at bootstrap and injected everywhere; there is no package-level
// default.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{},
			watermill.NewStdLogger(false, false),
		),
	}
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

func (b *Bus) PublishCanvasOpen(evt CanvasOpenEvent) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}
	return b.publish(TopicCanvasOpen, evt)
}

func (b *Bus) PublishSectionChange(evt SectionChangeEvent) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}
	return b.publish(TopicSectionChange, evt)
}

func (b *Bus) PublishSessionCreated(evt SessionCreatedEvent) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}
	return b.publish(TopicSessionCreated, evt)
}

func (b *Bus) publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	return b.pubSub.Publish(topic, message.NewMessage(watermill.NewUUID(), data))
}

// SubscribeCanvasOpen delivers canvas-open events until ctx is done. Events
// that fail to decode are acked and dropped rather than redelivered forever.
func (b *Bus) SubscribeCanvasOpen(ctx context.Context) (<-chan CanvasOpenEvent, error) {
	msgs, err := b.pubSub.Subscribe(ctx, TopicCanvasOpen)
	if err != nil {
		return nil, err
	}
	out := make(chan CanvasOpenEvent, 1)
	go func() {
		defer close(out)
		for msg := range msgs {
			var evt CanvasOpenEvent
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) SubscribeSectionChange(ctx context.Context) (<-chan SectionChangeEvent, error) {
	msgs, err := b.pubSub.Subscribe(ctx, TopicSectionChange)
	if err != nil {
		return nil, err
	}
	out := make(chan SectionChangeEvent, 1)
	go func() {
		defer close(out)
		for msg := range msgs {
			var evt SectionChangeEvent
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) SubscribeSessionCreated(ctx context.Context) (<-chan SessionCreatedEvent, error) {
	msgs, err := b.pubSub.Subscribe(ctx, TopicSessionCreated)
	if err != nil {
		return nil, err
	}
	out := make(chan SessionCreatedEvent, 1)
	go func() {
		defer close(out)
		for msg := range msgs {
			var evt SessionCreatedEvent
			if err := json.Unmarshal(msg.Payload, &evt); err != nil {
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
