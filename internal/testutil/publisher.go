package testutil

import (
	"context"
	"sync"

	"github.com/mediclinic/clinic-service/internal/messaging"
)

// RecordingPublisher captures published events for assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []RecordedEvent
}

// RecordedEvent is a single captured publish call.
type RecordedEvent struct {
	RoutingKey string
	Payload    interface{}
}

var _ messaging.PublisherInterface = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, RecordedEvent{RoutingKey: routingKey, Payload: eventData})
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of all captured events.
func (p *RecordingPublisher) Events() []RecordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]RecordedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// RoutingKeys returns the routing keys of all captured events in order.
func (p *RecordingPublisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.RoutingKey
	}
	return keys
}
