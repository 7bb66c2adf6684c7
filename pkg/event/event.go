// pkg/event/event.go
package event

import (
	"sync"
	"time"
)

// Type represents the type of event
type Type string

// Session event types
const (
	RotorSpeedChanged Type = "rotor_speed_changed"
	SessionReset      Type = "session_reset"
	InputIdle         Type = "input_idle"
	AtlasReady        Type = "atlas_ready"
	AtlasFailed       Type = "atlas_failed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe; Cancel removes the handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run synchronously
// on the publishing goroutine.
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := append([]registration(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// RotorEvent carries the integrator output after a speed change or reset.
type RotorEvent struct {
	BaseEvent
	Speed  float64
	Height float64
	Period time.Duration
}

// NewRotorEvent creates a new rotor event
func NewRotorEvent(eventType Type, source interface{}, speed, height float64, period time.Duration) *RotorEvent {
	return &RotorEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Speed:  speed,
		Height: height,
		Period: period,
	}
}

// AtlasEvent reports the outcome of a sprite atlas load.
type AtlasEvent struct {
	BaseEvent
	Location string
	Frames   int
	Err      error
}

// NewAtlasReadyEvent creates an AtlasReady event
func NewAtlasReadyEvent(source interface{}, location string, frames int) *AtlasEvent {
	return &AtlasEvent{
		BaseEvent: BaseEvent{EventType: AtlasReady, Source: source},
		Location:  location,
		Frames:    frames,
	}
}

// NewAtlasFailedEvent creates an AtlasFailed event
func NewAtlasFailedEvent(source interface{}, location string, err error) *AtlasEvent {
	return &AtlasEvent{
		BaseEvent: BaseEvent{EventType: AtlasFailed, Source: source},
		Location:  location,
		Err:       err,
	}
}
