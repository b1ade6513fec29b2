package engine

import (
	"fmt"
	"slices"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// Handler receives events synchronously, inside the call that produced them.
// Handlers must not call back into the session that is emitting.
type Handler func(Event)

type subscription struct {
	id   uint64
	fn   Handler
	once bool
}

// EventBus dispatches session events to subscribers. Handlers for a specific
// type run first, in subscription order, followed by wildcard handlers.
type EventBus struct {
	handlers *intmap.Map[EventType, []*subscription]
	wildcard []*subscription
	nextID   uint64
	logger   *zap.Logger
}

// NewEventBus creates an empty bus. A nil logger disables logging.
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		handlers: intmap.New[EventType, []*subscription](int(eventTypeCount)),
		logger:   logger,
	}
}

func (b *EventBus) add(t EventType, fn Handler, once bool) func() {
	b.nextID++
	sub := &subscription{id: b.nextID, fn: fn, once: once}
	subs, _ := b.handlers.Get(t)
	b.handlers.Put(t, append(subs, sub))
	return func() { b.remove(t, sub.id) }
}

func (b *EventBus) remove(t EventType, id uint64) {
	subs, ok := b.handlers.Get(t)
	if !ok {
		return
	}
	subs = slices.DeleteFunc(slices.Clone(subs), func(s *subscription) bool { return s.id == id })
	if len(subs) == 0 {
		b.handlers.Del(t)
		return
	}
	b.handlers.Put(t, subs)
}

// Subscribe registers fn for events of type t and returns a function that
// removes the subscription.
func (b *EventBus) Subscribe(t EventType, fn Handler) func() {
	return b.add(t, fn, false)
}

// SubscribeOnce registers fn for the next event of type t only.
func (b *EventBus) SubscribeOnce(t EventType, fn Handler) func() {
	return b.add(t, fn, true)
}

// SubscribeAll registers fn for every event type.
func (b *EventBus) SubscribeAll(fn Handler) func() {
	b.nextID++
	sub := &subscription{id: b.nextID, fn: fn}
	b.wildcard = append(b.wildcard, sub)
	return func() {
		b.wildcard = slices.DeleteFunc(slices.Clone(b.wildcard), func(s *subscription) bool { return s.id == sub.id })
	}
}

// ListenerCount returns the number of handlers subscribed to t, not counting
// wildcard handlers.
func (b *EventBus) ListenerCount(t EventType) int {
	subs, _ := b.handlers.Get(t)
	return len(subs)
}

// Clear drops every subscription.
func (b *EventBus) Clear() {
	b.handlers.Clear()
	b.wildcard = nil
}

// Emit delivers ev to its subscribers. A panicking handler is logged and
// skipped; the remaining handlers still run.
func (b *EventBus) Emit(ev Event) {
	// The slices are replaced, never mutated, on subscribe/unsubscribe, so
	// handlers may safely (un)subscribe while we iterate.
	subs, _ := b.handlers.Get(ev.Type)
	for _, sub := range subs {
		if sub.once {
			b.remove(ev.Type, sub.id)
		}
		b.call(sub, ev)
	}
	for _, sub := range b.wildcard {
		b.call(sub, ev)
	}
}

func (b *EventBus) call(sub *subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event", ev.Type.String()),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	sub.fn(ev)
}
