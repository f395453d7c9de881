package ecs

import "reflect"

type queuedEvent struct {
	typ   reflect.Type
	event any
}

// EventBus queues typed events and delivers them in FIFO order at a fixed
// point in the frame. Emissions made while handlers run land in the next
// dispatch, never the current one.
type EventBus struct {
	handlers map[reflect.Type][]func(any)
	front    []queuedEvent
	back     []queuedEvent
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[reflect.Type][]func(any))}
}

// Subscribe registers fn for every queued event of type T. Handlers for
// the same type run in subscription order.
func Subscribe[T any](b *EventBus, fn func(T)) {
	t := reflect.TypeFor[T]()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Emit queues ev for the next dispatch. Events with no subscriber are
// discarded at dispatch time.
func Emit[T any](b *EventBus, ev T) {
	b.back = append(b.back, queuedEvent{typ: reflect.TypeFor[T](), event: ev})
}

// DispatchQueued delivers every event queued since the previous dispatch.
// The two buffers swap so handler emissions append to a fresh queue while
// the old one drains.
func (b *EventBus) DispatchQueued() {
	if len(b.back) == 0 {
		return
	}
	delivered := b.front[:0]
	b.front = b.back
	b.back = delivered

	for _, q := range b.front {
		for _, h := range b.handlers[q.typ] {
			h(q.event)
		}
	}
	for i := range b.front {
		b.front[i] = queuedEvent{}
	}
}

// QueuedLen reports how many events wait for the next dispatch.
func (b *EventBus) QueuedLen() int {
	return len(b.back)
}
