package ecs

import "github.com/jakecoffman/cp"

// EventKind identifies event payloads.
type EventKind string

const (
	EventCollision EventKind = "collision"
	EventTrigger   EventKind = "trigger"
)

// Event is a generic ECS event payload.
type Event struct {
	Kind EventKind
	Data any
}

// Collision describes one contact found during a collision update. Normal is
// a unit vector pointing from EntityA toward EntityB.
type Collision struct {
	EntityA     Entity
	EntityB     Entity
	Point       cp.Vector
	Normal      cp.Vector
	Penetration float64
	IsTrigger   bool
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
