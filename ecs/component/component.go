package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var nextComponentID atomic.Uint32

// KindID is satisfied by every ComponentKind and lets queries mix kinds of
// different component types.
type KindID interface {
	ID() ComponentID
}

type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

func NewComponentKind[T any](name string) ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1)), name: name}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Name() string {
	return k.name
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any](name string) ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T](name)}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
