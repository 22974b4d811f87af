package ecs

import "github.com/milk9111/rigid2d/ecs/component"

// World owns entities, component storage and the per-frame event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity kills an entity and drops all of its components.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e.id())
	}
	return true
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all alive entities in creation order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return append([]Entity(nil), w.entities.alive...)
}

// AddComponent inserts or replaces the component stored under id.
func (w *World) AddComponent(e Entity, id component.ComponentID, value any) error {
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	s.Set(e.id(), value)
	return nil
}

// GetComponent returns the raw component stored under id.
func (w *World) GetComponent(e Entity, id component.ComponentID) (any, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	v := w.stores[id].Get(e.id())
	return v, v != nil
}

// HasComponent reports whether e carries a component under id.
func (w *World) HasComponent(e Entity, id component.ComponentID) bool {
	if !w.IsAlive(e) {
		return false
	}
	return w.stores[id].Has(e.id())
}

// RemoveComponent drops the component stored under id.
func (w *World) RemoveComponent(e Entity, id component.ComponentID) bool {
	if !w.IsAlive(e) {
		return false
	}
	return w.stores[id].Remove(e.id())
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
