package ecs

import "github.com/milk9111/rigid2d/ecs/component"

// Query returns the alive entities that carry every given kind, in creation
// order. A kind with no storage yet yields nil.
func (w *World) Query(kinds ...component.KindID) []Entity {
	if w == nil {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		sets = append(sets, s)
	}

	var out []Entity
	for _, e := range w.entities.alive {
		if hasAll(sets, e.id()) {
			out = append(out, e)
		}
	}
	return out
}

// First returns the earliest created entity matching kinds.
func (w *World) First(kinds ...component.KindID) (Entity, bool) {
	ents := w.Query(kinds...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

func hasAll(sets []*SparseSet, id entityID) bool {
	for _, s := range sets {
		if !s.Has(id) {
			return false
		}
	}
	return true
}
