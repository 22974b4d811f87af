package ecs

// entityStore tracks entity generations, free ids and creation order.
type entityStore struct {
	gens  []generation
	free  []entityID
	alive []Entity
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gens = append(s.gens, 0)
		id = entityID(len(s.gens))
	}
	e := makeEntity(id, s.gens[id-1])
	s.alive = append(s.alive, e)
	return e
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	s.gens[e.id()-1]++
	s.free = append(s.free, e.id())
	for i, a := range s.alive {
		if a == e {
			// keep creation order intact for deterministic iteration
			s.alive = append(s.alive[:i], s.alive[i+1:]...)
			break
		}
	}
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) > len(s.gens) {
		return false
	}
	return s.gens[id-1] == e.generation()
}
