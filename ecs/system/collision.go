package system

import (
	"log/slog"

	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
)

// CollisionSystem detects overlapping colliders, resolves solid contacts and
// notifies listeners. Pairs are handled one at a time in a fixed order, so
// later pairs see the corrections made by earlier ones.
type CollisionSystem struct {
	broad    BroadPhase
	logger   *slog.Logger
	disabled bool

	collisionListeners []*listener
	triggerListeners   []*listener
	dispatching        bool
	pendingCompact     bool

	candidates []Candidate
	contacts   []ecs.Collision
}

type listener struct {
	fn      func(ecs.Collision)
	removed bool
}

// Subscription removes a listener registered with OnCollision or OnTrigger.
type Subscription struct {
	sys *CollisionSystem
	l   *listener
}

// Unsubscribe stops further calls to the listener. It is safe to call from
// inside the listener and more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.l == nil || s.l.removed {
		return
	}
	s.l.removed = true
	if s.sys.dispatching {
		s.sys.pendingCompact = true
		return
	}
	s.sys.compact()
}

func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{broad: BruteForce{}}
}

func (cs *CollisionSystem) SetBroadPhase(bp BroadPhase) {
	if bp == nil {
		bp = BruteForce{}
	}
	cs.broad = bp
}

func (cs *CollisionSystem) BroadPhase() BroadPhase { return cs.broad }

// SetLogger sets the logger used for skipped pairs. Nil means slog.Default.
func (cs *CollisionSystem) SetLogger(l *slog.Logger) { cs.logger = l }

func (cs *CollisionSystem) SetEnabled(enabled bool) { cs.disabled = !enabled }

// OnCollision registers fn for every solid contact, after it is resolved.
func (cs *CollisionSystem) OnCollision(fn func(ecs.Collision)) *Subscription {
	l := &listener{fn: fn}
	cs.collisionListeners = append(cs.collisionListeners, l)
	return &Subscription{sys: cs, l: l}
}

// OnTrigger registers fn for every contact involving a trigger collider.
func (cs *CollisionSystem) OnTrigger(fn func(ecs.Collision)) *Subscription {
	l := &listener{fn: fn}
	cs.triggerListeners = append(cs.triggerListeners, l)
	return &Subscription{sys: cs, l: l}
}

// Contacts returns the contacts found by the last Update.
func (cs *CollisionSystem) Contacts() []ecs.Collision {
	out := make([]ecs.Collision, len(cs.contacts))
	copy(out, cs.contacts)
	return out
}

func (cs *CollisionSystem) Update(w *ecs.World, _ float64) {
	if cs == nil || w == nil {
		return
	}
	cs.contacts = cs.contacts[:0]
	if cs.disabled {
		return
	}
	if cs.broad == nil {
		cs.broad = BruteForce{}
	}

	cands := cs.gather(w)
	pairs := cs.broad.Pairs(cands)

	cs.dispatching = true
	defer func() {
		cs.dispatching = false
		if cs.pendingCompact {
			cs.compact()
		}
	}()

	for _, p := range pairs {
		a, b := cands[p.A], cands[p.B]
		rec, ok := cs.narrow(w, a, b)
		if !ok {
			continue
		}
		cs.contacts = append(cs.contacts, rec)

		if rec.IsTrigger {
			w.Events().Push(ecs.Event{Kind: ecs.EventTrigger, Data: rec})
			notify(cs.triggerListeners, rec)
			continue
		}
		resolve(w, rec)
		w.Events().Push(ecs.Event{Kind: ecs.EventCollision, Data: rec})
		notify(cs.collisionListeners, rec)
	}
}

// gather collects enabled colliders that have a transform, in creation order.
func (cs *CollisionSystem) gather(w *ecs.World) []Candidate {
	cs.candidates = cs.candidates[:0]
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ColliderComponent.Kind(),
		func(e ecs.Entity, t *component.Transform, c *component.Collider) {
			if !c.Enabled {
				return
			}
			cs.candidates = append(cs.candidates, Candidate{
				Entity:   e,
				Collider: c,
				Bounds:   c.AABB(t.Position, t.Rotation),
			})
		})
	return cs.candidates
}

// narrow reads the current transforms, which earlier pairs may have moved.
func (cs *CollisionSystem) narrow(w *ecs.World, a, b Candidate) (ecs.Collision, bool) {
	ta, okA := ecs.Get(w, a.Entity, component.TransformComponent.Kind())
	tb, okB := ecs.Get(w, b.Entity, component.TransformComponent.Kind())
	if !okA || !okB {
		return ecs.Collision{}, false
	}

	contact, hit, err := Collide(
		WorldShape{Collider: a.Collider, Position: ta.Position, Rotation: ta.Rotation},
		WorldShape{Collider: b.Collider, Position: tb.Position, Rotation: tb.Rotation},
	)
	if err != nil {
		cs.log().Debug("collision pair skipped",
			slog.String("a", a.Entity.String()),
			slog.String("b", b.Entity.String()),
			slog.String("shape_a", a.Collider.Kind().String()),
			slog.String("shape_b", b.Collider.Kind().String()),
			slog.Any("err", err),
		)
		return ecs.Collision{}, false
	}
	if !hit {
		return ecs.Collision{}, false
	}

	return ecs.Collision{
		EntityA:     a.Entity,
		EntityB:     b.Entity,
		Point:       contact.Point,
		Normal:      contact.Normal,
		Penetration: contact.Penetration,
		IsTrigger:   a.Collider.IsTrigger || b.Collider.IsTrigger,
	}, true
}

func (cs *CollisionSystem) log() *slog.Logger {
	if cs.logger != nil {
		return cs.logger
	}
	return slog.Default()
}

func (cs *CollisionSystem) compact() {
	cs.collisionListeners = keepLive(cs.collisionListeners)
	cs.triggerListeners = keepLive(cs.triggerListeners)
	cs.pendingCompact = false
}

func keepLive(ls []*listener) []*listener {
	out := ls[:0]
	for _, l := range ls {
		if !l.removed {
			out = append(out, l)
		}
	}
	clear(ls[len(out):])
	return out
}

// notify calls listeners in registration order. Listeners added during the
// call are picked up from the next contact on.
func notify(ls []*listener, rec ecs.Collision) {
	for _, l := range ls {
		if l.removed || l.fn == nil {
			continue
		}
		l.fn(rec)
	}
}
