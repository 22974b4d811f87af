package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
)

// resolve separates a non-trigger contact and applies a normal impulse. Only
// dynamic bodies move. An entity without a rigid body behaves like a static
// one at rest: it still receives the impulse step rather than only the
// position correction, and uses the other side's restitution.
func resolve(w *ecs.World, c ecs.Collision) {
	ta, okA := ecs.Get(w, c.EntityA, component.TransformComponent.Kind())
	tb, okB := ecs.Get(w, c.EntityB, component.TransformComponent.Kind())
	if !okA || !okB {
		return
	}
	ba, _ := ecs.Get(w, c.EntityA, component.RigidBodyComponent.Kind())
	bb, _ := ecs.Get(w, c.EntityB, component.RigidBodyComponent.Kind())

	invA := dynamicInverseMass(ba)
	invB := dynamicInverseMass(bb)
	total := invA + invB
	if total <= 0 {
		return
	}

	correction := c.Normal.Mult(c.Penetration)
	if invA > 0 {
		ta.Position = ta.Position.Sub(correction.Mult(invA / total))
	}
	if invB > 0 {
		tb.Position = tb.Position.Add(correction.Mult(invB / total))
	}

	vn := velocityOf(bb).Sub(velocityOf(ba)).Dot(c.Normal)
	if vn > 0 {
		return
	}

	e := combinedRestitution(ba, bb)
	impulse := c.Normal.Mult(-(1 + e) * vn / total)
	if invA > 0 {
		ba.Velocity = ba.Velocity.Sub(impulse.Mult(invA))
	}
	if invB > 0 {
		bb.Velocity = bb.Velocity.Add(impulse.Mult(invB))
	}
}

func dynamicInverseMass(b *component.RigidBody) float64 {
	if b == nil || b.Type != component.BodyDynamic {
		return 0
	}
	return b.InverseMass()
}

func velocityOf(b *component.RigidBody) cp.Vector {
	if b == nil {
		return cp.Vector{}
	}
	return b.Velocity
}

// combinedRestitution takes the smaller of the two. A side without a body
// takes on the other side's value.
func combinedRestitution(a, b *component.RigidBody) float64 {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return b.Restitution
	case b == nil:
		return a.Restitution
	default:
		return math.Min(a.Restitution, b.Restitution)
	}
}
