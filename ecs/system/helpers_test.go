package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60.0

func spawn(t *testing.T, w *ecs.World, pos cp.Vector, body *component.RigidBody, col *component.Collider) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), component.NewTransform(pos)))
	if body != nil {
		require.NoError(t, ecs.Add(w, e, component.RigidBodyComponent.Kind(), body))
	}
	if col != nil {
		require.NoError(t, ecs.Add(w, e, component.ColliderComponent.Kind(), col))
	}
	return e
}

func transformOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Transform {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok, "entity %v has no transform", e)
	return tr
}

func bodyOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.RigidBody {
	t.Helper()
	b, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
	require.True(t, ok, "entity %v has no rigid body", e)
	return b
}

// floatingBody is a dynamic body with gravity and damping off.
func floatingBody(mass, restitution float64, velocity cp.Vector) *component.RigidBody {
	b := component.NewRigidBody()
	b.SetMass(mass)
	b.Restitution = restitution
	b.UseGravity = false
	b.LinearDamping = 0
	b.AngularDamping = 0
	b.Velocity = velocity
	return b
}

func staticBody() *component.RigidBody {
	b := component.NewRigidBody()
	b.SetType(component.BodyStatic)
	return b
}

func newPipeline() (*PhysicsSystem, *CollisionSystem, *ecs.Scheduler) {
	ps := NewPhysicsSystem(DefaultPhysicsConfig())
	cs := NewCollisionSystem()
	return ps, cs, ecs.NewScheduler(ps, cs)
}
