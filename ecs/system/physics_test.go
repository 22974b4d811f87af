package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhysicsConfigDefaults(t *testing.T) {
	ps := NewPhysicsSystem(DefaultPhysicsConfig())
	assert.Equal(t, cp.Vector{X: 0, Y: -9.81}, ps.Gravity())
	assert.InDelta(t, 1.0/60.0, ps.FixedTimeStep(), 1e-12)
	assert.True(t, ps.Enabled())
}

func TestSetFixedTimeStepClamps(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"normal", 0.02, 0.02},
		{"zero", 0, 0.001},
		{"negative", -1, 0.001},
		{"tiny", 0.0001, 0.001},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ps := NewPhysicsSystem(DefaultPhysicsConfig())
			ps.SetFixedTimeStep(tc.in)
			assert.Equal(t, tc.want, ps.FixedTimeStep())
		})
	}
}

func TestAccumulatorRunsWholeSubSteps(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(PhysicsConfig{FixedTimeStep: 0.125})

	ps.Update(w, 0.3125)
	assert.Equal(t, 2, ps.SubSteps())
	assert.Equal(t, 0.0625, ps.Accumulator())
	assert.Equal(t, 0.5, ps.Alpha())

	ps.Update(w, 0.0625)
	assert.Equal(t, 1, ps.SubSteps())
	assert.Equal(t, 0.0, ps.Accumulator())

	ps.Update(w, -3)
	assert.Equal(t, 0, ps.SubSteps())

	ps.Update(w, 0.07)
	ps.Reset()
	assert.Equal(t, 0.0, ps.Accumulator())
}

func TestStepAppliesGravity(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(PhysicsConfig{Gravity: cp.Vector{X: 2, Y: -10}, FixedTimeStep: 0.1})

	b := component.NewRigidBody()
	b.SetMass(3)
	b.LinearDamping = 0
	b.GravityScale = cp.Vector{X: 0.5, Y: 1}
	e := spawn(t, w, cp.Vector{}, b, nil)

	ps.Step(w, 0.1)

	assert.InDelta(t, 0.1, b.Velocity.X, 1e-9)
	assert.InDelta(t, -1, b.Velocity.Y, 1e-9)
	assert.InDelta(t, 1, b.Acceleration.X, 1e-9)
	assert.InDelta(t, -10, b.Acceleration.Y, 1e-9)

	pos := transformOf(t, w, e).Position
	assert.InDelta(t, 0.01, pos.X, 1e-9)
	assert.InDelta(t, -0.1, pos.Y, 1e-9)
	assert.Equal(t, cp.Vector{}, b.Force)
}

func TestStaticBodiesNeverMove(t *testing.T) {
	w := ecs.NewWorld()
	_, _, sched := newPipeline()

	b := staticBody()
	b.Velocity = cp.Vector{X: 4, Y: 4}
	b.AngularVelocity = 2
	e := spawn(t, w, cp.Vector{X: 1.25, Y: -3.5}, b, component.NewBox(cp.Vector{X: 2, Y: 2}))
	tr := transformOf(t, w, e)
	tr.Rotation = 0.3
	before := *tr

	other := component.NewRigidBody()
	spawn(t, w, cp.Vector{X: 1.25, Y: -2}, other, component.NewBox(cp.Vector{X: 1, Y: 1}))

	for i := 0; i < 120; i++ {
		b.AddForce(cp.Vector{X: 100, Y: -50})
		b.AddTorque(30)
		b.AddImpulse(cp.Vector{X: 10})
		sched.Update(w, frame)
	}

	assert.Equal(t, before.Position, tr.Position)
	assert.Equal(t, before.Rotation, tr.Rotation)
	assert.Equal(t, cp.Vector{}, b.Force)
}

func TestGravityOffKeepsVelocity(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultPhysicsConfig())

	b := floatingBody(2, 0, cp.Vector{X: 3, Y: -1})
	spawn(t, w, cp.Vector{}, b, nil)

	for i := 0; i < 200; i++ {
		ps.Update(w, frame)
	}
	assert.Equal(t, cp.Vector{X: 3, Y: -1}, b.Velocity)
}

func TestLinearDampingSlowsBody(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultPhysicsConfig())

	b := floatingBody(1, 0, cp.Vector{X: 5, Y: 5})
	b.LinearDamping = 0.8
	spawn(t, w, cp.Vector{}, b, nil)

	prev := b.Velocity.Length()
	for i := 0; i < 300; i++ {
		ps.Step(w, frame)
		speed := b.Velocity.Length()
		require.Less(t, speed, prev, "frame %d", i)
		prev = speed
	}
}

func TestDampingFactorFloorsAtZero(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultPhysicsConfig())

	b := floatingBody(1, 0, cp.Vector{X: 5})
	b.LinearDamping = 1
	b.AngularVelocity = 3
	b.AngularDamping = 1
	spawn(t, w, cp.Vector{}, b, nil)

	ps.Step(w, 2)
	assert.Equal(t, 0.0, b.Velocity.X)
	assert.Equal(t, 0.0, b.AngularVelocity)
}

func TestTorqueAndFreezeRotation(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultPhysicsConfig())

	spinning := floatingBody(2, 0, cp.Vector{})
	frozen := floatingBody(2, 0, cp.Vector{})
	frozen.FreezeRotation = true
	frozen.AngularVelocity = 5
	es := spawn(t, w, cp.Vector{}, spinning, nil)
	ef := spawn(t, w, cp.Vector{}, frozen, nil)

	spinning.AddTorque(4)
	frozen.AddTorque(4)
	ps.Step(w, 0.5)

	assert.InDelta(t, 2, spinning.AngularAcceleration, 1e-9)
	assert.InDelta(t, 1, spinning.AngularVelocity, 1e-9)
	assert.InDelta(t, 0.5, transformOf(t, w, es).Rotation, 1e-9)

	assert.Equal(t, 0.0, frozen.AngularVelocity)
	assert.Equal(t, 0.0, transformOf(t, w, ef).Rotation)
	assert.Equal(t, 0.0, frozen.Torque)
}

func TestKinematicBodyIgnoresForces(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultPhysicsConfig())

	b := component.NewRigidBody()
	b.SetType(component.BodyKinematic)
	b.Velocity = cp.Vector{X: 2}
	e := spawn(t, w, cp.Vector{}, b, nil)

	b.AddForce(cp.Vector{Y: 100})
	ps.Step(w, 0.5)

	assert.Equal(t, cp.Vector{X: 2}, b.Velocity)
	assert.InDelta(t, 1, transformOf(t, w, e).Position.X, 1e-9)
	assert.Equal(t, cp.Vector{}, b.Force)
}

func TestDisabledPhysicsDoesNothing(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultPhysicsConfig())
	b := component.NewRigidBody()
	e := spawn(t, w, cp.Vector{}, b, nil)

	ps.SetEnabled(false)
	ps.Update(w, 1)
	assert.Equal(t, cp.Vector{}, transformOf(t, w, e).Position)
	assert.Equal(t, 0, ps.SubSteps())

	ps.SetEnabled(true)
	ps.Update(w, frame)
	assert.Less(t, transformOf(t, w, e).Position.Y, 0.0)
}

func TestBodyWithoutTransformIsSkipped(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(DefaultPhysicsConfig())
	e := ecs.CreateEntity(w)
	b := component.NewRigidBody()
	require.NoError(t, ecs.Add(w, e, component.RigidBodyComponent.Kind(), b))
	b.AddForce(cp.Vector{X: 1})

	ps.Step(w, frame)
	assert.Equal(t, cp.Vector{}, b.Velocity)
	assert.Equal(t, cp.Vector{}, b.Force)
}
