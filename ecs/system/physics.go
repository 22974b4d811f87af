package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/common"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
)

// PhysicsConfig configures a PhysicsSystem.
type PhysicsConfig struct {
	Gravity       cp.Vector
	FixedTimeStep float64
}

func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Gravity:       cp.Vector{X: 0, Y: common.DefaultGravity},
		FixedTimeStep: common.DefaultFixedTimeStep,
	}
}

// PhysicsSystem integrates forces, velocities and positions of rigid bodies
// in fixed sub-steps. Frame time that does not fill a whole sub-step carries
// over to the next Update.
type PhysicsSystem struct {
	gravity     cp.Vector
	step        float64
	accumulator float64
	disabled    bool
	subSteps    int
}

func NewPhysicsSystem(cfg PhysicsConfig) *PhysicsSystem {
	ps := &PhysicsSystem{gravity: cfg.Gravity}
	ps.SetFixedTimeStep(cfg.FixedTimeStep)
	return ps
}

func (ps *PhysicsSystem) SetGravity(g cp.Vector) { ps.gravity = g }
func (ps *PhysicsSystem) Gravity() cp.Vector     { return ps.gravity }

// SetFixedTimeStep clamps the step to common.MinFixedTimeStep.
func (ps *PhysicsSystem) SetFixedTimeStep(h float64) {
	if h < common.MinFixedTimeStep || math.IsNaN(h) {
		h = common.MinFixedTimeStep
	}
	ps.step = h
}

func (ps *PhysicsSystem) FixedTimeStep() float64 { return ps.step }
func (ps *PhysicsSystem) Accumulator() float64   { return ps.accumulator }

// SubSteps is the number of sub-steps run by the last Update.
func (ps *PhysicsSystem) SubSteps() int { return ps.subSteps }

// Alpha is how far the accumulator is into the next sub-step, in [0,1).
func (ps *PhysicsSystem) Alpha() float64 {
	if ps.step <= 0 {
		return 0
	}
	return ps.accumulator / ps.step
}

// Reset drops any carried-over frame time.
func (ps *PhysicsSystem) Reset() {
	ps.accumulator = 0
	ps.subSteps = 0
}

// SetEnabled pauses or resumes integration. A disabled system keeps its
// accumulator.
func (ps *PhysicsSystem) SetEnabled(enabled bool) { ps.disabled = !enabled }
func (ps *PhysicsSystem) Enabled() bool           { return !ps.disabled }

func (ps *PhysicsSystem) Update(w *ecs.World, dt float64) {
	if ps == nil || w == nil {
		return
	}
	ps.subSteps = 0
	if ps.disabled {
		return
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if ps.step < common.MinFixedTimeStep {
		ps.SetFixedTimeStep(ps.step)
	}

	ps.accumulator += dt
	for ps.accumulator >= ps.step {
		ps.Step(w, ps.step)
		ps.accumulator -= ps.step
		ps.subSteps++
	}
}

// Step advances every body by exactly h seconds. Only dynamic bodies respond
// to forces; kinematic bodies move at whatever velocity they were given.
func (ps *PhysicsSystem) Step(w *ecs.World, h float64) {
	if ps == nil || w == nil {
		return
	}

	bodies := w.Query(component.RigidBodyComponent.Kind())

	for _, e := range bodies {
		b, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		if !ok {
			continue
		}
		if b.Type != component.BodyDynamic || !ecs.Has(w, e, component.TransformComponent.Kind()) {
			b.ClearForces()
			continue
		}
		if b.UseGravity {
			m := b.Mass()
			b.AddForce(cp.Vector{
				X: ps.gravity.X * m * b.GravityScale.X,
				Y: ps.gravity.Y * m * b.GravityScale.Y,
			})
		}
		integrateVelocity(b, h)
	}

	for _, e := range bodies {
		b, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		if !ok || b.Type != component.BodyDynamic {
			continue
		}
		b.Velocity = b.Velocity.Mult(math.Max(0, 1-b.LinearDamping*h))
		b.AngularVelocity *= math.Max(0, 1-b.AngularDamping*h)
	}

	for _, e := range bodies {
		b, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
		if !ok || b.Type == component.BodyStatic {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		t.Position = t.Position.Add(b.Velocity.Mult(h))
		if !b.FreezeRotation {
			t.Rotation += b.AngularVelocity * h
		}
	}
}

func integrateVelocity(b *component.RigidBody, h float64) {
	inv := b.InverseMass()

	b.Acceleration = b.Force.Mult(inv)
	b.Velocity = b.Velocity.Add(b.Acceleration.Mult(h))

	if b.FreezeRotation {
		b.AngularAcceleration = 0
		b.AngularVelocity = 0
	} else {
		b.AngularAcceleration = b.Torque * inv
		b.AngularVelocity += b.AngularAcceleration * h
	}

	b.ClearForces()
}
