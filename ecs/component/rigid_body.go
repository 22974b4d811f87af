package component

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/common"
)

// BodyType selects how the integrator and the collision resolver treat a body.
type BodyType int

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ParseBodyType maps a scene file name to a BodyType.
func ParseBodyType(s string) (BodyType, bool) {
	switch s {
	case "static":
		return BodyStatic, true
	case "kinematic":
		return BodyKinematic, true
	case "dynamic", "":
		return BodyDynamic, true
	default:
		return BodyDynamic, false
	}
}

// RigidBody holds the dynamic state of an entity. Force and Torque accumulate
// until the next integration sub-step clears them.
type RigidBody struct {
	Type BodyType

	Velocity            cp.Vector
	AngularVelocity     float64
	Acceleration        cp.Vector
	AngularAcceleration float64

	LinearDamping  float64
	AngularDamping float64
	Restitution    float64
	Friction       float64

	UseGravity     bool
	FreezeRotation bool
	GravityScale   cp.Vector

	Force  cp.Vector
	Torque float64

	mass float64
}

var RigidBodyComponent = NewComponent[RigidBody]("rigid_body")

// NewRigidBody returns a dynamic body of mass 1 with light damping.
func NewRigidBody() *RigidBody {
	return &RigidBody{
		Type:           BodyDynamic,
		LinearDamping:  0.01,
		AngularDamping: 0.05,
		Restitution:    0,
		Friction:       0.3,
		UseGravity:     true,
		GravityScale:   cp.Vector{X: 1, Y: 1},
		mass:           1,
	}
}

// Mass never reports less than the mass floor, even for a zero-value body.
func (b *RigidBody) Mass() float64 {
	if b.mass < common.MinMass || math.IsNaN(b.mass) {
		return common.MinMass
	}
	return b.mass
}

// InverseMass is 0 for static bodies and 1/mass otherwise.
func (b *RigidBody) InverseMass() float64 {
	if b.Type == BodyStatic {
		return 0
	}
	return 1 / b.Mass()
}

// SetMass clamps m to the mass floor. NaN is treated as below the floor.
func (b *RigidBody) SetMass(m float64) {
	if m < common.MinMass || math.IsNaN(m) {
		m = common.MinMass
	}
	b.mass = m
}

// SetType changes the body class; InverseMass follows the new class.
func (b *RigidBody) SetType(t BodyType) {
	b.Type = t
}

func (b *RigidBody) IsStatic() bool    { return b.Type == BodyStatic }
func (b *RigidBody) IsKinematic() bool { return b.Type == BodyKinematic }
func (b *RigidBody) IsDynamic() bool   { return b.Type == BodyDynamic }

func (b *RigidBody) AddForce(f cp.Vector) {
	b.Force = b.Force.Add(f)
}

func (b *RigidBody) AddTorque(t float64) {
	b.Torque += t
}

// AddImpulse changes velocity immediately. Only dynamic bodies respond.
func (b *RigidBody) AddImpulse(impulse cp.Vector) {
	if b.Type != BodyDynamic {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Mult(b.InverseMass()))
}

func (b *RigidBody) ClearForces() {
	b.Force = cp.Vector{}
	b.Torque = 0
}

// KineticEnergy uses the body mass for the rotational term as well.
func (b *RigidBody) KineticEnergy() float64 {
	m := b.Mass()
	return 0.5*m*b.Velocity.LengthSq() + 0.5*m*b.AngularVelocity*b.AngularVelocity
}
