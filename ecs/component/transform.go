package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Transform places an entity in the world. Rotation is in radians, counter
// clockwise. Layer and Depth only order rendering and are ignored by physics.
type Transform struct {
	Position cp.Vector
	Rotation float64
	Scale    cp.Vector
	Layer    int
	Depth    float64
}

var TransformComponent = NewComponent[Transform]("transform")

// NewTransform returns a transform at position with unit scale.
func NewTransform(position cp.Vector) *Transform {
	return &Transform{Position: position, Scale: cp.Vector{X: 1, Y: 1}}
}

func (t *Transform) SetPosition(p cp.Vector) {
	t.Position = p
}

// SetScale replaces a zero component with 1 so the matrix stays invertible.
func (t *Transform) SetScale(s cp.Vector) {
	t.Scale = nonZeroScale(s)
}

func (t *Transform) RotationDegrees() float64 {
	return t.Rotation * 180 / math.Pi
}

func (t *Transform) SetRotationDegrees(deg float64) {
	t.Rotation = deg * math.Pi / 180
}

// Forward is the unit x axis after rotation.
func (t *Transform) Forward() cp.Vector {
	return cp.ForAngle(t.Rotation)
}

// Right is Forward turned a quarter clockwise.
func (t *Transform) Right() cp.Vector {
	return cp.Vector{X: math.Sin(t.Rotation), Y: -math.Cos(t.Rotation)}
}

// Matrix returns translate * rotate * scale.
func (t *Transform) Matrix() cp.Transform {
	s := nonZeroScale(t.Scale)
	m := cp.NewTransformTranslate(t.Position)
	m = m.Mult(cp.NewTransformRotate(t.Rotation))
	return m.Mult(cp.NewTransformScale(s.X, s.Y))
}

func (t *Transform) TransformPoint(local cp.Vector) cp.Vector {
	return t.Matrix().Point(local)
}

func (t *Transform) InverseTransformPoint(world cp.Vector) cp.Vector {
	return t.Matrix().Inverse().Point(world)
}

func nonZeroScale(s cp.Vector) cp.Vector {
	if s.X == 0 {
		s.X = 1
	}
	if s.Y == 0 {
		s.Y = 1
	}
	return s
}
