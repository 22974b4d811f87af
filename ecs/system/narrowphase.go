package system

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/common"
	"github.com/milk9111/rigid2d/ecs/component"
)

var (
	// ErrUnsupportedPair is returned for shape pairs with no narrow-phase test.
	ErrUnsupportedPair = errors.New("system: unsupported shape pair")
	// ErrDegenerateShape is returned for shapes with no area or length to test.
	ErrDegenerateShape = errors.New("system: degenerate shape")
)

// WorldShape is a collider placed at an entity's position and rotation.
type WorldShape struct {
	Collider *component.Collider
	Position cp.Vector
	Rotation float64
}

func (s WorldShape) center() cp.Vector {
	return s.Collider.Center(s.Position)
}

func (s WorldShape) vertices() []cp.Vector {
	return s.Collider.WorldVertices(s.Position, s.Rotation)
}

// Contact is the geometric part of a collision. Normal points from the first
// shape toward the second.
type Contact struct {
	Point       cp.Vector
	Normal      cp.Vector
	Penetration float64
}

func (c Contact) flipped() Contact {
	c.Normal = c.Normal.Neg()
	return c
}

// Collide runs the exact overlap test for a and b. A nil error with ok false
// means the shapes are apart.
func Collide(a, b WorldShape) (Contact, bool, error) {
	if err := checkShape(a); err != nil {
		return Contact{}, false, err
	}
	if err := checkShape(b); err != nil {
		return Contact{}, false, err
	}

	switch sa := a.Collider.Shape.(type) {
	case *component.Box:
		switch sb := b.Collider.Shape.(type) {
		case *component.Box:
			c, ok := boxBox(a.center(), sa, b.center(), sb)
			return c, ok, nil
		case *component.Circle:
			c, ok := boxCircle(a.center(), sa, b.center(), sb)
			return c, ok, nil
		default:
			c, ok := polygonPolygon(a.vertices(), b.vertices())
			return c, ok, nil
		}
	case *component.Circle:
		switch sb := b.Collider.Shape.(type) {
		case *component.Circle:
			c, ok := circleCircle(a.center(), sa, b.center(), sb)
			return c, ok, nil
		case *component.Box:
			c, ok := boxCircle(b.center(), sb, a.center(), sa)
			return c.flipped(), ok, nil
		case *component.Polygon:
			c, ok := polygonCircle(b.vertices(), a.center(), sa)
			return c.flipped(), ok, nil
		case *component.Edge:
			c, ok := edgeCircle(b.vertices(), a.center(), sa)
			return c.flipped(), ok, nil
		}
	case *component.Polygon:
		if sb, ok := b.Collider.Shape.(*component.Circle); ok {
			c, hit := polygonCircle(a.vertices(), b.center(), sb)
			return c, hit, nil
		}
		c, ok := polygonPolygon(a.vertices(), b.vertices())
		return c, ok, nil
	case *component.Edge:
		switch sb := b.Collider.Shape.(type) {
		case *component.Circle:
			c, ok := edgeCircle(a.vertices(), b.center(), sb)
			return c, ok, nil
		case *component.Edge:
			return Contact{}, false, ErrUnsupportedPair
		default:
			c, ok := polygonPolygon(a.vertices(), b.vertices())
			return c, ok, nil
		}
	}
	return Contact{}, false, ErrUnsupportedPair
}

func checkShape(s WorldShape) error {
	if s.Collider == nil || s.Collider.Shape == nil {
		return fmt.Errorf("%w: no shape", ErrDegenerateShape)
	}
	switch sh := s.Collider.Shape.(type) {
	case *component.Polygon:
		if len(sh.Vertices) < 3 {
			return fmt.Errorf("%w: polygon with %d vertices", ErrDegenerateShape, len(sh.Vertices))
		}
	case *component.Edge:
		if sh.End.Sub(sh.Start).Length() < component.MinEdgeLength {
			return fmt.Errorf("%w: zero length edge", ErrDegenerateShape)
		}
	}
	return nil
}

// boxBox treats both boxes as axis aligned. Rotation is not applied here,
// so rotated boxes collide as their unrotated extents.
func boxBox(posA cp.Vector, a *component.Box, posB cp.Vector, b *component.Box) (Contact, bool) {
	delta := posB.Sub(posA)
	overlapX := a.HalfExtents.X + b.HalfExtents.X - math.Abs(delta.X)
	overlapY := a.HalfExtents.Y + b.HalfExtents.Y - math.Abs(delta.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return Contact{}, false
	}

	c := Contact{Point: posA.Add(delta.Mult(0.5))}
	if overlapX < overlapY {
		c.Normal = cp.Vector{X: common.Sign(delta.X)}
		c.Penetration = overlapX
	} else {
		c.Normal = cp.Vector{Y: common.Sign(delta.Y)}
		c.Penetration = overlapY
	}
	return c, true
}

func circleCircle(posA cp.Vector, a *component.Circle, posB cp.Vector, b *component.Circle) (Contact, bool) {
	delta := posB.Sub(posA)
	dist := delta.Length()
	radii := a.Radius + b.Radius
	if dist >= radii {
		return Contact{}, false
	}

	normal := cp.Vector{X: 1}
	if dist > common.Epsilon {
		normal = delta.Mult(1 / dist)
	}
	return Contact{
		Point:       posA.Add(normal.Mult(a.Radius)),
		Normal:      normal,
		Penetration: radii - dist,
	}, true
}

// boxCircle clamps the circle center into the box's unrotated extents. The
// normal points from the box to the circle.
func boxCircle(boxPos cp.Vector, box *component.Box, circlePos cp.Vector, circle *component.Circle) (Contact, bool) {
	h := box.HalfExtents
	closest := cp.Vector{
		X: common.Clamp(circlePos.X, boxPos.X-h.X, boxPos.X+h.X),
		Y: common.Clamp(circlePos.Y, boxPos.Y-h.Y, boxPos.Y+h.Y),
	}
	delta := circlePos.Sub(closest)
	dist := delta.Length()
	if dist >= circle.Radius {
		return Contact{}, false
	}

	var normal cp.Vector
	if dist > common.Epsilon {
		normal = delta.Mult(1 / dist)
	} else {
		toCenter := circlePos.Sub(boxPos)
		if math.Abs(toCenter.X) > math.Abs(toCenter.Y) {
			normal = cp.Vector{X: common.Sign(toCenter.X)}
		} else {
			normal = cp.Vector{Y: common.Sign(toCenter.Y)}
		}
	}
	return Contact{
		Point:       closest,
		Normal:      normal,
		Penetration: circle.Radius - dist,
	}, true
}

// edgeCircle tests a two-vertex segment against a circle; the normal points
// from the segment to the circle.
func edgeCircle(seg []cp.Vector, center cp.Vector, circle *component.Circle) (Contact, bool) {
	closest := center.ClosestPointOnSegment(seg[0], seg[1])
	delta := center.Sub(closest)
	dist := delta.Length()
	if dist >= circle.Radius {
		return Contact{}, false
	}

	var normal cp.Vector
	if dist > common.Epsilon {
		normal = delta.Mult(1 / dist)
	} else {
		dir := seg[1].Sub(seg[0])
		normal = dir.Perp().Mult(1 / dir.Length())
	}
	return Contact{
		Point:       closest,
		Normal:      normal,
		Penetration: circle.Radius - dist,
	}, true
}

// polygonCircle finds the closest point on the polygon boundary. A circle
// whose center is inside the polygon is pushed out through the nearest face.
func polygonCircle(verts []cp.Vector, center cp.Vector, circle *component.Circle) (Contact, bool) {
	closest, face := closestOnOutline(verts, center)
	delta := center.Sub(closest)
	dist := delta.Length()
	inside := component.PointInPolygon(center, verts)

	if !inside && dist >= circle.Radius {
		return Contact{}, false
	}

	var normal cp.Vector
	switch {
	case dist <= common.Epsilon:
		normal = outwardNormal(verts, face)
	case inside:
		normal = delta.Mult(-1 / dist)
	default:
		normal = delta.Mult(1 / dist)
	}

	pen := circle.Radius - dist
	if inside {
		pen = circle.Radius + dist
	}
	return Contact{Point: closest, Normal: normal, Penetration: pen}, true
}

// closestOnOutline returns the closest point on a closed outline and the
// index of the face it lies on.
func closestOnOutline(verts []cp.Vector, p cp.Vector) (cp.Vector, int) {
	var best cp.Vector
	bestFace := 0
	bestDist := math.Inf(1)
	for i := range verts {
		a, b := verts[i], verts[(i+1)%len(verts)]
		q := p.ClosestPointOnSegment(a, b)
		if d := p.DistanceSq(q); d < bestDist {
			best, bestFace, bestDist = q, i, d
		}
	}
	return best, bestFace
}

// outwardNormal is the unit normal of face i pointing away from the centroid.
func outwardNormal(verts []cp.Vector, i int) cp.Vector {
	a, b := verts[i], verts[(i+1)%len(verts)]
	edge := b.Sub(a)
	l := edge.Length()
	if l <= common.Epsilon {
		return cp.Vector{X: 1}
	}
	n := edge.ReversePerp().Mult(1 / l)
	mid := a.Add(b).Mult(0.5)
	if n.Dot(mid.Sub(centroid(verts))) < 0 {
		n = n.Neg()
	}
	return n
}

func centroid(verts []cp.Vector) cp.Vector {
	var sum cp.Vector
	for _, v := range verts {
		sum = sum.Add(v)
	}
	return sum.Mult(1 / float64(len(verts)))
}
