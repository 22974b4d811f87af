package component

import (
	"math"

	"github.com/jakecoffman/cp"
)

// ShapeKind names a collider shape variant.
type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
	ShapePolygon
	ShapeEdge
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCircle:
		return "circle"
	case ShapePolygon:
		return "polygon"
	case ShapeEdge:
		return "edge"
	default:
		return "unknown"
	}
}

const (
	// EdgeContainsThreshold is how far from an edge a point still counts as on it.
	EdgeContainsThreshold = 0.1
	// MinEdgeLength is the shortest edge that can contain a point.
	MinEdgeLength = 0.001
)

// Shape is the geometry of a collider. The variants are *Box, *Circle,
// *Polygon and *Edge; the set is closed.
type Shape interface {
	Kind() ShapeKind
	// localBounds returns the bounds of the shape rotated about its origin.
	localBounds(rot cp.Vector) cp.BB
	// containsLocal tests a point already moved into the shape's frame.
	containsLocal(p cp.Vector) bool
}

type Box struct {
	HalfExtents cp.Vector
}

type Circle struct {
	Radius float64
}

// Polygon vertices are in local space, wound either way.
type Polygon struct {
	Vertices []cp.Vector
}

type Edge struct {
	Start cp.Vector
	End   cp.Vector
}

func (*Box) Kind() ShapeKind     { return ShapeBox }
func (*Circle) Kind() ShapeKind  { return ShapeCircle }
func (*Polygon) Kind() ShapeKind { return ShapePolygon }
func (*Edge) Kind() ShapeKind    { return ShapeEdge }

// Corners returns the four corners counter clockwise from bottom left.
func (s *Box) Corners() []cp.Vector {
	h := s.HalfExtents
	return []cp.Vector{
		{X: -h.X, Y: -h.Y},
		{X: h.X, Y: -h.Y},
		{X: h.X, Y: h.Y},
		{X: -h.X, Y: h.Y},
	}
}

func (s *Box) localBounds(rot cp.Vector) cp.BB {
	return boundsOf(s.Corners(), rot)
}

func (s *Box) containsLocal(p cp.Vector) bool {
	return math.Abs(p.X) <= s.HalfExtents.X && math.Abs(p.Y) <= s.HalfExtents.Y
}

func (s *Circle) localBounds(cp.Vector) cp.BB {
	return cp.NewBBForCircle(cp.Vector{}, s.Radius)
}

func (s *Circle) containsLocal(p cp.Vector) bool {
	return p.Length() <= s.Radius
}

func (s *Polygon) localBounds(rot cp.Vector) cp.BB {
	return boundsOf(s.Vertices, rot)
}

func (s *Polygon) containsLocal(p cp.Vector) bool {
	return PointInPolygon(p, s.Vertices)
}

// PointInPolygon is an even-odd ray cast along +x. Fewer than three vertices
// contain nothing.
func PointInPolygon(p cp.Vector, vertices []cp.Vector) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := vertices[i], vertices[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) &&
			p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

func (s *Edge) localBounds(rot cp.Vector) cp.BB {
	return boundsOf([]cp.Vector{s.Start, s.End}, rot)
}

func (s *Edge) containsLocal(p cp.Vector) bool {
	seg := s.End.Sub(s.Start)
	length := seg.Length()
	if length < MinEdgeLength {
		return false
	}
	rel := p.Sub(s.Start)
	t := rel.Dot(seg) / (length * length)
	if t < 0 || t > 1 {
		return false
	}
	return math.Abs(seg.Cross(rel))/length < EdgeContainsThreshold
}

// boundsOf rotates points and returns their bounds; no points collapse to the origin.
func boundsOf(points []cp.Vector, rot cp.Vector) cp.BB {
	if len(points) == 0 {
		return cp.BB{}
	}
	first := points[0].Rotate(rot)
	bb := cp.BB{L: first.X, B: first.Y, R: first.X, T: first.Y}
	for _, p := range points[1:] {
		bb = bb.Expand(p.Rotate(rot))
	}
	return bb
}
