package component

import "github.com/jakecoffman/cp"

const (
	LayerNone    uint32 = 0
	LayerDefault uint32 = 1 << 0
	LayerAll     uint32 = ^uint32(0)
)

// Collider attaches a shape to an entity. Layer is the set of groups the
// collider belongs to and Mask the groups it tests against.
type Collider struct {
	Shape     Shape
	Offset    cp.Vector
	IsTrigger bool
	Enabled   bool
	Layer     uint32
	Mask      uint32
}

var ColliderComponent = NewComponent[Collider]("collider")

func newCollider(s Shape) *Collider {
	return &Collider{
		Shape:   s,
		Enabled: true,
		Layer:   LayerDefault,
		Mask:    LayerAll,
	}
}

// NewBox takes the full size; the box stores half of it.
func NewBox(size cp.Vector) *Collider {
	return newCollider(&Box{HalfExtents: size.Mult(0.5)})
}

func NewCircle(radius float64) *Collider {
	return newCollider(&Circle{Radius: radius})
}

// NewPolygon copies points.
func NewPolygon(points []cp.Vector) *Collider {
	verts := make([]cp.Vector, len(points))
	copy(verts, points)
	return newCollider(&Polygon{Vertices: verts})
}

func NewEdge(start, end cp.Vector) *Collider {
	return newCollider(&Edge{Start: start, End: end})
}

// Kind reports the shape variant. A collider without a shape reports ShapeBox
// with zero extents.
func (c *Collider) Kind() ShapeKind {
	if c.Shape == nil {
		return ShapeBox
	}
	return c.Shape.Kind()
}

// Center is the world position of the collider origin.
func (c *Collider) Center(position cp.Vector) cp.Vector {
	return position.Add(c.Offset)
}

// AABB returns the world bounds of the shape for an entity at position with
// the given rotation.
func (c *Collider) AABB(position cp.Vector, rotation float64) cp.BB {
	center := c.Center(position)
	if c.Shape == nil {
		return cp.BB{L: center.X, B: center.Y, R: center.X, T: center.Y}
	}
	local := c.Shape.localBounds(cp.ForAngle(rotation))
	return cp.BB{
		L: local.L + center.X,
		B: local.B + center.Y,
		R: local.R + center.X,
		T: local.T + center.Y,
	}
}

// ContainsPoint reports whether a world point lies inside the shape.
func (c *Collider) ContainsPoint(point, position cp.Vector, rotation float64) bool {
	if c.Shape == nil {
		return false
	}
	local := point.Sub(c.Center(position)).Unrotate(cp.ForAngle(rotation))
	return c.Shape.containsLocal(local)
}

// CanCollideWith is true when either collider's layer is in the other's mask.
func (c *Collider) CanCollideWith(other *Collider) bool {
	return c.Layer&other.Mask != 0 || other.Layer&c.Mask != 0
}

// WorldVertices returns the outline of a box, polygon or edge in world space.
// Circles and missing shapes have no vertices.
func (c *Collider) WorldVertices(position cp.Vector, rotation float64) []cp.Vector {
	var local []cp.Vector
	switch s := c.Shape.(type) {
	case *Box:
		local = s.Corners()
	case *Polygon:
		local = s.Vertices
	case *Edge:
		local = []cp.Vector{s.Start, s.End}
	default:
		return nil
	}
	center := c.Center(position)
	rot := cp.ForAngle(rotation)
	out := make([]cp.Vector, len(local))
	for i, v := range local {
		out[i] = v.Rotate(rot).Add(center)
	}
	return out
}
