package component

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColliderFactories(t *testing.T) {
	box := NewBox(cp.Vector{X: 2, Y: 3})
	require.IsType(t, &Box{}, box.Shape)
	assert.Equal(t, cp.Vector{X: 1, Y: 1.5}, box.Shape.(*Box).HalfExtents)

	circle := NewCircle(5)
	require.IsType(t, &Circle{}, circle.Shape)
	assert.Equal(t, 5.0, circle.Shape.(*Circle).Radius)

	points := []cp.Vector{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	poly := NewPolygon(points)
	points[0] = cp.Vector{X: 9, Y: 9}
	require.IsType(t, &Polygon{}, poly.Shape)
	assert.Len(t, poly.Shape.(*Polygon).Vertices, 4)
	assert.Equal(t, cp.Vector{X: -1, Y: -1}, poly.Shape.(*Polygon).Vertices[0])

	edge := NewEdge(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 10, Y: 0})
	require.IsType(t, &Edge{}, edge.Shape)
	assert.Equal(t, cp.Vector{X: 10, Y: 0}, edge.Shape.(*Edge).End)

	for _, c := range []*Collider{box, circle, poly, edge} {
		assert.True(t, c.Enabled)
		assert.False(t, c.IsTrigger)
		assert.Equal(t, LayerDefault, c.Layer)
		assert.Equal(t, LayerAll, c.Mask)
	}
	assert.Equal(t, "polygon", poly.Kind().String())
}

func assertBB(t *testing.T, want, got cp.BB) {
	t.Helper()
	assert.InDelta(t, want.L, got.L, 1e-6, "L")
	assert.InDelta(t, want.B, got.B, 1e-6, "B")
	assert.InDelta(t, want.R, got.R, 1e-6, "R")
	assert.InDelta(t, want.T, got.T, 1e-6, "T")
}

func TestColliderAABB(t *testing.T) {
	tests := []struct {
		name     string
		collider *Collider
		pos      cp.Vector
		rot      float64
		want     cp.BB
	}{
		{"box", NewBox(cp.Vector{X: 2, Y: 2}), cp.Vector{X: 5, Y: 5}, 0, cp.BB{L: 4, B: 4, R: 6, T: 6}},
		{"box_rotated", NewBox(cp.Vector{X: 2, Y: 2}), cp.Vector{}, math.Pi / 4,
			cp.BB{L: -math.Sqrt2, B: -math.Sqrt2, R: math.Sqrt2, T: math.Sqrt2}},
		{"circle", NewCircle(3), cp.Vector{X: 10, Y: 10}, 1.3, cp.BB{L: 7, B: 7, R: 13, T: 13}},
		{"polygon", NewPolygon([]cp.Vector{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}}), cp.Vector{X: 1, Y: 1}, 0,
			cp.BB{L: 1, B: 1, R: 3, T: 2}},
		{"empty_polygon", NewPolygon(nil), cp.Vector{X: 3, Y: 4}, 0, cp.BB{L: 3, B: 4, R: 3, T: 4}},
		{"edge_rotated", NewEdge(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 0}), cp.Vector{}, math.Pi / 2,
			cp.BB{L: 0, B: 0, R: 0, T: 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertBB(t, tc.want, tc.collider.AABB(tc.pos, tc.rot))
		})
	}
}

func TestColliderAABBUsesOffset(t *testing.T) {
	c := NewCircle(1)
	c.Offset = cp.Vector{X: 2, Y: 0}
	assertBB(t, cp.BB{L: 1, B: -1, R: 3, T: 1}, c.AABB(cp.Vector{}, 0))
}

func TestColliderContainsPoint(t *testing.T) {
	square := []cp.Vector{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}
	tests := []struct {
		name     string
		collider *Collider
		pos      cp.Vector
		rot      float64
		point    cp.Vector
		want     bool
	}{
		{"box_center", NewBox(cp.Vector{X: 2, Y: 2}), cp.Vector{X: 5, Y: 5}, 0, cp.Vector{X: 5, Y: 5}, true},
		{"box_inside", NewBox(cp.Vector{X: 2, Y: 2}), cp.Vector{X: 5, Y: 5}, 0, cp.Vector{X: 5.5, Y: 5.5}, true},
		{"box_outside", NewBox(cp.Vector{X: 2, Y: 2}), cp.Vector{X: 5, Y: 5}, 0, cp.Vector{X: 10, Y: 10}, false},
		{"box_rotated_corner", NewBox(cp.Vector{X: 2, Y: 2}), cp.Vector{}, math.Pi / 4, cp.Vector{X: 0.9, Y: 0.9}, false},
		{"box_rotated_tip", NewBox(cp.Vector{X: 2, Y: 2}), cp.Vector{}, math.Pi / 4, cp.Vector{X: 1.3, Y: 0}, true},
		{"circle_center", NewCircle(5), cp.Vector{X: 10, Y: 10}, 0, cp.Vector{X: 10, Y: 10}, true},
		{"circle_inside", NewCircle(5), cp.Vector{X: 10, Y: 10}, 0, cp.Vector{X: 12, Y: 10}, true},
		{"circle_outside", NewCircle(5), cp.Vector{X: 10, Y: 10}, 0, cp.Vector{X: 20, Y: 10}, false},
		{"polygon_inside", NewPolygon(square), cp.Vector{}, 0, cp.Vector{X: 0.5, Y: 0.5}, true},
		{"polygon_outside", NewPolygon(square), cp.Vector{}, 0, cp.Vector{X: 1.5, Y: 0}, false},
		{"polygon_degenerate", NewPolygon(square[:2]), cp.Vector{}, 0, cp.Vector{}, false},
		{"edge_on", NewEdge(cp.Vector{}, cp.Vector{X: 10, Y: 0}), cp.Vector{}, 0, cp.Vector{X: 5, Y: 0.05}, true},
		{"edge_off", NewEdge(cp.Vector{}, cp.Vector{X: 10, Y: 0}), cp.Vector{}, 0, cp.Vector{X: 5, Y: 0.5}, false},
		{"edge_past_end", NewEdge(cp.Vector{}, cp.Vector{X: 10, Y: 0}), cp.Vector{}, 0, cp.Vector{X: 11, Y: 0}, false},
		{"edge_too_short", NewEdge(cp.Vector{}, cp.Vector{X: 0.0001, Y: 0}), cp.Vector{}, 0, cp.Vector{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.collider.ContainsPoint(tc.point, tc.pos, tc.rot))
		})
	}
}

func TestCanCollideWith(t *testing.T) {
	a := NewCircle(1)
	b := NewCircle(1)
	assert.True(t, a.CanCollideWith(b))

	a.Layer, a.Mask = 1<<1, 1<<1
	b.Layer, b.Mask = 1<<2, 1<<2
	assert.False(t, a.CanCollideWith(b))
	assert.False(t, b.CanCollideWith(a))

	b.Mask |= 1 << 1
	assert.True(t, a.CanCollideWith(b))
}

func TestWorldVertices(t *testing.T) {
	box := NewBox(cp.Vector{X: 2, Y: 4})
	box.Offset = cp.Vector{X: 1, Y: 0}
	verts := box.WorldVertices(cp.Vector{X: 10, Y: 0}, 0)
	require.Len(t, verts, 4)
	assert.Equal(t, cp.Vector{X: 10, Y: -2}, verts[0])
	assert.Equal(t, cp.Vector{X: 12, Y: 2}, verts[2])

	edge := NewEdge(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 1, Y: 0})
	verts = edge.WorldVertices(cp.Vector{}, math.Pi)
	require.Len(t, verts, 2)
	assert.InDelta(t, -1, verts[1].X, 1e-9)

	assert.Nil(t, NewCircle(1).WorldVertices(cp.Vector{}, 0))
}
