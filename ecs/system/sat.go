package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/common"
)

// polygonPolygon is a separating axis test over the face normals of two
// convex outlines. A two-vertex outline is a segment and contributes its one
// normal. The reported normal points from a toward b.
func polygonPolygon(a, b []cp.Vector) (Contact, bool) {
	best := math.Inf(1)
	var normal cp.Vector
	fromA := true

	test := func(outline []cp.Vector, owner bool) bool {
		for i, n := 0, faces(outline); i < n; i++ {
			axis := faceNormal(outline, i)
			if axis == (cp.Vector{}) {
				continue
			}
			minA, maxA := project(a, axis)
			minB, maxB := project(b, axis)
			forward := maxA - minB
			backward := maxB - minA
			if forward <= 0 || backward <= 0 {
				return false
			}
			depth, dir := forward, axis
			if backward < forward {
				depth, dir = backward, axis.Neg()
			}
			if depth < best {
				best, normal, fromA = depth, dir, owner
			}
		}
		return true
	}
	if !test(a, true) || !test(b, false) {
		return Contact{}, false
	}

	var point cp.Vector
	if fromA {
		point = support(b, normal.Neg())
	} else {
		point = support(a, normal)
	}
	return Contact{Point: point, Normal: normal, Penetration: best}, true
}

// faces is the number of distinct faces of an outline.
func faces(outline []cp.Vector) int {
	if len(outline) == 2 {
		return 1
	}
	return len(outline)
}

func faceNormal(outline []cp.Vector, i int) cp.Vector {
	edge := outline[(i+1)%len(outline)].Sub(outline[i])
	l := edge.Length()
	if l <= common.Epsilon {
		return cp.Vector{}
	}
	return edge.Perp().Mult(1 / l)
}

func project(outline []cp.Vector, axis cp.Vector) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range outline {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// support averages the vertices furthest along dir, so a flat face resting
// on another yields the middle of the face.
func support(outline []cp.Vector, dir cp.Vector) cp.Vector {
	_, hi := project(outline, dir)
	var sum cp.Vector
	n := 0
	for _, v := range outline {
		if hi-v.Dot(dir) <= common.Epsilon {
			sum = sum.Add(v)
			n++
		}
	}
	return sum.Mult(1 / float64(n))
}
