package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(c *component.Collider, x, y float64) Candidate {
	pos := cp.Vector{X: x, Y: y}
	return Candidate{Collider: c, Bounds: c.AABB(pos, 0)}
}

func broadPhases() map[string]BroadPhase {
	return map[string]BroadPhase{
		BroadPhaseBruteForce:    BruteForce{},
		BroadPhaseSweepAndPrune: &SweepAndPrune{},
	}
}

func TestBroadPhaseLayerFilter(t *testing.T) {
	for name, bp := range broadPhases() {
		t.Run(name, func(t *testing.T) {
			a := component.NewCircle(1)
			b := component.NewCircle(1)
			a.Layer, a.Mask = 1<<1, 1<<1
			b.Layer, b.Mask = 1<<2, 1<<2

			pairs := bp.Pairs([]Candidate{candidate(a, 0, 0), candidate(b, 0.5, 0)})
			assert.Empty(t, pairs)

			b.Mask = 1 << 1
			pairs = bp.Pairs([]Candidate{candidate(a, 0, 0), candidate(b, 0.5, 0)})
			assert.Equal(t, []Pair{{A: 0, B: 1}}, pairs)
		})
	}
}

func TestBroadPhaseTouchingBoundsCount(t *testing.T) {
	for name, bp := range broadPhases() {
		t.Run(name, func(t *testing.T) {
			pairs := bp.Pairs([]Candidate{
				candidate(component.NewBox(cp.Vector{X: 2, Y: 2}), 0, 0),
				candidate(component.NewBox(cp.Vector{X: 2, Y: 2}), 2, 0),
				candidate(component.NewBox(cp.Vector{X: 2, Y: 2}), 4.5, 0),
			})
			assert.Equal(t, []Pair{{A: 0, B: 1}}, pairs)
		})
	}
}

func TestBroadPhasesAgree(t *testing.T) {
	var cands []Candidate
	// A jumbled cluster so sweep order differs from index order.
	for i := 0; i < 40; i++ {
		x := float64((i*7)%13) * 0.8
		y := float64((i*5)%11) * 0.6
		var c *component.Collider
		if i%3 == 0 {
			c = component.NewCircle(0.5)
		} else {
			c = component.NewBox(cp.Vector{X: 1, Y: 0.8})
		}
		if i%5 == 0 {
			c.Layer = 1 << 3
			c.Mask = 1 << 3
		}
		cands = append(cands, candidate(c, x, y))
	}

	want := BruteForce{}.Pairs(cands)
	require.NotEmpty(t, want)
	sap := &SweepAndPrune{}
	assert.Equal(t, want, sap.Pairs(cands))
	assert.Equal(t, want, sap.Pairs(cands), "reused buffers")
}

func TestNewBroadPhase(t *testing.T) {
	bp, err := NewBroadPhase("")
	require.NoError(t, err)
	assert.IsType(t, BruteForce{}, bp)

	bp, err = NewBroadPhase(BroadPhaseSweepAndPrune)
	require.NoError(t, err)
	assert.IsType(t, &SweepAndPrune{}, bp)

	_, err = NewBroadPhase("quadtree")
	assert.Error(t, err)
}
