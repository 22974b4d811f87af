package system

import (
	"fmt"
	"slices"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
)

// Candidate is an enabled collider taking part in one collision update.
type Candidate struct {
	Entity   ecs.Entity
	Collider *component.Collider
	Bounds   cp.BB
}

// Pair indexes two candidates with A < B.
type Pair struct {
	A, B int
}

// BroadPhase finds candidate pairs whose bounds overlap and whose layers
// allow contact. Implementations return pairs sorted by (A, B).
type BroadPhase interface {
	Pairs(candidates []Candidate) []Pair
}

const (
	BroadPhaseBruteForce    = "brute_force"
	BroadPhaseSweepAndPrune = "sweep_and_prune"
)

// NewBroadPhase maps a scene setting to a strategy. The empty name selects
// brute force.
func NewBroadPhase(name string) (BroadPhase, error) {
	switch name {
	case "", BroadPhaseBruteForce:
		return BruteForce{}, nil
	case BroadPhaseSweepAndPrune:
		return &SweepAndPrune{}, nil
	default:
		return nil, fmt.Errorf("system: unknown broad phase %q", name)
	}
}

func overlaps(a, b Candidate) bool {
	if !a.Collider.CanCollideWith(b.Collider) {
		return false
	}
	return a.Bounds.Intersects(b.Bounds)
}

// BruteForce tests every pair.
type BruteForce struct{}

func (BruteForce) Pairs(candidates []Candidate) []Pair {
	var pairs []Pair
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if overlaps(candidates[i], candidates[j]) {
				pairs = append(pairs, Pair{A: i, B: j})
			}
		}
	}
	return pairs
}

// SweepAndPrune sorts candidates by their left edge and only tests those
// whose x ranges overlap. The order buffer is reused between calls.
type SweepAndPrune struct {
	order []int
}

func (s *SweepAndPrune) Pairs(candidates []Candidate) []Pair {
	s.order = s.order[:0]
	for i := range candidates {
		s.order = append(s.order, i)
	}
	sort.SliceStable(s.order, func(x, y int) bool {
		return candidates[s.order[x]].Bounds.L < candidates[s.order[y]].Bounds.L
	})

	var pairs []Pair
	for x, i := range s.order {
		right := candidates[i].Bounds.R
		for _, j := range s.order[x+1:] {
			if candidates[j].Bounds.L > right {
				break
			}
			if !overlaps(candidates[i], candidates[j]) {
				continue
			}
			if i < j {
				pairs = append(pairs, Pair{A: i, B: j})
			} else {
				pairs = append(pairs, Pair{A: j, B: i})
			}
		}
	}
	slices.SortFunc(pairs, func(p, q Pair) int {
		if p.A != q.A {
			return p.A - q.A
		}
		return p.B - q.B
	})
	return pairs
}
