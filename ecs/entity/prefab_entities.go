package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
)

func NewBallAt(w *ecs.World, pos cp.Vector) (ecs.Entity, error) {
	return newPrefabAt(w, "ball.yaml", pos)
}

func NewCrateAt(w *ecs.World, pos cp.Vector) (ecs.Entity, error) {
	return newPrefabAt(w, "crate.yaml", pos)
}

func NewGround(w *ecs.World) (ecs.Entity, error) {
	return BuildEntityFile(w, "ground.yaml")
}

func newPrefabAt(w *ecs.World, prefab string, pos cp.Vector) (ecs.Entity, error) {
	e, err := BuildEntityFile(w, prefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, pos, 0); err != nil {
		return 0, fmt.Errorf("%s: override transform: %w", prefab, err)
	}
	return e, nil
}
