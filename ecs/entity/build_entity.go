package entity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/prefabs"
)

var ErrUnknownComponent = errors.New("unknown component")

type entityPrefabSpec = prefabs.EntityBuildSpec

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any) error

var componentRegistry = map[string]componentBuildFn{
	"transform":  addTransform,
	"rigid_body": addRigidBody,
	"collider":   addCollider,
}

// Colliders may scale with the transform, so the transform goes first.
var componentBuildOrder = []string{
	"transform",
	"rigid_body",
	"collider",
}

// BuildEntityFile builds a single entity from a prefab file.
func BuildEntityFile(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntity(w, spec)
}

// BuildEntity creates an entity from spec. On error the half built entity is
// destroyed.
func BuildEntity(w *ecs.World, spec entityPrefabSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	components, err := resolveComponents(spec)
	if err != nil {
		return 0, err
	}
	if len(components) == 0 {
		return 0, fmt.Errorf("build entity: %q does not define components", spec.Name)
	}

	names := make([]string, 0, len(components))
	for name := range components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: %w %q", spec.Name, ErrUnknownComponent, name)
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return buildRank(names[i]) < buildRank(names[j])
	})

	e := ecs.CreateEntity(w)
	for _, name := range names {
		if err := componentRegistry[name](w, e, components[name]); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", spec.Name, name, err)
		}
	}
	return e, nil
}

// resolveComponents merges the prefab's components under the inline ones.
func resolveComponents(spec entityPrefabSpec) (map[string]any, error) {
	out := make(map[string]any, len(spec.Components))
	if spec.Prefab != "" {
		base, err := prefabs.LoadEntityBuildSpec(spec.Prefab)
		if err != nil {
			return nil, fmt.Errorf("build entity: %q: prefab: %w", spec.Name, err)
		}
		if base.Prefab != "" {
			return nil, fmt.Errorf("build entity: %q: prefab %q: nested prefabs are not supported", spec.Name, spec.Prefab)
		}
		for k, v := range base.Components {
			out[k] = v
		}
	}
	for k, v := range spec.Components {
		out[k] = v
	}
	return out, nil
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

// SetEntityTransform moves an entity, adding a transform if it has none.
func SetEntityTransform(w *ecs.World, e ecs.Entity, pos cp.Vector, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = component.NewTransform(pos)
	}
	t.SetPosition(pos)
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := component.NewTransform(cp.Vector{X: spec.X, Y: spec.Y})
	t.SetScale(cp.Vector{X: spec.ScaleX, Y: spec.ScaleY})
	t.Rotation = spec.Rotation
	if spec.RotationDegrees != 0 {
		t.SetRotationDegrees(t.RotationDegrees() + spec.RotationDegrees)
	}
	t.Layer = spec.Layer
	t.Depth = spec.Depth
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

type rigidBodySpec = prefabs.RigidBodyComponentSpec

func addRigidBody(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[rigidBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode rigid body spec: %w", err)
	}
	typ, ok := component.ParseBodyType(spec.Type)
	if !ok {
		return fmt.Errorf("unknown body type %q", spec.Type)
	}

	b := component.NewRigidBody()
	b.SetType(typ)
	if spec.Mass != nil {
		b.SetMass(*spec.Mass)
	}
	if spec.Velocity != nil {
		b.Velocity = cp.Vector{X: spec.Velocity.X, Y: spec.Velocity.Y}
	}
	b.AngularVelocity = spec.AngularVelocity
	if spec.LinearDamping != nil {
		b.LinearDamping = unit(*spec.LinearDamping)
	}
	if spec.AngularDamping != nil {
		b.AngularDamping = unit(*spec.AngularDamping)
	}
	if spec.Restitution != nil {
		b.Restitution = unit(*spec.Restitution)
	}
	if spec.Friction != nil {
		b.Friction = unit(*spec.Friction)
	}
	if spec.UseGravity != nil {
		b.UseGravity = *spec.UseGravity
	}
	b.FreezeRotation = spec.FreezeRotation
	if spec.GravityScale != nil {
		b.GravityScale = cp.Vector{X: spec.GravityScale.X, Y: spec.GravityScale.Y}
	}
	return ecs.Add(w, e, component.RigidBodyComponent.Kind(), b)
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}

	scale := cp.Vector{X: 1, Y: 1}
	if spec.ScaleWithTransform {
		if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok && tr != nil {
			scale = tr.Scale
		}
	}

	var c *component.Collider
	switch spec.Shape {
	case "box", "":
		if spec.Width <= 0 || spec.Height <= 0 {
			return fmt.Errorf("box needs positive width and height, got %gx%g", spec.Width, spec.Height)
		}
		c = component.NewBox(cp.Vector{X: spec.Width * math.Abs(scale.X), Y: spec.Height * math.Abs(scale.Y)})
	case "circle":
		if spec.Radius <= 0 {
			return fmt.Errorf("circle needs a positive radius, got %g", spec.Radius)
		}
		c = component.NewCircle(spec.Radius * math.Max(math.Abs(scale.X), math.Abs(scale.Y)))
	case "polygon":
		if len(spec.Points) < 3 {
			return fmt.Errorf("polygon needs at least 3 points, got %d", len(spec.Points))
		}
		points := make([]cp.Vector, len(spec.Points))
		for i, p := range spec.Points {
			points[i] = cp.Vector{X: p.X * scale.X, Y: p.Y * scale.Y}
		}
		c = component.NewPolygon(points)
	case "edge":
		c = component.NewEdge(
			cp.Vector{X: spec.Start.X * scale.X, Y: spec.Start.Y * scale.Y},
			cp.Vector{X: spec.End.X * scale.X, Y: spec.End.Y * scale.Y},
		)
	default:
		return fmt.Errorf("unknown collider shape %q", spec.Shape)
	}

	c.Offset = cp.Vector{X: spec.OffsetX, Y: spec.OffsetY}
	c.IsTrigger = spec.Trigger
	c.Enabled = !spec.Disabled
	if spec.Layer != nil {
		c.Layer = *spec.Layer
	}
	if spec.Mask != nil {
		c.Mask = *spec.Mask
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), c)
}

func unit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
