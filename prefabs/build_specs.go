package prefabs

import "gopkg.in/yaml.v3"

// SceneSpec is a whole simulation: world settings plus its entities, built in
// file order.
type SceneSpec struct {
	Name     string            `yaml:"name" toml:"name"`
	World    WorldSpec         `yaml:"world" toml:"world"`
	Entities []EntityBuildSpec `yaml:"entities" toml:"entities"`
}

type WorldSpec struct {
	// Gravity defaults to (0, -9.81) when omitted.
	Gravity       *VectorSpec `yaml:"gravity" toml:"gravity"`
	FixedTimeStep float64     `yaml:"fixed_time_step" toml:"fixed_time_step"`
	BroadPhase    string      `yaml:"broad_phase" toml:"broad_phase"`
}

type VectorSpec struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// EntityBuildSpec describes one entity. Prefab names an entity file whose
// components are used as a base; inline components replace prefab ones by
// name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name" toml:"name"`
	Prefab     string         `yaml:"prefab,omitempty" toml:"prefab,omitempty"`
	Components map[string]any `yaml:"components" toml:"components"`
}

// DecodeComponentSpec converts a loosely typed component map into T.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
	// RotationDegrees is added to Rotation.
	RotationDegrees float64 `yaml:"rotation_degrees"`
	Layer           int     `yaml:"layer"`
	Depth           float64 `yaml:"depth"`
}

// RigidBodyComponentSpec leaves unset pointers at the rigid body defaults.
type RigidBodyComponentSpec struct {
	Type            string      `yaml:"type"`
	Mass            *float64    `yaml:"mass"`
	Velocity        *VectorSpec `yaml:"velocity"`
	AngularVelocity float64     `yaml:"angular_velocity"`
	LinearDamping   *float64    `yaml:"linear_damping"`
	AngularDamping  *float64    `yaml:"angular_damping"`
	Restitution     *float64    `yaml:"restitution"`
	Friction        *float64    `yaml:"friction"`
	UseGravity      *bool       `yaml:"use_gravity"`
	FreezeRotation  bool        `yaml:"freeze_rotation"`
	GravityScale    *VectorSpec `yaml:"gravity_scale"`
}

type ColliderComponentSpec struct {
	Shape  string       `yaml:"shape"`
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
	Radius float64      `yaml:"radius"`
	Points []VectorSpec `yaml:"points"`
	Start  VectorSpec   `yaml:"start"`
	End    VectorSpec   `yaml:"end"`

	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Trigger bool    `yaml:"trigger"`
	// Disabled is inverted so an omitted key means enabled.
	Disabled bool `yaml:"disabled"`
	// Layer and Mask default to the default layer and all layers.
	Layer *uint32 `yaml:"layer"`
	Mask  *uint32 `yaml:"mask"`

	ScaleWithTransform bool `yaml:"scale_with_transform"`
}
