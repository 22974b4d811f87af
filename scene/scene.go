package scene

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/entity"
	"github.com/milk9111/rigid2d/ecs/system"
	"github.com/milk9111/rigid2d/prefabs"
)

// Scene owns one world and the systems that simulate it.
type Scene struct {
	Name string

	path      string
	modTime   time.Time
	world     *ecs.World
	physics   *system.PhysicsSystem
	collision *system.CollisionSystem
	scheduler *ecs.Scheduler
	names     map[string]ecs.Entity
	order     []string
	frames    int
	elapsed   float64
	logger    *slog.Logger
}

// Load reads a scene file (disk first, then the bundled scenes) and builds it.
func Load(path string) (*Scene, error) {
	spec, err := prefabs.LoadSceneSpec(path)
	if err != nil {
		return nil, err
	}
	s, err := New(spec)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	s.path = path
	s.modTime, _ = prefabs.ModTime(path)
	s.log().Info("scene loaded", "path", path, "name", s.Name, "entities", len(s.order))
	return s, nil
}

// New builds a scene from an already decoded spec.
func New(spec prefabs.SceneSpec) (*Scene, error) {
	s := &Scene{
		physics:   system.NewPhysicsSystem(system.DefaultPhysicsConfig()),
		collision: system.NewCollisionSystem(),
	}
	s.scheduler = ecs.NewScheduler(s.physics, s.collision)
	if err := s.build(spec); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the scene file and rebuilds the world. The systems and their
// listeners are kept. On error the current world is left untouched.
func (s *Scene) Reload() error {
	if s == nil {
		return fmt.Errorf("scene is nil")
	}
	if s.path == "" {
		return fmt.Errorf("scene %q was not loaded from a file", s.Name)
	}
	spec, err := prefabs.LoadSceneSpec(s.path)
	if err != nil {
		return err
	}
	if err := s.build(spec); err != nil {
		return fmt.Errorf("scene %s: %w", s.path, err)
	}
	s.modTime, _ = prefabs.ModTime(s.path)
	s.log().Info("scene reloaded", "path", s.path, "name", s.Name, "entities", len(s.order))
	return nil
}

// ReloadIfChanged handles a watcher event for changed. A change to the scene
// file itself reloads only when its modification time moved past the last
// load; any other spec file (a prefab the scene may use) always reloads.
func (s *Scene) ReloadIfChanged(changed string) (bool, error) {
	if s == nil || s.path == "" {
		return false, fmt.Errorf("scene was not loaded from a file")
	}
	if prefabs.SameFile(changed, s.path) {
		mod, ok := prefabs.ModTime(s.path)
		if ok && !mod.After(s.modTime) {
			s.log().Debug("scene unchanged", "path", s.path)
			return false, nil
		}
	}
	if err := s.Reload(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Scene) build(spec prefabs.SceneSpec) error {
	cfg := physicsConfig(spec.World)
	bp, err := system.NewBroadPhase(spec.World.BroadPhase)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	names := make(map[string]ecs.Entity, len(spec.Entities))
	order := make([]string, 0, len(spec.Entities))
	for i, es := range spec.Entities {
		name := es.Name
		if name == "" {
			name = fmt.Sprintf("entity_%d", i)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("duplicate entity name %q", name)
		}
		e, err := entity.BuildEntity(w, es)
		if err != nil {
			return err
		}
		names[name] = e
		order = append(order, name)
	}

	s.physics.SetGravity(cfg.Gravity)
	s.physics.SetFixedTimeStep(cfg.FixedTimeStep)
	s.physics.Reset()
	s.collision.SetBroadPhase(bp)

	s.Name = spec.Name
	s.world = w
	s.names = names
	s.order = order
	s.frames = 0
	s.elapsed = 0
	return nil
}

// physicsConfig maps the world section onto the integrator settings. A zero
// fixed_time_step keeps the default; other values go through the
// integrator's clamp.
func physicsConfig(ws prefabs.WorldSpec) system.PhysicsConfig {
	cfg := system.DefaultPhysicsConfig()
	if ws.Gravity != nil {
		cfg.Gravity = cp.Vector{X: ws.Gravity.X, Y: ws.Gravity.Y}
	}
	if ws.FixedTimeStep != 0 {
		cfg.FixedTimeStep = ws.FixedTimeStep
	}
	return cfg
}

// Step advances the scene by one frame of dt seconds and returns the events
// the frame produced.
func (s *Scene) Step(dt float64) []ecs.Event {
	if s == nil || s.world == nil {
		return nil
	}
	s.scheduler.Update(s.world, dt)
	s.frames++
	if dt > 0 {
		s.elapsed += dt
	}
	return s.world.Events().Drain()
}

// Run advances n frames, calling onFrame (when set) with each frame's events.
func (s *Scene) Run(n int, dt float64, onFrame func(frame int, events []ecs.Event)) {
	for i := 0; i < n; i++ {
		events := s.Step(dt)
		if onFrame != nil {
			onFrame(s.frames, events)
		}
	}
}

func (s *Scene) World() *ecs.World                  { return s.world }
func (s *Scene) Physics() *system.PhysicsSystem     { return s.physics }
func (s *Scene) Collision() *system.CollisionSystem { return s.collision }
func (s *Scene) Path() string                       { return s.path }
func (s *Scene) Frames() int                        { return s.frames }

// Elapsed is the simulated time fed to Step since the last (re)load.
func (s *Scene) Elapsed() float64 { return s.elapsed }

// Entity looks up an entity by the name it was given in the scene file.
func (s *Scene) Entity(name string) (ecs.Entity, bool) {
	e, ok := s.names[name]
	if !ok || !s.world.IsAlive(e) {
		return 0, false
	}
	return e, true
}

// Names returns entity names in build order.
func (s *Scene) Names() []string {
	return append([]string(nil), s.order...)
}

// NameOf is the reverse of Entity.
func (s *Scene) NameOf(e ecs.Entity) string {
	for name, candidate := range s.names {
		if candidate == e {
			return name
		}
	}
	return e.String()
}

// SetLogger sets the logger for the scene and its collision system.
func (s *Scene) SetLogger(l *slog.Logger) {
	s.logger = l
	s.collision.SetLogger(l)
}

func (s *Scene) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}
