package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/milk9111/rigid2d/ecs"
	"github.com/milk9111/rigid2d/ecs/component"
	"github.com/milk9111/rigid2d/prefabs"
	"github.com/milk9111/rigid2d/scene"
)

func main() {
	sceneName := flag.String("scene", "elastic.yaml", "scene file on disk or bundled scene name")
	frames := flag.Int("frames", 120, "number of frames to simulate (0 with -watch runs until interrupted)")
	dt := flag.Float64("dt", 1.0/60.0, "frame delta in seconds")
	watch := flag.Bool("watch", false, "reload the scene when its file changes")
	verbose := flag.Bool("v", false, "enable debug logging")
	jsonLogs := flag.Bool("json", false, "log as JSON")
	list := flag.Bool("list", false, "list bundled scenes and exit")
	flag.Parse()

	if *list {
		for _, name := range prefabs.Scenes() {
			fmt.Println(name)
		}
		return
	}

	logger := newLogger(*verbose, *jsonLogs)
	slog.SetDefault(logger)

	s, err := scene.Load(*sceneName)
	if err != nil {
		logger.Error("load scene", "scene", *sceneName, "err", err)
		os.Exit(1)
	}
	s.SetLogger(logger)

	if !*watch {
		s.Run(*frames, *dt, func(frame int, events []ecs.Event) {
			logEvents(logger, s, frame, events)
		})
		logBodies(logger, s)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := runWatched(ctx, logger, s, *frames, *dt); err != nil {
		logger.Error("watch", "scene", *sceneName, "err", err)
		os.Exit(1)
	}
	logBodies(logger, s)
}

func newLogger(verbose, jsonLogs bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if jsonLogs {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// runWatched steps the scene in real time and rebuilds it whenever the scene
// file or a prefab on disk is written.
func runWatched(ctx context.Context, logger *slog.Logger, s *scene.Scene, frames int, dt float64) error {
	if _, err := os.Stat(s.Path()); err != nil {
		return fmt.Errorf("-watch needs a scene file on disk: %w", err)
	}
	if dt <= 0 {
		return fmt.Errorf("-watch needs a positive -dt, got %v", dt)
	}
	dirs := []string{filepath.Dir(s.Path())}
	if info, err := os.Stat("prefabs"); err == nil && info.IsDir() && !prefabs.SameFile("prefabs", dirs[0]) {
		dirs = append(dirs, "prefabs")
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	defer w.Close()

	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	for frames <= 0 || s.Frames() < frames {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			logger.Debug("file changed", "path", path)
			if _, err := s.ReloadIfChanged(path); err != nil {
				logger.Warn("reload failed", "path", s.Path(), "err", err)
			}
		case err, ok := <-w.Errors:
			if ok {
				logger.Warn("watcher", "err", err)
			}
		case <-ticker.C:
			events := s.Step(dt)
			logEvents(logger, s, s.Frames(), events)
		}
	}
	return nil
}

func logEvents(logger *slog.Logger, s *scene.Scene, frame int, events []ecs.Event) {
	for _, evt := range events {
		c, ok := evt.Data.(ecs.Collision)
		if !ok {
			continue
		}
		logger.Info(string(evt.Kind),
			"frame", frame,
			"a", s.NameOf(c.EntityA),
			"b", s.NameOf(c.EntityB),
			"normal", fmt.Sprintf("(%.3f, %.3f)", c.Normal.X, c.Normal.Y),
			"depth", c.Penetration,
		)
	}
}

func logBodies(logger *slog.Logger, s *scene.Scene) {
	w := s.World()
	for _, name := range s.Names() {
		e, ok := s.Entity(name)
		if !ok {
			continue
		}
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		attrs := []any{
			"frame", s.Frames(),
			"position", fmt.Sprintf("(%.4f, %.4f)", tr.Position.X, tr.Position.Y),
			"rotation", tr.Rotation,
		}
		if body, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok {
			attrs = append(attrs,
				"type", body.Type.String(),
				"velocity", fmt.Sprintf("(%.4f, %.4f)", body.Velocity.X, body.Velocity.Y),
				"kinetic_energy", body.KineticEnergy(),
			)
		}
		logger.Info("body "+name, attrs...)
	}
}
