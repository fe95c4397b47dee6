// Package player runs a scene headlessly: a frame clock at a fixed rate drives
// Scene.Animate, optionally paced against the wall clock, with periodic reports.
package player

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/kinema/internal/config"
	"github.com/Faultbox/kinema/internal/engine/hierarchy"
	"github.com/Faultbox/kinema/internal/scene"
	"github.com/Faultbox/kinema/pkg/math"
)

// ErrNoScene is returned by Run when the player has no scene.
var ErrNoScene = errors.New("no scene to play")

// Summary describes a finished Run.
type Summary struct {
	Frames           uint64
	Clock            time.Duration // frame clock at the last frame
	Steps            int
	Dropped          float32
	PlaneContacts    int
	ParticleContacts int
	Reloads          int
	Restarts         int
}

// Player owns the frame loop.
type Player struct {
	cfg     config.PlaybackConfig
	log     *zap.Logger
	scene   *scene.Scene
	updates <-chan *scene.Scene
}

// New creates a player for s. A nil log discards output.
func New(s *scene.Scene, cfg config.PlaybackConfig, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{cfg: cfg, log: log, scene: s}
}

// SetUpdates sets a channel of replacement scenes. A received scene is swapped in before
// the next frame and starts at scene time zero.
func (p *Player) SetUpdates(updates <-chan *scene.Scene) {
	p.updates = updates
}

// Scene returns the scene currently played.
func (p *Player) Scene() *scene.Scene {
	return p.scene
}

// Run plays frames until the configured duration has been covered or ctx is done.
// With a zero duration it plays until ctx is done. Cancellation is not an error.
func (p *Player) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	if p.scene == nil {
		return sum, ErrNoScene
	}
	fps := p.cfg.FPS
	if fps <= 0 {
		fps = config.Default().Playback.FPS
	}

	var tick <-chan time.Time
	if p.cfg.Realtime {
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		tick = ticker.C
	}

	p.log.Info("starting playback",
		zap.String("scene", p.scene.Name),
		zap.Int("fps", fps),
		zap.Duration("duration", p.cfg.Duration),
		zap.Bool("realtime", p.cfg.Realtime))

	var (
		sceneStart time.Duration
		lastReport time.Duration
	)
	for frame := uint64(0); ; frame++ {
		if ctx.Err() != nil {
			p.log.Info("playback interrupted", zap.Uint64("frames", sum.Frames))
			return sum, nil
		}

		// Integer arithmetic keeps the clock free of drift.
		clock := time.Duration(int64(frame) * int64(time.Second) / int64(fps))
		if p.cfg.Duration > 0 && clock > p.cfg.Duration {
			break
		}

		if s, ok := p.nextScene(); ok {
			p.scene = s
			sceneStart = clock
			sum.Reloads++
			p.log.Info("scene reloaded",
				zap.String("scene", s.Name),
				zap.Int("nodes", s.Graph.Len()),
				zap.Int("particles", s.ParticleCount()))
		}

		t := clock - sceneStart
		if p.cfg.LoopScene > 0 && t >= p.cfg.LoopScene {
			p.scene.Restart()
			sceneStart = clock
			t = 0
			sum.Restarts++
			p.log.Debug("scene restarted", zap.Duration("clock", clock))
		}

		stats := p.scene.Animate(float32(t.Seconds()))
		sum.Frames++
		sum.Clock = clock
		sum.Steps += stats.Steps
		sum.Dropped += stats.Dropped
		sum.PlaneContacts += stats.PlaneContacts
		sum.ParticleContacts += stats.ParticleContacts

		if p.cfg.ReportEvery > 0 && clock-lastReport >= p.cfg.ReportEvery {
			lastReport = clock
			p.report(clock, t, sum)
		}

		if tick != nil {
			select {
			case <-ctx.Done():
			case <-tick:
			}
		}
	}

	p.log.Info("playback finished",
		zap.Uint64("frames", sum.Frames),
		zap.Int("steps", sum.Steps),
		zap.Float32("dropped", sum.Dropped))
	return sum, nil
}

// nextScene takes the most recent pending replacement, if any.
func (p *Player) nextScene() (*scene.Scene, bool) {
	var (
		latest *scene.Scene
		got    bool
	)
	for p.updates != nil {
		select {
		case s, ok := <-p.updates:
			if !ok {
				p.updates = nil
				return latest, got
			}
			latest, got = s, true
		default:
			return latest, got
		}
	}
	return latest, got
}

func (p *Player) report(clock, t time.Duration, sum Summary) {
	p.log.Info("report",
		zap.Duration("clock", clock),
		zap.Duration("scene_time", t),
		zap.Uint64("frames", sum.Frames),
		zap.Int("steps", sum.Steps),
		zap.Int("plane_contacts", sum.PlaneContacts),
		zap.Int("particle_contacts", sum.ParticleContacts))

	if p.log.Core().Enabled(zap.DebugLevel) {
		g := p.scene.Graph
		g.Walk(func(h hierarchy.Handle, depth int) bool {
			p.log.Debug("node",
				zap.String("name", g.Name(h)),
				zap.Int("depth", depth),
				vec3Field("position", g.WorldPosition(h)))
			return true
		})
	}

	for _, inst := range p.scene.Systems {
		var energy float32
		var centroid math.Vec3
		particles := inst.System.Particles()
		for _, pt := range particles {
			energy += pt.KineticEnergy()
			centroid = centroid.Add(pt.Position)
		}
		if len(particles) > 0 {
			centroid = centroid.Scale(1 / float32(len(particles)))
		}
		p.log.Info("system",
			zap.String("name", inst.Name),
			zap.Int("particles", len(particles)),
			zap.Uint64("steps", inst.System.Steps()),
			zap.Float32("kinetic_energy", energy),
			vec3Field("centroid", centroid))
	}
}

func vec3Field(key string, v math.Vec3) zap.Field {
	return zap.Float32s(key, []float32{v.X, v.Y, v.Z})
}
