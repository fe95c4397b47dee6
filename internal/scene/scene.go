package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/kinema/internal/engine/dynamics"
	"github.com/Faultbox/kinema/internal/engine/hierarchy"
)

// Scene is a built description: one node hierarchy and any number of particle systems
// sharing a frame clock.
type Scene struct {
	Name    string
	Graph   *hierarchy.Graph
	Systems []*SystemInstance

	log *zap.Logger
}

// SystemInstance is a particle system with the stepper that drives it.
type SystemInstance struct {
	Name    string
	System  *dynamics.System
	Stepper *dynamics.Stepper

	particles map[string]*dynamics.Particle
}

// Particle looks up a particle by name.
func (inst *SystemInstance) Particle(name string) (*dynamics.Particle, bool) {
	p, ok := inst.particles[name]
	return p, ok
}

// FrameStats aggregates the simulation work of one Animate call.
type FrameStats struct {
	Steps            int
	Dropped          float32
	PlaneContacts    int
	ParticleContacts int
}

// Animate evaluates the hierarchy at time t and advances every system to t.
func (s *Scene) Animate(t float32) FrameStats {
	s.Graph.Animate(t)

	var stats FrameStats
	for _, inst := range s.Systems {
		res := inst.Stepper.Advance(t)
		if res.Dropped > 0 {
			s.log.Debug("simulation falling behind",
				zap.String("system", inst.Name),
				zap.Float32("dropped", res.Dropped),
				zap.Int("steps", res.Steps))
		}
		stats.Steps += res.Steps
		stats.Dropped += res.Dropped
		stats.PlaneContacts += res.Stats.PlaneContacts
		stats.ParticleContacts += res.Stats.ParticleContacts
	}
	return stats
}

// Restart puts every particle back at its initial state and resets the steppers.
func (s *Scene) Restart() {
	for _, inst := range s.Systems {
		inst.System.Restart()
		inst.Stepper.Reset()
	}
}

// System looks up a particle system by name.
func (s *Scene) System(name string) (*SystemInstance, bool) {
	for _, inst := range s.Systems {
		if inst.Name == name {
			return inst, true
		}
	}
	return nil, false
}

// ParticleCount returns the number of particles over all systems.
func (s *Scene) ParticleCount() int {
	n := 0
	for _, inst := range s.Systems {
		n += len(inst.System.Particles())
	}
	return n
}
