package dynamics

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/kinema/pkg/math"
)

var (
	// ErrInvalidTimeStep is returned for time steps that are not strictly positive.
	ErrInvalidTimeStep = errors.New("time step must be positive")
	// ErrInvalidRestitution is returned for negative restitution coefficients.
	ErrInvalidRestitution = errors.New("restitution must not be negative")
)

// StepStats summarizes one simulation step.
type StepStats struct {
	PlaneContacts    int
	ParticleContacts int
}

// System owns particles, force fields and collision planes, and advances them with a
// solver by a fixed time step. It is not safe for concurrent use; mutate it only between
// steps.
type System struct {
	particles []*Particle
	fields    []ForceField
	planes    []Plane
	solver    Solver

	dt          float32
	restitution float32

	planeCollisions    bool
	particleCollisions bool

	steps uint64
	time  float32
}

// NewSystem creates an empty system with an explicit Euler solver, restitution 1 and
// collision detection disabled.
func NewSystem(dt float32) (*System, error) {
	s := &System{
		solver:      EulerExplicit{},
		restitution: 1,
	}
	if err := s.SetDt(dt); err != nil {
		return nil, err
	}
	return s, nil
}

// SetDt changes the time step.
func (s *System) SetDt(dt float32) error {
	if !(dt > 0) || math32.IsInf(dt, 0) {
		return fmt.Errorf("setting dt %v: %w", dt, ErrInvalidTimeStep)
	}
	s.dt = dt
	return nil
}

// Dt returns the time step.
func (s *System) Dt() float32 {
	return s.dt
}

// SetSolver replaces the integration scheme. A nil solver restores explicit Euler.
func (s *System) SetSolver(solver Solver) {
	if solver == nil {
		solver = EulerExplicit{}
	}
	s.solver = solver
}

// SetRestitution sets the coefficient applied in collision responses
// (1 = perfectly elastic, 0 = no bounce).
func (s *System) SetRestitution(e float32) error {
	if !(e >= 0) {
		return fmt.Errorf("setting restitution %v: %w", e, ErrInvalidRestitution)
	}
	s.restitution = e
	return nil
}

// Restitution returns the collision restitution coefficient.
func (s *System) Restitution() float32 {
	return s.restitution
}

// SetCollisionDetection enables or disables particle/plane collisions.
func (s *System) SetCollisionDetection(enabled bool) {
	s.planeCollisions = enabled
}

// CollisionDetection reports whether particle/plane collisions are handled.
func (s *System) CollisionDetection() bool {
	return s.planeCollisions
}

// SetParticleCollisions enables or disables particle/particle collisions. They are only
// handled while collision detection is enabled as well.
func (s *System) SetParticleCollisions(enabled bool) {
	s.particleCollisions = enabled
}

// ParticleCollisions reports whether particle/particle collisions are requested.
func (s *System) ParticleCollisions() bool {
	return s.particleCollisions
}

// AddParticle registers a particle.
func (s *System) AddParticle(p *Particle) {
	s.particles = append(s.particles, p)
}

// AddForceField registers a force field. Fields run in registration order.
func (s *System) AddForceField(f ForceField) {
	s.fields = append(s.fields, f)
}

// AddPlane registers a collision plane.
func (s *System) AddPlane(pl Plane) {
	s.planes = append(s.planes, pl)
}

// Particles returns the registered particles. The slice must not be modified.
func (s *System) Particles() []*Particle {
	return s.particles
}

// ForceFields returns the registered force fields. The slice must not be modified.
func (s *System) ForceFields() []ForceField {
	return s.fields
}

// Planes returns the registered planes. The slice must not be modified.
func (s *System) Planes() []Plane {
	return s.planes
}

// Steps returns the number of steps computed since creation or the last Restart.
func (s *System) Steps() uint64 {
	return s.steps
}

// Time returns the simulated time, Steps() * dt.
func (s *System) Time() float32 {
	return s.time
}

// Step runs one simulation step: clear forces, accumulate the force fields, integrate,
// then detect and resolve collisions when enabled.
func (s *System) Step() StepStats {
	for _, p := range s.particles {
		p.Force = math.Vec3{}
	}

	for _, f := range s.fields {
		f.AddForce()
	}

	s.solver.Solve(s.dt, s.particles)

	var stats StepStats
	if s.planeCollisions {
		stats = s.collide()
	}

	s.steps++
	s.time += s.dt
	return stats
}

func (s *System) collide() StepStats {
	var stats StepStats
	for _, p := range s.particles {
		for _, pl := range s.planes {
			if ResolveParticlePlane(p, pl, s.restitution) {
				stats.PlaneContacts++
			}
		}
	}

	if !s.particleCollisions {
		return stats
	}
	for i := 0; i < len(s.particles); i++ {
		for j := i + 1; j < len(s.particles); j++ {
			if ResolveParticleParticle(s.particles[i], s.particles[j], s.restitution) {
				stats.ParticleContacts++
			}
		}
	}
	return stats
}

// Restart puts every particle back at its initial state and resets the step counter.
func (s *System) Restart() {
	for _, p := range s.particles {
		p.Restart()
	}
	s.steps = 0
	s.time = 0
}
