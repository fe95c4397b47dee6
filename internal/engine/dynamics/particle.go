// Package dynamics implements the particle simulation: particles, force fields, the
// explicit Euler solver, plane and particle collisions, and the system that steps them.
package dynamics

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/kinema/pkg/math"
)

var (
	// ErrInvalidMass is returned for particles whose mass is not strictly positive.
	ErrInvalidMass = errors.New("particle mass must be positive")
	// ErrInvalidRadius is returned for particles with a negative radius.
	ErrInvalidRadius = errors.New("particle radius must not be negative")
)

// Particle is a point mass with a collision radius. Force is an accumulator cleared at
// the start of every simulation step.
type Particle struct {
	Name     string
	Position math.Vec3
	Velocity math.Vec3
	Force    math.Vec3
	Mass     float32
	Radius   float32
	// Fixed particles are never moved by the solver or by collision response.
	Fixed bool

	initialPosition math.Vec3
	initialVelocity math.Vec3
}

// NewParticle validates and creates a particle. The given position and velocity are
// remembered for Restart.
func NewParticle(position, velocity math.Vec3, mass, radius float32) (*Particle, error) {
	if !(mass > 0) || math32.IsInf(mass, 0) {
		return nil, fmt.Errorf("creating particle with mass %v: %w", mass, ErrInvalidMass)
	}
	if !(radius >= 0) {
		return nil, fmt.Errorf("creating particle with radius %v: %w", radius, ErrInvalidRadius)
	}
	return &Particle{
		Position:        position,
		Velocity:        velocity,
		Mass:            mass,
		Radius:          radius,
		initialPosition: position,
		initialVelocity: velocity,
	}, nil
}

// InverseMass returns 1/mass, or 0 for fixed particles (infinite mass).
func (p *Particle) InverseMass() float32 {
	if p.Fixed {
		return 0
	}
	return 1 / p.Mass
}

// AddForce adds f to the force accumulator.
func (p *Particle) AddForce(f math.Vec3) {
	p.Force = p.Force.Add(f)
}

// Restart puts the particle back at its initial position and velocity.
func (p *Particle) Restart() {
	p.Position = p.initialPosition
	p.Velocity = p.initialVelocity
	p.Force = math.Vec3{}
}

// InitialPosition returns the position the particle restarts from.
func (p *Particle) InitialPosition() math.Vec3 {
	return p.initialPosition
}

// InitialVelocity returns the velocity the particle restarts with.
func (p *Particle) InitialVelocity() math.Vec3 {
	return p.initialVelocity
}

// KineticEnergy returns 0.5 * m * |v|^2.
func (p *Particle) KineticEnergy() float32 {
	return 0.5 * p.Mass * p.Velocity.Dot(p.Velocity)
}
