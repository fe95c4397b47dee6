package dynamics

import (
	"github.com/Faultbox/kinema/pkg/math"
)

// floatEpsilon is the float32 machine epsilon. Springs shorter than this exert no force.
const floatEpsilon = 1.1920929e-07

// FieldKind names a force field variant.
type FieldKind uint8

const (
	FieldConstant FieldKind = iota
	FieldGravity
	FieldDamping
	FieldSpring
)

// String returns the variant name used in scene files.
func (k FieldKind) String() string {
	switch k {
	case FieldConstant:
		return "constant"
	case FieldGravity:
		return "gravity"
	case FieldDamping:
		return "damping"
	case FieldSpring:
		return "spring"
	}
	return "unknown"
}

// ForceField contributes forces to particle accumulators once per simulation step.
// The set of implementations is closed: ConstantForceField, GravityForceField,
// DampingForceField and SpringForceField.
type ForceField interface {
	// AddForce adds this field's contribution to the affected particles.
	AddForce()
	// Kind identifies the variant.
	Kind() FieldKind

	sealed()
}

// ConstantForceField adds the same force to every listed particle.
type ConstantForceField struct {
	Particles []*Particle
	Force     math.Vec3
}

// NewConstantForceField creates a constant field over particles.
func NewConstantForceField(particles []*Particle, force math.Vec3) *ConstantForceField {
	return &ConstantForceField{Particles: particles, Force: force}
}

// AddForce implements ForceField.
func (f *ConstantForceField) AddForce() {
	for _, p := range f.Particles {
		p.AddForce(f.Force)
	}
}

// Kind implements ForceField.
func (f *ConstantForceField) Kind() FieldKind { return FieldConstant }

func (f *ConstantForceField) sealed() {}

// GravityForceField adds mass * Acceleration to every listed particle.
type GravityForceField struct {
	Particles    []*Particle
	Acceleration math.Vec3
}

// Gravity is the standard gravitational acceleration along -Y.
var Gravity = math.Vec3{X: 0, Y: -9.81, Z: 0}

// NewGravityForceField creates a gravity field over particles.
func NewGravityForceField(particles []*Particle, acceleration math.Vec3) *GravityForceField {
	return &GravityForceField{Particles: particles, Acceleration: acceleration}
}

// AddForce implements ForceField.
func (f *GravityForceField) AddForce() {
	for _, p := range f.Particles {
		p.AddForce(f.Acceleration.Scale(p.Mass))
	}
}

// Kind implements ForceField.
func (f *GravityForceField) Kind() FieldKind { return FieldGravity }

func (f *GravityForceField) sealed() {}

// DampingForceField opposes motion: each particle receives -Damping * velocity.
type DampingForceField struct {
	Particles []*Particle
	Damping   float32
}

// NewDampingForceField creates a damping field over particles.
func NewDampingForceField(particles []*Particle, damping float32) *DampingForceField {
	return &DampingForceField{Particles: particles, Damping: damping}
}

// AddForce implements ForceField.
func (f *DampingForceField) AddForce() {
	for _, p := range f.Particles {
		p.AddForce(p.Velocity.Scale(-f.Damping))
	}
}

// Kind implements ForceField.
func (f *DampingForceField) Kind() FieldKind { return FieldDamping }

func (f *DampingForceField) sealed() {}

// SpringForceField is a damped spring between two particles. The endpoints receive
// equal and opposite forces.
type SpringForceField struct {
	P1, P2     *Particle
	Stiffness  float32
	RestLength float32
	Damping    float32
}

// NewSpringForceField creates a damped spring between p1 and p2.
func NewSpringForceField(p1, p2 *Particle, stiffness, restLength, damping float32) *SpringForceField {
	return &SpringForceField{
		P1:         p1,
		P2:         p2,
		Stiffness:  stiffness,
		RestLength: restLength,
		Damping:    damping,
	}
}

// AddForce implements ForceField.
func (f *SpringForceField) AddForce() {
	displacement := f.P2.Position.Sub(f.P1.Position)
	length := displacement.Length()
	if length <= floatEpsilon {
		return
	}

	dir := displacement.Scale(1 / length)
	relVel := f.P2.Velocity.Sub(f.P1.Velocity)

	// Force acting on P2; P1 receives the opposite.
	spring := dir.Scale(-f.Stiffness * (length - f.RestLength))
	damping := relVel.Scale(-f.Damping)
	total := spring.Add(damping)

	f.P1.AddForce(total.Negate())
	f.P2.AddForce(total)
}

// Kind implements ForceField.
func (f *SpringForceField) Kind() FieldKind { return FieldSpring }

func (f *SpringForceField) sealed() {}
