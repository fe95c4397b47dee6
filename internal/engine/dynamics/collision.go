package dynamics

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/kinema/pkg/math"
)

// ParticlePlaneContact reports whether the particle's sphere touches the plane.
func ParticlePlaneContact(p *Particle, pl Plane) bool {
	return math32.Abs(pl.SignedDistance(p.Position)) <= p.Radius
}

// ResolveParticlePlane handles a particle/plane contact: the particle is moved onto the
// normal side of the plane at exactly its radius and its velocity is reflected with the
// given restitution. Fixed particles are left alone. It reports whether a contact was
// resolved.
func ResolveParticlePlane(p *Particle, pl Plane, restitution float32) bool {
	if p.Fixed {
		return false
	}
	d := pl.SignedDistance(p.Position)
	if math32.Abs(d) > p.Radius {
		return false
	}

	n := pl.Normal
	onPlane := p.Position.Sub(n.Scale(d))
	p.Position = onPlane.Add(n.Scale(p.Radius))
	p.Velocity = reflect(p.Velocity, n, restitution)
	return true
}

// ParticleParticleContact reports whether the spheres of a and b overlap or touch.
func ParticleParticleContact(a, b *Particle) bool {
	return a.Position.Distance(b.Position) <= a.Radius+b.Radius
}

// ResolveParticleParticle separates two overlapping particles along the line joining
// their centres, in inverse-mass proportion, and applies the restitution impulse when
// they approach each other. Fixed particles have infinite mass. Coincident centres have
// no contact normal and are skipped. It reports whether a contact was resolved.
func ResolveParticleParticle(a, b *Particle, restitution float32) bool {
	invA, invB := a.InverseMass(), b.InverseMass()
	invSum := invA + invB
	if invSum == 0 {
		return false
	}

	delta := a.Position.Sub(b.Position)
	dist := delta.Length()
	if dist <= floatEpsilon {
		return false
	}
	penetration := a.Radius + b.Radius - dist
	if penetration < 0 {
		return false
	}

	// Normal points from b to a.
	n := delta.Scale(1 / dist)
	a.Position = a.Position.Add(n.Scale(penetration * invA / invSum))
	b.Position = b.Position.Sub(n.Scale(penetration * invB / invSum))

	approach := a.Velocity.Sub(b.Velocity).Dot(n)
	if approach < 0 {
		j := -(1 + restitution) * approach / invSum
		a.Velocity = a.Velocity.Add(n.Scale(j * invA))
		b.Velocity = b.Velocity.Sub(n.Scale(j * invB))
	}
	return true
}

// reflect returns v - (1+e) dot(v, n) n.
func reflect(v, n math.Vec3, restitution float32) math.Vec3 {
	return v.Sub(n.Scale((1 + restitution) * v.Dot(n)))
}
