package dynamics

// Solver integrates particle state over one time step from the accumulated forces.
type Solver interface {
	Solve(dt float32, particles []*Particle)
}

// EulerExplicit is the first-order explicit Euler scheme. Velocity is updated first and
// the new velocity moves the particle. Fixed particles are skipped.
type EulerExplicit struct{}

// Solve implements Solver.
func (EulerExplicit) Solve(dt float32, particles []*Particle) {
	for _, p := range particles {
		if p.Fixed {
			continue
		}
		p.Velocity = p.Velocity.Add(p.Force.Scale(dt / p.Mass))
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
	}
}
