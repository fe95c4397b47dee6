package dynamics

// DefaultMaxSubSteps bounds the steps a Stepper runs for a single Advance call.
const DefaultMaxSubSteps = 32

// Stepper drives a System from a frame clock: each Advance accumulates the time elapsed
// since the previous call and consumes it in whole steps of the system's dt.
type Stepper struct {
	system      *System
	maxSubSteps int

	last        float32
	started     bool
	accumulator float32
}

// AdvanceResult describes one Advance call.
type AdvanceResult struct {
	Steps   int
	Dropped float32 // time discarded because the sub-step limit was reached
	Stats   StepStats
}

// NewStepper creates a stepper for system. maxSubSteps <= 0 selects DefaultMaxSubSteps.
func NewStepper(system *System, maxSubSteps int) *Stepper {
	if maxSubSteps <= 0 {
		maxSubSteps = DefaultMaxSubSteps
	}
	return &Stepper{system: system, maxSubSteps: maxSubSteps}
}

// System returns the driven system.
func (st *Stepper) System() *System {
	return st.system
}

// Advance moves the simulation up to frame time t. The first call only records t; a
// time earlier than the previous call resets the baseline without stepping.
func (st *Stepper) Advance(t float32) AdvanceResult {
	var res AdvanceResult
	if !st.started || t < st.last {
		st.started = true
		st.last = t
		st.accumulator = 0
		return res
	}

	st.accumulator += t - st.last
	st.last = t

	dt := st.system.Dt()
	// Absorb float rounding so that frame times that are exact multiples of dt
	// do not lose a step.
	slack := dt * 1e-3
	for st.accumulator+slack >= dt {
		if res.Steps == st.maxSubSteps {
			res.Dropped = st.accumulator
			st.accumulator = 0
			break
		}
		stats := st.system.Step()
		res.Stats.PlaneContacts += stats.PlaneContacts
		res.Stats.ParticleContacts += stats.ParticleContacts
		res.Steps++
		st.accumulator -= dt
	}
	if st.accumulator < 0 {
		st.accumulator = 0
	}
	return res
}

// Reset forgets the frame clock; the next Advance starts a new baseline.
func (st *Stepper) Reset() {
	st.started = false
	st.accumulator = 0
}
