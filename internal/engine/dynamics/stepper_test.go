package dynamics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepperFirstAdvanceSetsBaseline(t *testing.T) {
	s := mustSystem(t, 0.01)
	st := NewStepper(s, 0)

	res := st.Advance(5)
	assert.Equal(t, 0, res.Steps)
	assert.Equal(t, uint64(0), s.Steps())
	assert.Same(t, s, st.System())
}

func TestStepperRunsWholeSteps(t *testing.T) {
	s := mustSystem(t, 0.01)
	st := NewStepper(s, 0)

	st.Advance(0)
	assert.Equal(t, 10, st.Advance(0.1).Steps)
	assert.Equal(t, 5, st.Advance(0.15).Steps)
	assert.Equal(t, 0, st.Advance(0.154).Steps)
	assert.Equal(t, 1, st.Advance(0.16).Steps)
	assert.Equal(t, uint64(16), s.Steps())
}

func TestStepperSubStepLimit(t *testing.T) {
	s := mustSystem(t, 0.01)
	st := NewStepper(s, 4)

	st.Advance(0)
	res := st.Advance(1)
	assert.Equal(t, 4, res.Steps)
	assert.InDelta(t, 0.96, res.Dropped, 1e-3)

	// The dropped time does not carry over.
	assert.Equal(t, 1, st.Advance(1.01).Steps)
}

func TestStepperTimeGoingBackwards(t *testing.T) {
	s := mustSystem(t, 0.1)
	st := NewStepper(s, 0)

	st.Advance(0)
	st.Advance(1)
	steps := s.Steps()

	assert.Equal(t, 0, st.Advance(0.2).Steps)
	assert.Equal(t, steps, s.Steps())
	assert.Equal(t, 2, st.Advance(0.4).Steps)
}

func TestStepperReset(t *testing.T) {
	s := mustSystem(t, 0.1)
	st := NewStepper(s, 0)
	st.Advance(0)
	st.Reset()
	assert.Equal(t, 0, st.Advance(3).Steps)
	assert.Equal(t, 1, st.Advance(3.1).Steps)
}
