package animation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/kinema/pkg/math"
)

// ErrInvalidTime is returned when a keyframe time is negative, NaN or infinite.
var ErrInvalidTime = errors.New("keyframe time must be finite and non-negative")

// Keyframe is a pose sampled at a point in time (seconds).
type Keyframe struct {
	Time      float32
	Transform Transform
}

// KeyframeCollection is a time-ordered set of keyframes. The time of the last keyframe
// is the loop period: playback starts at 0 and wraps once it passes the last keyframe.
//
// The zero value is an empty collection ready to use.
type KeyframeCollection struct {
	keys []Keyframe // sorted by Time, times unique
}

// Add inserts a keyframe at time. A keyframe already stored at the same time is replaced.
func (c *KeyframeCollection) Add(transform Transform, time float32) error {
	if time < 0 || math32.IsNaN(time) || math32.IsInf(time, 0) {
		return fmt.Errorf("adding keyframe at %v: %w", time, ErrInvalidTime)
	}

	kf := Keyframe{Time: time, Transform: NewTransform(transform.Translation, transform.Orientation, transform.Scale)}

	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Time >= time })
	if i < len(c.keys) && c.keys[i].Time == time {
		c.keys[i] = kf
		return nil
	}
	c.keys = append(c.keys, Keyframe{})
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = kf
	return nil
}

// AddMatrix decomposes m and inserts it as a keyframe at time.
func (c *KeyframeCollection) AddMatrix(m math.Mat4, time float32) error {
	return c.Add(TransformFromMatrix(m), time)
}

// Empty reports whether no keyframe has been added.
func (c *KeyframeCollection) Empty() bool {
	return len(c.keys) == 0
}

// Len returns the number of keyframes.
func (c *KeyframeCollection) Len() int {
	return len(c.keys)
}

// Period returns the loop period, the time of the last keyframe. Zero when empty.
func (c *KeyframeCollection) Period() float32 {
	if len(c.keys) == 0 {
		return 0
	}
	return c.keys[len(c.keys)-1].Time
}

// Keyframes returns a copy of the keyframes in time order.
func (c *KeyframeCollection) Keyframes() []Keyframe {
	out := make([]Keyframe, len(c.keys))
	copy(out, c.keys)
	return out
}

// EffectiveTime maps an absolute time onto [0, Period()).
func (c *KeyframeCollection) EffectiveTime(time float32) float32 {
	period := c.Period()
	if period <= 0 || math32.IsNaN(time) || math32.IsInf(time, 0) {
		return 0
	}
	e := math32.Mod(time, period)
	if e < 0 {
		e += period
	}
	if e >= period {
		e = 0
	}
	return e
}

// Bounding returns the keyframes surrounding an effective time, lower.Time <= time <
// upper.Time. A time before the first keyframe is clamped to the first keyframe, in which
// case lower and upper are the same. The collection must not be empty.
func (c *KeyframeCollection) Bounding(time float32) (lower, upper Keyframe) {
	upperIdx := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Time > time })
	switch upperIdx {
	case 0:
		return c.keys[0], c.keys[0]
	case len(c.keys):
		last := c.keys[len(c.keys)-1]
		return last, last
	}
	return c.keys[upperIdx-1], c.keys[upperIdx]
}

// InterpolateTransform returns the pose at time, looping with the collection's period.
// An empty collection yields the identity; a single keyframe is held constant.
func (c *KeyframeCollection) InterpolateTransform(time float32) Transform {
	switch len(c.keys) {
	case 0:
		return IdentityTransform()
	case 1:
		return c.keys[0].Transform
	}

	effective := c.EffectiveTime(time)
	lower, upper := c.Bounding(effective)

	span := upper.Time - lower.Time
	if span <= 0 {
		return lower.Transform
	}
	factor := (effective - lower.Time) / span
	if factor <= 0 {
		return lower.Transform
	}
	return Interpolate(lower.Transform, upper.Transform, factor)
}

// Interpolate returns the matrix of the pose at time.
func (c *KeyframeCollection) Interpolate(time float32) math.Mat4 {
	if len(c.keys) == 0 {
		return math.Identity()
	}
	return c.InterpolateTransform(time).ToMatrix()
}
