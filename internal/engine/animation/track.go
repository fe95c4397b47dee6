package animation

import (
	"github.com/Faultbox/kinema/pkg/math"
)

// TrackKind tells how a Track produces its transform.
type TrackKind uint8

const (
	// TrackStatic tracks return their fixed matrix.
	TrackStatic TrackKind = iota
	// TrackKeyframed tracks interpolate their keyframes.
	TrackKeyframed
)

// String returns the kind name.
func (k TrackKind) String() string {
	switch k {
	case TrackStatic:
		return "static"
	case TrackKeyframed:
		return "keyframed"
	}
	return "unknown"
}

// Track is one transform slot of a node. It holds a static matrix and a keyframe
// collection; while the collection is empty the static matrix is used.
//
// The zero value is a static identity track.
type Track struct {
	static    math.Mat4
	hasStatic bool
	keyframes KeyframeCollection
}

// StaticTrack returns a track fixed at m.
func StaticTrack(m math.Mat4) Track {
	return Track{static: m, hasStatic: true}
}

// Kind reports whether Eval reads keyframes or the static matrix.
func (t *Track) Kind() TrackKind {
	if t.keyframes.Empty() {
		return TrackStatic
	}
	return TrackKeyframed
}

// SetStatic replaces the static matrix. Keyframes, if any, keep precedence.
func (t *Track) SetStatic(m math.Mat4) {
	t.static = m
	t.hasStatic = true
}

// Static returns the static matrix.
func (t *Track) Static() math.Mat4 {
	if !t.hasStatic {
		return math.Identity()
	}
	return t.static
}

// AddKeyframe adds a keyframe at time.
func (t *Track) AddKeyframe(transform Transform, time float32) error {
	return t.keyframes.Add(transform, time)
}

// AddKeyframeMatrix decomposes m and adds it as a keyframe at time.
func (t *Track) AddKeyframeMatrix(m math.Mat4, time float32) error {
	return t.keyframes.AddMatrix(m, time)
}

// Keyframes exposes the keyframe collection.
func (t *Track) Keyframes() *KeyframeCollection {
	return &t.keyframes
}

// Eval returns the track's matrix at time.
func (t *Track) Eval(time float32) math.Mat4 {
	if t.keyframes.Empty() {
		return t.Static()
	}
	return t.keyframes.Interpolate(time)
}
