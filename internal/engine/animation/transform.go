// Package animation provides decomposed transforms, keyframe collections and the
// transform tracks that hierarchy nodes evaluate every frame.
package animation

import (
	"github.com/Faultbox/kinema/pkg/math"
)

// Transform is a decomposed affine transform: translation, rotation and scale.
// It is a value type; build a new one instead of mutating.
type Transform struct {
	Translation math.Vec3
	Orientation math.Quat
	Scale       math.Vec3
}

// NewTransform builds a transform from its components. The orientation is normalized.
func NewTransform(translation math.Vec3, orientation math.Quat, scale math.Vec3) Transform {
	return Transform{
		Translation: translation,
		Orientation: orientation.Normalize(),
		Scale:       scale,
	}
}

// IdentityTransform returns the transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{
		Orientation: math.QuatIdentity(),
		Scale:       math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Translation returns a pure translation.
func Translation(v math.Vec3) Transform {
	t := IdentityTransform()
	t.Translation = v
	return t
}

// Rotation returns a pure rotation.
func Rotation(q math.Quat) Transform {
	t := IdentityTransform()
	t.Orientation = q.Normalize()
	return t
}

// TransformFromMatrix decomposes an affine matrix. Shear is lost, so only matrices
// built from translations, rotations and scales round-trip exactly.
func TransformFromMatrix(m math.Mat4) Transform {
	t, q, s := m.Decompose()
	return NewTransform(t, q, s)
}

// ToMatrix returns T * R * S.
func (t Transform) ToMatrix() math.Mat4 {
	return math.TranslateV(t.Translation).
		Mul(t.Orientation.ToMat4()).
		Mul(math.ScaleV(t.Scale))
}

// Interpolate blends two transforms: slerp for the orientation, lerp for translation
// and scale.
func Interpolate(a, b Transform, factor float32) Transform {
	return NewTransform(
		a.Translation.Lerp(b.Translation, factor),
		a.Orientation.Slerp(b.Orientation, factor),
		a.Scale.Lerp(b.Scale, factor),
	)
}
