// Package scene loads declarative scene descriptions (YAML or TOML) and builds the
// node hierarchy and particle systems they describe.
package scene

// Description is the on-disk form of a scene.
type Description struct {
	Name string `yaml:"name" toml:"name"`
	// InheritLocal selects what children inherit from their parent; nil keeps the
	// hierarchy default (the parent's full world matrix).
	InheritLocal *bool        `yaml:"inherit_local,omitempty" toml:"inherit_local,omitempty"`
	Nodes        []NodeDesc   `yaml:"nodes" toml:"nodes"`
	Systems      []SystemDesc `yaml:"systems" toml:"systems"`
}

// NodeDesc describes one hierarchy node.
type NodeDesc struct {
	Name            string         `yaml:"name" toml:"name"`
	Parent          string         `yaml:"parent,omitempty" toml:"parent,omitempty"`
	Local           *TransformDesc `yaml:"local,omitempty" toml:"local,omitempty"`
	Global          *TransformDesc `yaml:"global,omitempty" toml:"global,omitempty"`
	LocalKeyframes  []KeyframeDesc `yaml:"local_keyframes,omitempty" toml:"local_keyframes,omitempty"`
	GlobalKeyframes []KeyframeDesc `yaml:"global_keyframes,omitempty" toml:"global_keyframes,omitempty"`
}

// KeyframeDesc is a transform at a time in seconds.
type KeyframeDesc struct {
	Time      float32       `yaml:"time" toml:"time"`
	Transform TransformDesc `yaml:"transform" toml:"transform"`
}

// TransformDesc describes a transform as T * R * S. Rotation can be given as an
// axis/angle pair or a quaternion, not both. LookAt replaces translation and rotation
// with the pose of an object at Eye facing Target.
type TransformDesc struct {
	Translation *[3]float32   `yaml:"translation,omitempty" toml:"translation,omitempty"`
	Rotation    *RotationDesc `yaml:"rotation,omitempty" toml:"rotation,omitempty"`
	Quaternion  *[4]float32   `yaml:"quaternion,omitempty" toml:"quaternion,omitempty"` // x, y, z, w
	Scale       *[3]float32   `yaml:"scale,omitempty" toml:"scale,omitempty"`
	LookAt      *LookAtDesc   `yaml:"look_at,omitempty" toml:"look_at,omitempty"`
}

// RotationDesc is a rotation of Angle degrees around Axis.
type RotationDesc struct {
	Axis  [3]float32 `yaml:"axis" toml:"axis"`
	Angle float32    `yaml:"angle" toml:"angle"`
}

// LookAtDesc places an object at Eye with its -Z axis towards Target.
type LookAtDesc struct {
	Eye    [3]float32  `yaml:"eye" toml:"eye"`
	Target [3]float32  `yaml:"target" toml:"target"`
	Up     *[3]float32 `yaml:"up,omitempty" toml:"up,omitempty"` // defaults to +Y
}

// SystemDesc describes a particle system. Zero or nil simulation settings fall back to
// the BuildOptions defaults.
type SystemDesc struct {
	Name               string         `yaml:"name" toml:"name"`
	Dt                 float32        `yaml:"dt,omitempty" toml:"dt,omitempty"`
	Restitution        *float32       `yaml:"restitution,omitempty" toml:"restitution,omitempty"`
	Collisions         *bool          `yaml:"collisions,omitempty" toml:"collisions,omitempty"`
	ParticleCollisions bool           `yaml:"particle_collisions,omitempty" toml:"particle_collisions,omitempty"`
	MaxSubSteps        int            `yaml:"max_substeps,omitempty" toml:"max_substeps,omitempty"`
	Particles          []ParticleDesc `yaml:"particles" toml:"particles"`
	Fields             []FieldDesc    `yaml:"fields,omitempty" toml:"fields,omitempty"`
	Planes             []PlaneDesc    `yaml:"planes,omitempty" toml:"planes,omitempty"`
}

// ParticleDesc describes one particle.
type ParticleDesc struct {
	Name     string     `yaml:"name,omitempty" toml:"name,omitempty"`
	Position [3]float32 `yaml:"position" toml:"position"`
	Velocity [3]float32 `yaml:"velocity,omitempty" toml:"velocity,omitempty"`
	Mass     float32    `yaml:"mass" toml:"mass"`
	Radius   float32    `yaml:"radius,omitempty" toml:"radius,omitempty"`
	Fixed    bool       `yaml:"fixed,omitempty" toml:"fixed,omitempty"`
}

// FieldDesc describes a force field. Type is one of constant, gravity, damping, spring.
// Particles lists particle names; for every type but spring an empty list means all
// particles of the system. Springs need exactly two.
type FieldDesc struct {
	Type         string      `yaml:"type" toml:"type"`
	Particles    []string    `yaml:"particles,omitempty" toml:"particles,omitempty"`
	Force        *[3]float32 `yaml:"force,omitempty" toml:"force,omitempty"`
	Acceleration *[3]float32 `yaml:"acceleration,omitempty" toml:"acceleration,omitempty"`
	Damping      float32     `yaml:"damping,omitempty" toml:"damping,omitempty"`
	Stiffness    float32     `yaml:"stiffness,omitempty" toml:"stiffness,omitempty"`
	RestLength   *float32    `yaml:"rest_length,omitempty" toml:"rest_length,omitempty"`
}

// PlaneDesc describes a collision plane either by offset or by a point on it.
type PlaneDesc struct {
	Normal [3]float32  `yaml:"normal" toml:"normal"`
	Offset float32     `yaml:"offset,omitempty" toml:"offset,omitempty"`
	Point  *[3]float32 `yaml:"point,omitempty" toml:"point,omitempty"`
}
