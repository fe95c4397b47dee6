package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/kinema/internal/engine/animation"
	"github.com/Faultbox/kinema/internal/engine/dynamics"
	"github.com/Faultbox/kinema/internal/engine/hierarchy"
	"github.com/Faultbox/kinema/pkg/math"
)

var (
	// ErrUnknownNode is returned when a node names a parent that does not exist.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnknownParticle is returned when a field names a particle that does not exist.
	ErrUnknownParticle = errors.New("unknown particle")
	// ErrUnknownFieldType is returned for force field types other than constant, gravity,
	// damping and spring.
	ErrUnknownFieldType = errors.New("unknown force field type")
	// ErrDuplicateParticle is returned when two particles of a system share a name.
	ErrDuplicateParticle = errors.New("duplicate particle name")
	// ErrSpringParticles is returned for springs that do not name exactly two particles.
	ErrSpringParticles = errors.New("spring needs exactly two particles")
	// ErrAmbiguousTransform is returned when a transform sets the same degree of
	// freedom twice (look_at with translation or rotation, rotation with quaternion).
	ErrAmbiguousTransform = errors.New("ambiguous transform")
	// ErrInvalidRotation is returned for zero rotation axes and zero quaternions.
	ErrInvalidRotation = errors.New("invalid rotation")
	// ErrDegenerateLookAt is returned when eye and target coincide or up is parallel to
	// the viewing direction.
	ErrDegenerateLookAt = errors.New("degenerate look_at")
)

const degenerateEpsilon = 1e-6

// BuildOptions holds the defaults for settings a system description leaves out.
type BuildOptions struct {
	Dt          float32
	Restitution float32
	Collisions  bool
	MaxSubSteps int
	Logger      *zap.Logger // nil discards scene logs
}

// DefaultBuildOptions returns the built-in simulation defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Dt:          0.01,
		Restitution: 1,
		MaxSubSteps: dynamics.DefaultMaxSubSteps,
	}
}

// Build turns a description into a runnable scene.
func Build(desc *Description, opts BuildOptions) (*Scene, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	graph, err := buildGraph(desc)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Name:  desc.Name,
		Graph: graph,
		log:   log,
	}
	for i := range desc.Systems {
		inst, err := buildSystem(&desc.Systems[i], opts)
		if err != nil {
			return nil, fmt.Errorf("system %s: %w", label(desc.Systems[i].Name, i), err)
		}
		s.Systems = append(s.Systems, inst)
	}

	log.Debug("scene built",
		zap.String("name", s.Name),
		zap.Int("nodes", graph.Len()),
		zap.Int("systems", len(s.Systems)))
	return s, nil
}

func buildGraph(desc *Description) (*hierarchy.Graph, error) {
	g := hierarchy.New()
	if desc.InheritLocal != nil {
		g.SetLocalInherited(*desc.InheritLocal)
	}

	handles := make([]hierarchy.Handle, len(desc.Nodes))
	for i := range desc.Nodes {
		nd := &desc.Nodes[i]
		h, err := g.AddNode(nd.Name)
		if err != nil {
			return nil, err
		}
		handles[i] = h

		if err := applyTrack(g, h, nd.Local, nd.LocalKeyframes, g.SetLocalTransform, g.AddLocalTransformKeyframe); err != nil {
			return nil, fmt.Errorf("node %s: local: %w", label(nd.Name, i), err)
		}
		if err := applyTrack(g, h, nd.Global, nd.GlobalKeyframes, g.SetGlobalTransform, g.AddGlobalTransformKeyframe); err != nil {
			return nil, fmt.Errorf("node %s: global: %w", label(nd.Name, i), err)
		}
	}

	// Parents may be declared after their children.
	for i := range desc.Nodes {
		nd := &desc.Nodes[i]
		if nd.Parent == "" {
			continue
		}
		parent, ok := g.Lookup(nd.Parent)
		if !ok {
			return nil, fmt.Errorf("node %s: parent %q: %w", label(nd.Name, i), nd.Parent, ErrUnknownNode)
		}
		if err := g.AddChild(parent, handles[i]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func applyTrack(
	g *hierarchy.Graph,
	h hierarchy.Handle,
	static *TransformDesc,
	keys []KeyframeDesc,
	setStatic func(hierarchy.Handle, math.Mat4) error,
	addKey func(hierarchy.Handle, animation.Transform, float32) error,
) error {
	if static != nil {
		tr, err := static.Transform()
		if err != nil {
			return err
		}
		if err := setStatic(h, tr.ToMatrix()); err != nil {
			return err
		}
	}
	for _, k := range keys {
		tr, err := k.Transform.Transform()
		if err != nil {
			return fmt.Errorf("keyframe at %v: %w", k.Time, err)
		}
		if err := addKey(h, tr, k.Time); err != nil {
			return err
		}
	}
	return nil
}

// Transform converts the description into a transform.
func (d TransformDesc) Transform() (animation.Transform, error) {
	if d.Rotation != nil && d.Quaternion != nil {
		return animation.Transform{}, fmt.Errorf("rotation and quaternion: %w", ErrAmbiguousTransform)
	}
	if d.LookAt != nil && (d.Translation != nil || d.Rotation != nil || d.Quaternion != nil) {
		return animation.Transform{}, fmt.Errorf("look_at with translation or rotation: %w", ErrAmbiguousTransform)
	}

	tr := animation.IdentityTransform()
	switch {
	case d.LookAt != nil:
		m, err := d.LookAt.matrix()
		if err != nil {
			return animation.Transform{}, err
		}
		tr = animation.TransformFromMatrix(m)
	case d.Rotation != nil:
		axis := vec3(d.Rotation.Axis)
		if axis.Length() < degenerateEpsilon {
			return animation.Transform{}, fmt.Errorf("zero axis: %w", ErrInvalidRotation)
		}
		tr.Orientation = math.QuatFromAxisAngle(axis, d.Rotation.Angle*math32.Pi/180)
	case d.Quaternion != nil:
		q := math.Quat{X: d.Quaternion[0], Y: d.Quaternion[1], Z: d.Quaternion[2], W: d.Quaternion[3]}
		if q.Length() < degenerateEpsilon {
			return animation.Transform{}, fmt.Errorf("zero quaternion: %w", ErrInvalidRotation)
		}
		tr.Orientation = q
	}
	if d.Translation != nil {
		tr.Translation = vec3(*d.Translation)
	}
	if d.Scale != nil {
		tr.Scale = vec3(*d.Scale)
	}
	return animation.NewTransform(tr.Translation, tr.Orientation, tr.Scale), nil
}

func (l *LookAtDesc) matrix() (math.Mat4, error) {
	eye, target := vec3(l.Eye), vec3(l.Target)
	up := math.V3(0, 1, 0)
	if l.Up != nil {
		up = vec3(*l.Up)
	}
	dir := target.Sub(eye)
	if dir.Length() < degenerateEpsilon || dir.Normalize().Cross(up).Length() < degenerateEpsilon {
		return math.Mat4{}, fmt.Errorf("eye %v target %v up %v: %w", eye, target, up, ErrDegenerateLookAt)
	}
	return math.LookAtModel(eye, target, up), nil
}

func buildSystem(sd *SystemDesc, opts BuildOptions) (*SystemInstance, error) {
	dt := sd.Dt
	if dt == 0 {
		dt = opts.Dt
	}
	sys, err := dynamics.NewSystem(dt)
	if err != nil {
		return nil, err
	}

	restitution := opts.Restitution
	if sd.Restitution != nil {
		restitution = *sd.Restitution
	}
	if err := sys.SetRestitution(restitution); err != nil {
		return nil, err
	}
	collisions := opts.Collisions
	if sd.Collisions != nil {
		collisions = *sd.Collisions
	}
	sys.SetCollisionDetection(collisions)
	sys.SetParticleCollisions(sd.ParticleCollisions)

	inst := &SystemInstance{
		Name:      sd.Name,
		System:    sys,
		particles: make(map[string]*dynamics.Particle),
	}

	for i, pd := range sd.Particles {
		p, err := dynamics.NewParticle(vec3(pd.Position), vec3(pd.Velocity), pd.Mass, pd.Radius)
		if err != nil {
			return nil, fmt.Errorf("particle %s: %w", label(pd.Name, i), err)
		}
		p.Name = pd.Name
		p.Fixed = pd.Fixed
		if pd.Name != "" {
			if _, ok := inst.particles[pd.Name]; ok {
				return nil, fmt.Errorf("particle %q: %w", pd.Name, ErrDuplicateParticle)
			}
			inst.particles[pd.Name] = p
		}
		sys.AddParticle(p)
	}

	for i := range sd.Fields {
		f, err := inst.buildField(&sd.Fields[i])
		if err != nil {
			return nil, fmt.Errorf("field %d (%s): %w", i, sd.Fields[i].Type, err)
		}
		sys.AddForceField(f)
	}

	for i, pd := range sd.Planes {
		var (
			pl  dynamics.Plane
			err error
		)
		if pd.Point != nil {
			pl, err = dynamics.PlaneThroughPoint(vec3(pd.Normal), vec3(*pd.Point))
		} else {
			pl, err = dynamics.NewPlane(vec3(pd.Normal), pd.Offset)
		}
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", i, err)
		}
		sys.AddPlane(pl)
	}

	maxSubSteps := sd.MaxSubSteps
	if maxSubSteps == 0 {
		maxSubSteps = opts.MaxSubSteps
	}
	inst.Stepper = dynamics.NewStepper(sys, maxSubSteps)
	return inst, nil
}

func (inst *SystemInstance) buildField(fd *FieldDesc) (dynamics.ForceField, error) {
	particles, err := inst.resolve(fd.Particles)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(fd.Type) {
	case "constant":
		var force math.Vec3
		if fd.Force != nil {
			force = vec3(*fd.Force)
		}
		return dynamics.NewConstantForceField(particles, force), nil
	case "gravity":
		acc := dynamics.Gravity
		if fd.Acceleration != nil {
			acc = vec3(*fd.Acceleration)
		}
		return dynamics.NewGravityForceField(particles, acc), nil
	case "damping":
		return dynamics.NewDampingForceField(particles, fd.Damping), nil
	case "spring":
		if len(fd.Particles) != 2 {
			return nil, fmt.Errorf("got %d: %w", len(fd.Particles), ErrSpringParticles)
		}
		p1, p2 := particles[0], particles[1]
		rest := p1.Position.Distance(p2.Position)
		if fd.RestLength != nil {
			rest = *fd.RestLength
		}
		return dynamics.NewSpringForceField(p1, p2, fd.Stiffness, rest, fd.Damping), nil
	}
	return nil, fmt.Errorf("%q: %w", fd.Type, ErrUnknownFieldType)
}

// resolve maps particle names to particles. No names selects every particle.
func (inst *SystemInstance) resolve(names []string) ([]*dynamics.Particle, error) {
	if len(names) == 0 {
		return append([]*dynamics.Particle(nil), inst.System.Particles()...), nil
	}
	out := make([]*dynamics.Particle, 0, len(names))
	for _, name := range names {
		p, ok := inst.particles[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownParticle)
		}
		out = append(out, p)
	}
	return out, nil
}

func vec3(a [3]float32) math.Vec3 {
	return math.V3(a[0], a[1], a[2])
}

func label(name string, index int) string {
	if name == "" {
		return fmt.Sprintf("#%d", index)
	}
	return fmt.Sprintf("%q", name)
}
