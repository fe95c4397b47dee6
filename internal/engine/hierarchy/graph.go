// Package hierarchy implements the scene graph: an arena of nodes addressed by handle,
// each carrying a local and a global transform track, whose world matrices are
// recomputed from the tracks every frame.
package hierarchy

import (
	"errors"
	"fmt"

	"github.com/Faultbox/kinema/internal/engine/animation"
	"github.com/Faultbox/kinema/pkg/math"
)

var (
	// ErrInvalidHandle is returned for handles that do not name a node of the graph.
	ErrInvalidHandle = errors.New("invalid node handle")
	// ErrAlreadyParented is returned when attaching a node that already has a parent.
	ErrAlreadyParented = errors.New("node already has a parent")
	// ErrCycle is returned when an attachment would make a node its own ancestor.
	ErrCycle = errors.New("attachment would create a cycle")
	// ErrDuplicateName is returned when a node name is already taken.
	ErrDuplicateName = errors.New("duplicate node name")
)

// Handle identifies a node in a Graph.
type Handle int

// NoHandle marks the absence of a node (the parent of a root).
const NoHandle Handle = -1

type node struct {
	name     string
	parent   Handle
	children []Handle

	local  animation.Track
	global animation.Track

	// Results of the last Animate call
	inherited math.Mat4 // parentWorld * global
	world     math.Mat4 // inherited * local
}

// Graph is a forest of nodes. Every node has at most one parent.
type Graph struct {
	nodes          []node
	byName         map[string]Handle
	localInherited bool
}

// New creates an empty graph. Children inherit their parent's full world transform.
func New() *Graph {
	return &Graph{
		byName:         make(map[string]Handle),
		localInherited: true,
	}
}

// SetLocalInherited selects what children inherit. With true (the default) a child's
// parent transform is the parent's world matrix, parentWorld * global * local. With
// false it is parentWorld * global: the local transform shapes the node itself only.
func (g *Graph) SetLocalInherited(inherit bool) {
	g.localInherited = inherit
}

// LocalInherited reports the current inheritance mode.
func (g *Graph) LocalInherited() bool {
	return g.localInherited
}

// AddNode creates a parentless node with identity transforms. The name may be empty;
// non-empty names must be unique.
func (g *Graph) AddNode(name string) (Handle, error) {
	if name != "" {
		if _, ok := g.byName[name]; ok {
			return NoHandle, fmt.Errorf("adding node %q: %w", name, ErrDuplicateName)
		}
	}

	h := Handle(len(g.nodes))
	g.nodes = append(g.nodes, node{
		name:      name,
		parent:    NoHandle,
		inherited: math.Identity(),
		world:     math.Identity(),
	})
	if name != "" {
		g.byName[name] = h
	}
	return h, nil
}

// AddChild attaches child under parent. Re-parenting is rejected, as is any link that
// would make a node its own ancestor.
func (g *Graph) AddChild(parent, child Handle) error {
	if !g.valid(parent) || !g.valid(child) {
		return fmt.Errorf("attaching %d to %d: %w", child, parent, ErrInvalidHandle)
	}
	if g.nodes[child].parent != NoHandle {
		return fmt.Errorf("attaching %s to %s: %w", g.label(child), g.label(parent), ErrAlreadyParented)
	}
	for a := parent; a != NoHandle; a = g.nodes[a].parent {
		if a == child {
			return fmt.Errorf("attaching %s to %s: %w", g.label(child), g.label(parent), ErrCycle)
		}
	}

	g.nodes[child].parent = parent
	g.nodes[parent].children = append(g.nodes[parent].children, child)
	return nil
}

// SetLocalTransform sets the static local matrix of h.
func (g *Graph) SetLocalTransform(h Handle, m math.Mat4) error {
	if !g.valid(h) {
		return fmt.Errorf("setting local transform of %d: %w", h, ErrInvalidHandle)
	}
	g.nodes[h].local.SetStatic(m)
	return nil
}

// SetGlobalTransform sets the static global matrix of h.
func (g *Graph) SetGlobalTransform(h Handle, m math.Mat4) error {
	if !g.valid(h) {
		return fmt.Errorf("setting global transform of %d: %w", h, ErrInvalidHandle)
	}
	g.nodes[h].global.SetStatic(m)
	return nil
}

// AddLocalTransformKeyframe adds a keyframe to the local track of h.
func (g *Graph) AddLocalTransformKeyframe(h Handle, tr animation.Transform, time float32) error {
	if !g.valid(h) {
		return fmt.Errorf("adding local keyframe to %d: %w", h, ErrInvalidHandle)
	}
	if err := g.nodes[h].local.AddKeyframe(tr, time); err != nil {
		return fmt.Errorf("node %s: %w", g.label(h), err)
	}
	return nil
}

// AddGlobalTransformKeyframe adds a keyframe to the global track of h.
func (g *Graph) AddGlobalTransformKeyframe(h Handle, tr animation.Transform, time float32) error {
	if !g.valid(h) {
		return fmt.Errorf("adding global keyframe to %d: %w", h, ErrInvalidHandle)
	}
	if err := g.nodes[h].global.AddKeyframe(tr, time); err != nil {
		return fmt.Errorf("node %s: %w", g.label(h), err)
	}
	return nil
}

// LocalTrack returns the local track of h, or nil for an invalid handle.
func (g *Graph) LocalTrack(h Handle) *animation.Track {
	if !g.valid(h) {
		return nil
	}
	return &g.nodes[h].local
}

// GlobalTrack returns the global track of h, or nil for an invalid handle.
func (g *Graph) GlobalTrack(h Handle) *animation.Track {
	if !g.valid(h) {
		return nil
	}
	return &g.nodes[h].global
}

// Animate recomputes every node's world matrix at time t, roots starting from identity.
func (g *Graph) Animate(t float32) {
	g.AnimateFrom(math.Identity(), t)
}

// AnimateFrom recomputes every node's world matrix at time t with root as the parent
// transform of every root node.
func (g *Graph) AnimateFrom(root math.Mat4, t float32) {
	for h := range g.nodes {
		if g.nodes[h].parent == NoHandle {
			g.animate(Handle(h), root, t)
		}
	}
}

func (g *Graph) animate(h Handle, parentWorld math.Mat4, t float32) {
	n := &g.nodes[h]
	n.inherited = parentWorld.Mul(n.global.Eval(t))
	n.world = n.inherited.Mul(n.local.Eval(t))

	next := n.world
	if !g.localInherited {
		next = n.inherited
	}
	for _, c := range n.children {
		g.animate(c, next, t)
	}
}

// World returns the world matrix computed by the last Animate call.
func (g *Graph) World(h Handle) math.Mat4 {
	if !g.valid(h) {
		return math.Identity()
	}
	return g.nodes[h].world
}

// Inherited returns parentWorld * global from the last Animate call.
func (g *Graph) Inherited(h Handle) math.Mat4 {
	if !g.valid(h) {
		return math.Identity()
	}
	return g.nodes[h].inherited
}

// WorldPosition returns the node's origin in world space.
func (g *Graph) WorldPosition(h Handle) math.Vec3 {
	return g.World(h).TransformPoint(math.Vec3{})
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Name returns the node's name.
func (g *Graph) Name(h Handle) string {
	if !g.valid(h) {
		return ""
	}
	return g.nodes[h].name
}

// Lookup finds a node by name.
func (g *Graph) Lookup(name string) (Handle, bool) {
	h, ok := g.byName[name]
	return h, ok
}

// Parent returns the parent of h, or NoHandle for roots and invalid handles.
func (g *Graph) Parent(h Handle) Handle {
	if !g.valid(h) {
		return NoHandle
	}
	return g.nodes[h].parent
}

// Children returns a copy of the children of h in attachment order.
func (g *Graph) Children(h Handle) []Handle {
	if !g.valid(h) {
		return nil
	}
	return append([]Handle(nil), g.nodes[h].children...)
}

// Roots returns the parentless nodes in creation order.
func (g *Graph) Roots() []Handle {
	var roots []Handle
	for h := range g.nodes {
		if g.nodes[h].parent == NoHandle {
			roots = append(roots, Handle(h))
		}
	}
	return roots
}

// Walk visits nodes depth-first, parents before children, roots in creation order.
// Returning false from fn skips the node's subtree.
func (g *Graph) Walk(fn func(h Handle, depth int) bool) {
	for _, r := range g.Roots() {
		g.walk(r, 0, fn)
	}
}

func (g *Graph) walk(h Handle, depth int, fn func(Handle, int) bool) {
	if !fn(h, depth) {
		return
	}
	for _, c := range g.nodes[h].children {
		g.walk(c, depth+1, fn)
	}
}

func (g *Graph) valid(h Handle) bool {
	return h >= 0 && int(h) < len(g.nodes)
}

func (g *Graph) label(h Handle) string {
	if name := g.nodes[h].name; name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("#%d", h)
}
