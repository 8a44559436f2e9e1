package deeplink

import (
	"strings"
	"sync"

	"go.uber.org/atomic"
)

// NodeID indexes a route inside the arena that owns it. IDs are stable for
// as long as the route stays in the same arena; registering a tree moves it
// into the registry's arena exactly once.
type NodeID int32

const noNode NodeID = -1

// arena is the flat store behind a route tree. Parent and child links are
// NodeIDs, so the tree has no pointer cycles.
type arena struct {
	mu    sync.RWMutex
	nodes []*Route
	paths *pathtrie

	// master is the anonymous root of a registry arena, noNode for the
	// arena of a standalone tree.
	master NodeID

	// bumped whenever a middleware set changes, invalidating compiled actions
	generation atomic.Uint64
}

func newArena() *arena {
	return &arena{
		paths:  newPathtrie(),
		master: noNode,
	}
}

// newRegistryArena creates an arena anchored by an unnamed, action-less
// master route.
func newRegistryArena() (*arena, *Route) {
	a := newArena()
	root := newRoute("", KindOther, nil)
	a.insert(root)
	a.master = root.id
	return a, root
}

// insert appends r to the arena without linking it to a parent.
// a.mu must be held.
func (a *arena) insert(r *Route) {
	r.id = NodeID(len(a.nodes))
	r.arena.Store(a)
	a.nodes = append(a.nodes, r)
}

// attach links child below parent and indexes it. a.mu must be held.
func (a *arena) attach(parent, child *Route) {
	a.insert(child)
	child.parent = parent.id
	parent.children = append(parent.children, child.id)
	if child.kind == KindVariable {
		parent.variable = child.id
	} else {
		if parent.byName == nil {
			parent.byName = make(map[string]NodeID)
		}
		parent.byName[child.name] = child.id
	}
	a.paths.Put(a.pathOf(child.id), child)
}

// adopt moves every node of src into a and hangs top below a's master.
// Both locks must be held.
func (a *arena) adopt(src *arena, top *Route) {
	offset := NodeID(len(a.nodes))
	for _, n := range src.nodes {
		n.id += offset
		if n.parent != noNode {
			n.parent += offset
		}
		for i := range n.children {
			n.children[i] += offset
		}
		for k, v := range n.byName {
			n.byName[k] = v + offset
		}
		if n.variable != noNode {
			n.variable += offset
		}
		n.arena.Store(a)
		a.nodes = append(a.nodes, n)
	}

	master := a.nodes[a.master]
	top.parent = master.id
	master.children = append(master.children, top.id)
	if master.byName == nil {
		master.byName = make(map[string]NodeID)
	}
	master.byName[top.name] = top.id

	for _, n := range src.nodes {
		a.paths.Put(a.pathOf(n.id), n)
	}
	src.nodes = nil
	a.generation.Inc()
}

// pathOf renders the pattern of a node. a.mu must be held.
func (a *arena) pathOf(id NodeID) string {
	var labels []string
	for id != noNode && id != a.master {
		n := a.nodes[id]
		labels = append(labels, segmentLabel(n))
		id = n.parent
	}
	var buf strings.Builder
	for i := len(labels) - 1; i >= 0; i-- {
		buf.WriteString(labels[i])
		if i > 0 {
			buf.WriteByte('/')
		}
	}
	return buf.String()
}

func (a *arena) route(id NodeID) *Route {
	if id == noNode || id == a.master {
		return nil
	}
	return a.nodes[id]
}

func (a *arena) collect(ids []NodeID, keep func(*Route) bool) []*Route {
	var list []*Route
	for _, id := range ids {
		n := a.nodes[id]
		if keep == nil || keep(n) {
			list = append(list, n)
		}
	}
	return list
}
