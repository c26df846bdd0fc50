package biovis

import (
	"slices"
	"strconv"
)

// ComponentID names a registered drawable. Ids come from a per-scene
// counter starting at 1 and are never reused; the zero value is never issued.
type ComponentID uint64

func (id ComponentID) String() string {
	return "component-" + strconv.FormatUint(uint64(id), 10)
}

// Registry maps component ids to drawables. It is owned by a single Scene
// and, like the rest of the engine, must only be used from the frame thread.
type Registry struct {
	next   ComponentID
	byID   map[ComponentID]*Node
	byNode map[*Node]ComponentID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[ComponentID]*Node),
		byNode: make(map[*Node]ComponentID),
	}
}

// Register stores n under a fresh id and returns it. A node that is already
// registered keeps its id, so no drawable is ever reachable through two ids.
// Panics if n is nil.
func (r *Registry) Register(n *Node) ComponentID {
	if n == nil {
		panic("biovis: cannot register nil node")
	}
	if id, ok := r.byNode[n]; ok {
		return id
	}
	r.next++
	id := r.next
	r.byID[id] = n
	r.byNode[n] = id
	return id
}

// Get returns the drawable for id, or nil when the id is unknown.
func (r *Registry) Get(id ComponentID) *Node {
	return r.byID[id]
}

// Lookup returns the drawable for id and whether it is live. A registered
// node that was disposed behind the registry's back counts as missing.
func (r *Registry) Lookup(id ComponentID) (*Node, bool) {
	n, ok := r.byID[id]
	if !ok || n.IsDisposed() {
		return nil, false
	}
	return n, true
}

// IDOf returns the id a node was registered under.
func (r *Registry) IDOf(n *Node) (ComponentID, bool) {
	id, ok := r.byNode[n]
	return id, ok
}

// Remove detaches the drawable from its layer, disposes it and deletes the
// mapping. Reports whether the id was registered; removing a missing id is a
// no-op.
func (r *Registry) Remove(id ComponentID) bool {
	n, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	delete(r.byNode, n)
	n.Dispose()
	return true
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return len(r.byID)
}

// IDs returns every registered id in ascending (creation) order.
func (r *Registry) IDs() []ComponentID {
	ids := make([]ComponentID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clear disposes every registered drawable and empties the registry. The id
// counter is not reset.
func (r *Registry) Clear() {
	for id, n := range r.byID {
		n.Dispose()
		delete(r.byID, id)
	}
	clear(r.byNode)
}
