// Package graph provides an arena-backed attributed node store.
//
// Nodes are addressed by integer NodeRef indices into the arena; there are no
// pointers between nodes. Each node carries:
//   - labeled parent→child composition edges
//   - at most one "next" sibling edge (singly linked chains)
//   - a key→float64 attribute bag
//
// Nodes are never freed individually. The arena is released as a whole when
// the Graph is dropped.
//
// Thread-safety: all methods take the internal lock, so concurrent reads of
// already-built structures are safe. Building a structure from several
// goroutines at once is not supported; callers serialise writers.
package graph

import (
	"fmt"
	"sync"
)

// NodeRef identifies a node inside a Graph.
// The zero value is never handed out, so a zero NodeRef means "no node".
type NodeRef int

// None is the absent node reference.
const None NodeRef = 0

type node struct {
	children map[string]NodeRef
	next     NodeRef
	attrs    map[string]float64
}

// Graph is an arena of nodes.
type Graph struct {
	mu    sync.RWMutex
	nodes []node // index 0 reserved for None
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make([]node, 1)}
}

// CreateNode allocates a new node and returns its reference.
func (g *Graph) CreateNode() NodeRef {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = append(g.nodes, node{})
	return NodeRef(len(g.nodes) - 1)
}

// Len returns the number of allocated nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes) - 1
}

// AddChild attaches child under parent with the given label.
// A second child with the same label replaces the first.
func (g *Graph) AddChild(parent, child NodeRef, label string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.check(parent); err != nil {
		return fmt.Errorf("add child %q: parent: %w", label, err)
	}
	if err := g.check(child); err != nil {
		return fmt.Errorf("add child %q: child: %w", label, err)
	}

	n := &g.nodes[parent]
	if n.children == nil {
		n.children = make(map[string]NodeRef)
	}
	n.children[label] = child
	return nil
}

// ChildByLabel returns the child attached under label, if any.
func (g *Graph) ChildByLabel(n NodeRef, label string) (NodeRef, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.check(n) != nil {
		return None, false
	}
	child, ok := g.nodes[n].children[label]
	return child, ok
}

// AddNext links next as the sibling following n.
func (g *Graph) AddNext(n, next NodeRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.check(n); err != nil {
		return fmt.Errorf("add next: %w", err)
	}
	if err := g.check(next); err != nil {
		return fmt.Errorf("add next: target: %w", err)
	}
	if n == next {
		return fmt.Errorf("add next: node %d cannot follow itself", n)
	}
	g.nodes[n].next = next
	return nil
}

// Next returns the sibling following n, if any.
func (g *Graph) Next(n NodeRef) (NodeRef, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.check(n) != nil {
		return None, false
	}
	next := g.nodes[n].next
	return next, next != None
}

// SetAttr stores a scalar attribute on n.
func (g *Graph) SetAttr(n NodeRef, key string, value float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.check(n); err != nil {
		return fmt.Errorf("set attr %q: %w", key, err)
	}
	nd := &g.nodes[n]
	if nd.attrs == nil {
		nd.attrs = make(map[string]float64)
	}
	nd.attrs[key] = value
	return nil
}

// Attr returns the scalar attribute key on n.
func (g *Graph) Attr(n NodeRef, key string) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.check(n) != nil {
		return 0, false
	}
	v, ok := g.nodes[n].attrs[key]
	return v, ok
}

// check reports whether n addresses an allocated node. Caller holds the lock.
func (g *Graph) check(n NodeRef) error {
	if n <= None || int(n) >= len(g.nodes) {
		return fmt.Errorf("node %d does not exist", n)
	}
	return nil
}
