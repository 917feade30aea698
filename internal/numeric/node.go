package numeric

import (
	"fmt"

	"github.com/roach88/paramset/internal/graph"
)

// Graph layout shared by Materialize and Load:
//
//	set node ──head──▶ interval ──next──▶ interval ──next──▶ ...
//	interval ──min──▶ scalar{value}
//	interval ──max──▶ scalar{value}
//
// An empty set is a set node with no head child.
const (
	labelHead = "head"
	labelMin  = "min"
	labelMax  = "max"
	attrValue = "value"
)

// NodeStore is the attributed node store a set is threaded through.
// *graph.Graph satisfies it.
type NodeStore interface {
	CreateNode() graph.NodeRef
	AddChild(parent, child graph.NodeRef, label string) error
	ChildByLabel(n graph.NodeRef, label string) (graph.NodeRef, bool)
	AddNext(n, next graph.NodeRef) error
	Next(n graph.NodeRef) (graph.NodeRef, bool)
	SetAttr(n graph.NodeRef, key string, value float64) error
	Attr(n graph.NodeRef, key string) (float64, bool)
}

// Materialize writes s into g and returns the set node.
func Materialize(g NodeStore, s Set) (graph.NodeRef, error) {
	root := g.CreateNode()
	prev := graph.None
	for i, iv := range s.ivs {
		n, err := MaterializeInterval(g, iv)
		if err != nil {
			return graph.None, fmt.Errorf("materialize interval %d: %w", i, err)
		}
		if prev == graph.None {
			err = g.AddChild(root, n, labelHead)
		} else {
			err = g.AddNext(prev, n)
		}
		if err != nil {
			return graph.None, fmt.Errorf("materialize interval %d: %w", i, err)
		}
		prev = n
	}
	return root, nil
}

// MaterializeInterval writes iv into g and returns the interval node.
func MaterializeInterval(g NodeStore, iv Interval) (graph.NodeRef, error) {
	n := g.CreateNode()
	for _, b := range []struct {
		label string
		value float64
	}{{labelMin, iv.min}, {labelMax, iv.max}} {
		leaf := g.CreateNode()
		if err := g.SetAttr(leaf, attrValue, b.value); err != nil {
			return graph.None, err
		}
		if err := g.AddChild(n, leaf, b.label); err != nil {
			return graph.None, err
		}
	}
	return n, nil
}

// Load walks the chain under a set node. The result is rebuilt through
// NewSet, so a hand-built chain that is out of order or overlapping comes
// back normalised.
func Load(g NodeStore, root graph.NodeRef) (Set, error) {
	head, ok := g.ChildByLabel(root, labelHead)
	if !ok {
		return Set{}, nil
	}

	var ivs []Interval
	seen := make(map[graph.NodeRef]bool)
	for n, ok := head, true; ok; n, ok = g.Next(n) {
		if seen[n] {
			return Set{}, fmt.Errorf("load set %d: chain revisits node %d", root, n)
		}
		seen[n] = true

		iv, err := LoadInterval(g, n)
		if err != nil {
			return Set{}, fmt.Errorf("load set %d: %w", root, err)
		}
		ivs = append(ivs, iv)
	}
	return NewSet(ivs), nil
}

// LoadInterval reads an interval node and validates its bounds.
func LoadInterval(g NodeStore, n graph.NodeRef) (Interval, error) {
	lo, err := scalar(g, n, labelMin)
	if err != nil {
		return Interval{}, err
	}
	hi, err := scalar(g, n, labelMax)
	if err != nil {
		return Interval{}, err
	}
	iv, err := NewInterval(lo, hi)
	if err != nil {
		return Interval{}, fmt.Errorf("interval node %d: %w", n, err)
	}
	return iv, nil
}

func scalar(g NodeStore, n graph.NodeRef, label string) (float64, error) {
	child, ok := g.ChildByLabel(n, label)
	if !ok {
		return 0, fmt.Errorf("interval node %d: missing %q child", n, label)
	}
	v, ok := g.Attr(child, attrValue)
	if !ok {
		return 0, fmt.Errorf("interval node %d: %q child has no value", n, label)
	}
	return v, nil
}
