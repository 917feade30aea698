package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/paramset/internal/ir"
)

// CycleWarning reports a dependency cycle between derived parameters.
// A cycle makes every parameter on it unresolvable.
type CycleWarning struct {
	Path    []string `json:"path"`    // e.g. ["a", "b", "a"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // always "error"
}

// AnalyzeCycles finds dependency cycles among derived parameters.
//
// Edges run from a parameter to each of its derive args. Tarjan's algorithm
// finds strongly connected components; every component with more than one
// member, or with a self-loop, is reported. Results follow declaration
// order so output is stable.
//
// An acyclic spec list returns an empty slice.
func AnalyzeCycles(specs []ir.ParamSpec) []CycleWarning {
	graph, order := buildDependencyGraph(specs)

	warnings := []CycleWarning{}
	for _, scc := range tarjanSCC(graph, order) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph, order))
		}
	}
	return warnings
}

// dependencyGraph maps a parameter to the parameters it derives from.
type dependencyGraph map[string][]string

// buildDependencyGraph returns the graph and the declaration order of its
// nodes. Args that name no declared parameter are left out; Validate
// reports them separately.
func buildDependencyGraph(specs []ir.ParamSpec) (dependencyGraph, []string) {
	graph := make(dependencyGraph, len(specs))
	var order []string
	for _, s := range specs {
		if _, seen := graph[s.Name]; seen {
			continue
		}
		graph[s.Name] = []string{}
		order = append(order, s.Name)
	}
	for _, s := range specs {
		if s.Derive == nil {
			continue
		}
		for _, arg := range s.Derive.Args {
			if _, ok := graph[arg]; ok && !slices.Contains(graph[s.Name], arg) {
				graph[s.Name] = append(graph[s.Name], arg)
			}
		}
	}
	return graph, order
}

func hasSelfLoop(node string, graph dependencyGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm,
// visiting roots in the given order.
func tarjanSCC(graph dependencyGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// cycleSCCToWarning renders an SCC as a closed path starting at the member
// declared first.
func cycleSCCToWarning(scc []string, graph dependencyGraph, order []string) CycleWarning {
	start := scc[0]
	for _, name := range order {
		if slices.Contains(scc, name) {
			start = name
			break
		}
	}

	if len(scc) == 1 {
		return CycleWarning{
			Path:    []string{start, start},
			Message: fmt.Sprintf("parameter derives from itself: %s → %s", start, start),
			Level:   "error",
		}
	}

	path := reconstructCyclePath(start, scc, graph)
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("dependency cycle: %s", strings.Join(path, " → ")),
		Level:   "error",
	}
}

// reconstructCyclePath returns the shortest closed path from start back to
// start through members of the SCC, found breadth-first.
func reconstructCyclePath(start string, scc []string, graph dependencyGraph) []string {
	parent := map[string]string{}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range graph[current] {
			if !slices.Contains(scc, neighbor) {
				continue
			}
			if neighbor == start {
				path := []string{start}
				for n := current; n != start; n = parent[n] {
					path = append(path, n)
				}
				path = append(path, start)
				slices.Reverse(path)
				return path
			}
			if _, seen := parent[neighbor]; !seen {
				parent[neighbor] = current
				queue = append(queue, neighbor)
			}
		}
	}
	return []string{start}
}
