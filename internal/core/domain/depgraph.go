package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// NodeRef is a dependency reference used during graph expansion: either a
// realized node value or a bare key to be resolved through the builder's
// resolveMissing hook.
type NodeRef[T any] struct {
	value T
	key   string
	bare  bool
}

// RefValue wraps a realized dependency value.
func RefValue[T any](v T) NodeRef[T] {
	return NodeRef[T]{value: v}
}

// RefKey wraps a dependency referenced by key only.
func RefKey[T any](key string) NodeRef[T] {
	return NodeRef[T]{key: key, bare: true}
}

// DepGraph is a DAG of nodes deduplicated by identity key. It is read-only
// after construction.
type DepGraph[T any] struct {
	nodes map[string]T
	deps  map[string][]string
	order []string
}

// BuildDepGraph expands roots transitively into a DAG.
//
// key derives a node's stable identity; a node whose key was already expanded
// is reused, not duplicated, so a node with many dependents is realized
// exactly once. deps reports a node's direct dependencies, normally as
// realized values via RefValue; resolveMissing is consulted only for bare
// RefKey references and never runs when all dependencies are supplied as
// values.
//
// Expansion is depth-first with per-key visiting/done marking; revisiting a
// node that is still mid-expansion is a back-edge and fails with a cycle
// error naming the offending path.
func BuildDepGraph[T any](
	roots []T,
	key func(T) string,
	resolveMissing func(key string) (T, error),
	deps func(T) []NodeRef[T],
) (*DepGraph[T], error) {
	g := &DepGraph[T]{
		nodes: make(map[string]T),
		deps:  make(map[string][]string),
	}

	// 0: unvisited, 1: visiting, 2: done
	visited := make(map[string]int)
	var path []string

	var visit func(node T) error
	visit = func(node T) error {
		k := key(node)
		visited[k] = 1
		path = append(path, k)
		g.nodes[k] = node

		for _, ref := range deps(node) {
			dep := ref.value
			if ref.bare {
				resolved, err := resolveMissing(ref.key)
				if err != nil {
					return zerr.With(err, "key", ref.key)
				}
				dep = resolved
			}
			dk := key(dep)

			switch visited[dk] {
			case 1:
				return depCycleError(path, dk)
			case 0:
				if err := visit(dep); err != nil {
					return err
				}
			}
			g.deps[k] = append(g.deps[k], dk)
		}

		visited[k] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, k)
		return nil
	}

	for _, root := range roots {
		if visited[key(root)] == 0 {
			if err := visit(root); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func depCycleError(path []string, dep string) error {
	cycle := ""
	started := false
	for _, k := range path {
		if k == dep {
			started = true
		}
		if started {
			cycle += k + " -> "
		}
	}
	cycle += dep
	return zerr.With(ErrCycleDetected, "cycle", cycle)
}

// Node returns the realized node for an identity key.
func (g *DepGraph[T]) Node(key string) (T, bool) {
	node, ok := g.nodes[key]
	return node, ok
}

// Deps returns the identity keys of a node's direct dependencies.
func (g *DepGraph[T]) Deps(key string) []string {
	return g.deps[key]
}

// Len returns the number of unique nodes in the graph.
func (g *DepGraph[T]) Len() int {
	return len(g.order)
}

// Walk yields nodes in topological order, dependencies first.
func (g *DepGraph[T]) Walk() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, k := range g.order {
			if !yield(g.nodes[k]) {
				return
			}
		}
	}
}
