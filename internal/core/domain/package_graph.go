package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// PackageGraph is the dependency DAG among workspace packages, restricted to
// the transitive closure of a chosen root set. It is read-only after
// construction and needs no locking.
type PackageGraph struct {
	packages []*Package
	deps     map[int][]int
	reach    map[int]map[int]bool
	order    []int
}

// BuildPackageGraph resolves the manifest dependency names of the given root
// packages (and, transitively, of everything they depend on) into a graph.
// It fails with a configuration error on an unresolved dependency name and
// with a cycle error on a dependency cycle.
func BuildPackageGraph(all []*Package, roots []*Package) (*PackageGraph, error) {
	byName := make(map[InternedString]*Package, len(all))
	for _, pkg := range all {
		byName[pkg.Name] = pkg
	}

	g := &PackageGraph{
		packages: all,
		deps:     make(map[int][]int),
		reach:    make(map[int]map[int]bool),
	}

	// 0: unvisited, 1: visiting, 2: done
	visited := make(map[int]int)
	var path []*Package

	var visit func(pkg *Package) error
	visit = func(pkg *Package) error {
		visited[pkg.Index] = 1
		path = append(path, pkg)

		for _, depName := range pkg.DepNames {
			dep, ok := byName[depName]
			if !ok {
				err := zerr.With(ErrMissingDependency, "package", pkg.Name.String())
				return zerr.With(err, "dependency", depName.String())
			}

			switch visited[dep.Index] {
			case 1:
				return cycleError(path, dep)
			case 0:
				if err := visit(dep); err != nil {
					return err
				}
			}
			g.deps[pkg.Index] = append(g.deps[pkg.Index], dep.Index)
		}

		visited[pkg.Index] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, root := range roots {
		if visited[root.Index] == 0 {
			if err := visit(root); err != nil {
				return nil, err
			}
		}
	}

	for idx := range visited {
		g.reach[idx] = g.computeReach(idx)
	}
	g.order = g.linearize(visited)

	return g, nil
}

func cycleError(path []*Package, dep *Package) error {
	start := slices.Index(path, dep)
	cycle := ""
	for _, pkg := range path[start:] {
		cycle += pkg.Name.String() + " -> "
	}
	cycle += dep.Name.String()
	return zerr.With(ErrCycleDetected, "cycle", cycle)
}

// computeReach collects every package index transitively reachable from idx.
func (g *PackageGraph) computeReach(idx int) map[int]bool {
	reach := make(map[int]bool)
	stack := slices.Clone(g.deps[idx])
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reach[cur] {
			continue
		}
		reach[cur] = true
		stack = append(stack, g.deps[cur]...)
	}
	return reach
}

// linearize produces a deterministic linear extension of the dependency
// partial order: dependencies precede dependents, ties are broken by package
// name. Kahn's algorithm, always picking the alphabetically smallest ready
// node.
func (g *PackageGraph) linearize(visited map[int]int) []int {
	dependents := make(map[int][]int)
	inDegree := make(map[int]int, len(visited))
	for idx := range visited {
		inDegree[idx] = len(g.deps[idx])
		for _, dep := range g.deps[idx] {
			dependents[dep] = append(dependents[dep], idx)
		}
	}

	var ready []int
	for idx, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, idx)
		}
	}

	less := func(a, b int) int {
		switch {
		case g.packages[a].Name.String() < g.packages[b].Name.String():
			return -1
		case g.packages[a].Name.String() > g.packages[b].Name.String():
			return 1
		default:
			return 0
		}
	}

	order := make([]int, 0, len(inDegree))
	for len(ready) > 0 {
		slices.SortFunc(ready, less)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, dep := range dependents[next] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	return order
}

// IsDependentOn reports whether a transitively depends on b.
func (g *PackageGraph) IsDependentOn(a, b *Package) bool {
	return g.reach[a.Index][b.Index]
}

// Dependencies returns the direct dependencies of pkg within the graph.
func (g *PackageGraph) Dependencies(pkg *Package) []*Package {
	deps := make([]*Package, 0, len(g.deps[pkg.Index]))
	for _, idx := range g.deps[pkg.Index] {
		deps = append(deps, g.packages[idx])
	}
	return deps
}

// Contains reports whether pkg is part of the restricted graph.
func (g *PackageGraph) Contains(pkg *Package) bool {
	_, ok := g.reach[pkg.Index]
	return ok
}

// Len returns the number of packages in the graph.
func (g *PackageGraph) Len() int {
	return len(g.order)
}

// Nodes yields the graph's packages in display order: a stable linear
// extension of the dependency order with alphabetical tie-break.
func (g *PackageGraph) Nodes() iter.Seq[*Package] {
	return func(yield func(*Package) bool) {
		for _, idx := range g.order {
			if !yield(g.packages[idx]) {
				return
			}
		}
	}
}
