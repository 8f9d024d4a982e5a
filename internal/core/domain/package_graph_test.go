package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/otto/internal/core/domain"
)

// makePackages builds packages from a name -> deps map with stable indices
// in alphabetical name order.
func makePackages(t *testing.T, deps map[string][]string) map[string]*domain.Package {
	t.Helper()

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	// Deterministic indices regardless of map iteration.
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[j] < names[i] {
				names[i], names[j] = names[j], names[i]
			}
		}
	}

	pkgs := make(map[string]*domain.Package, len(names))
	for i, name := range names {
		depNames := make([]domain.InternedString, 0, len(deps[name]))
		for _, dep := range deps[name] {
			depNames = append(depNames, domain.NewInternedString(dep))
		}
		pkgs[name] = &domain.Package{
			Name:     domain.NewInternedString(name),
			DepNames: depNames,
			Index:    i,
		}
	}
	return pkgs
}

func all(pkgs map[string]*domain.Package) []*domain.Package {
	out := make([]*domain.Package, len(pkgs))
	for _, pkg := range pkgs {
		out[pkg.Index] = pkg
	}
	return out
}

func names(g *domain.PackageGraph) []string {
	var out []string
	for pkg := range g.Nodes() {
		out = append(out, pkg.Name.String())
	}
	return out
}

func TestBuildPackageGraph_Order(t *testing.T) {
	// app -> core, util; site -> core. Dependencies come first, ties break
	// alphabetically.
	pkgs := makePackages(t, map[string][]string{
		"app":  {"core", "util"},
		"core": {},
		"site": {"core"},
		"util": {},
	})

	g, err := domain.BuildPackageGraph(all(pkgs), all(pkgs))
	require.NoError(t, err)

	assert.Equal(t, []string{"core", "util", "app", "site"}, names(g))
}

func TestBuildPackageGraph_Reachability(t *testing.T) {
	pkgs := makePackages(t, map[string][]string{
		"app":  {"lib"},
		"lib":  {"core"},
		"core": {},
		"misc": {},
	})

	g, err := domain.BuildPackageGraph(all(pkgs), all(pkgs))
	require.NoError(t, err)

	assert.True(t, g.IsDependentOn(pkgs["app"], pkgs["lib"]))
	assert.True(t, g.IsDependentOn(pkgs["app"], pkgs["core"]), "reachability is transitive")
	assert.False(t, g.IsDependentOn(pkgs["core"], pkgs["app"]))
	assert.False(t, g.IsDependentOn(pkgs["app"], pkgs["misc"]))
	assert.False(t, g.IsDependentOn(pkgs["app"], pkgs["app"]))
}

func TestBuildPackageGraph_RestrictedToRoots(t *testing.T) {
	pkgs := makePackages(t, map[string][]string{
		"app":  {"core"},
		"core": {},
		"misc": {},
	})

	g, err := domain.BuildPackageGraph(all(pkgs), []*domain.Package{pkgs["app"]})
	require.NoError(t, err)

	assert.Equal(t, []string{"core", "app"}, names(g))
	assert.True(t, g.Contains(pkgs["core"]))
	assert.False(t, g.Contains(pkgs["misc"]))
}

func TestBuildPackageGraph_MissingDependency(t *testing.T) {
	pkgs := makePackages(t, map[string][]string{
		"app": {"nope"},
	})

	_, err := domain.BuildPackageGraph(all(pkgs), all(pkgs))
	require.ErrorIs(t, err, domain.ErrMissingDependency)
}

func TestBuildPackageGraph_Cycle(t *testing.T) {
	pkgs := makePackages(t, map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	})

	_, err := domain.BuildPackageGraph(all(pkgs), all(pkgs))
	require.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.Contains(t, err.Error(), "->")
}

func TestBuildPackageGraph_SelfCycle(t *testing.T) {
	pkgs := makePackages(t, map[string][]string{
		"a": {"a"},
	})

	_, err := domain.BuildPackageGraph(all(pkgs), all(pkgs))
	require.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestPackageGraph_Dependencies(t *testing.T) {
	pkgs := makePackages(t, map[string][]string{
		"app":  {"core", "util"},
		"core": {},
		"util": {},
	})

	g, err := domain.BuildPackageGraph(all(pkgs), all(pkgs))
	require.NoError(t, err)

	deps := g.Dependencies(pkgs["app"])
	require.Len(t, deps, 2)
	assert.Empty(t, g.Dependencies(pkgs["core"]))
}
