package workspace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/otto/internal/workspace"
)

// fakeCmd is a package command with configurable dependencies.
type fakeCmd struct {
	name    string
	runtime workspace.Runtime
	deps    []workspace.Command
}

func (c *fakeCmd) Name() string                { return c.name }
func (c *fakeCmd) Runtime() workspace.Runtime  { return c.runtime }
func (c *fakeCmd) Deps() []workspace.Command   { return c.deps }
func (c *fakeCmd) RunPkg(ctx context.Context, ws *workspace.Workspace, pkg *domain.Package) error {
	return nil
}

func TestBuildCommandGraph_Linear(t *testing.T) {
	install := &fakeCmd{name: "install"}
	build := &fakeCmd{name: "build", deps: []workspace.Command{install}}

	g, err := workspace.BuildCommandGraph(build)
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())

	var order []string
	for cmd := range g.Walk() {
		order = append(order, cmd.Name())
	}
	assert.Equal(t, []string{"install", "build"}, order)
	assert.Equal(t, []string{"install"}, g.Deps("build"))
}

func TestBuildCommandGraph_SharedDependency(t *testing.T) {
	// Two commands each depending on a fresh install instance: the graph
	// must collapse them by name.
	a := &fakeCmd{name: "a", deps: []workspace.Command{&fakeCmd{name: "install"}}}
	b := &fakeCmd{name: "b", deps: []workspace.Command{&fakeCmd{name: "install"}, a}}

	g, err := workspace.BuildCommandGraph(b)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
}

func TestBuildCommandGraph_Cycle(t *testing.T) {
	a := &fakeCmd{name: "a"}
	b := &fakeCmd{name: "b", deps: []workspace.Command{a}}
	a.deps = []workspace.Command{b}

	_, err := workspace.BuildCommandGraph(a)
	require.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestUnitKeys(t *testing.T) {
	cmd := &fakeCmd{name: "build"}
	pkg := &domain.Package{Name: domain.NewInternedString("core")}

	assert.Equal(t, "build-core", workspace.PkgKey(cmd, pkg))
	assert.Equal(t, "build", workspace.WsKey(cmd))
}

func TestNotifyReady(t *testing.T) {
	notified := 0
	ctx := workspace.ContextWithReady(context.Background(), func() { notified++ })

	workspace.NotifyReady(ctx)
	assert.Equal(t, 1, notified)

	// Without a callback it is a no-op.
	workspace.NotifyReady(context.Background())
}
