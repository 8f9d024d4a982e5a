package workspace_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/otto/internal/adapters/logger"
	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/otto/internal/workspace"
)

func testPackages() []*domain.Package {
	app := &domain.Package{
		Name:     domain.NewInternedString("app"),
		Target:   domain.TargetSite,
		DepNames: []domain.InternedString{domain.NewInternedString("core")},
		Index:    0,
	}
	core := &domain.Package{
		Name:  domain.NewInternedString("core"),
		Index: 1,
	}
	misc := &domain.Package{
		Name:  domain.NewInternedString("misc"),
		Index: 2,
	}
	return []*domain.Package{app, core, misc}
}

func testOptions(t *testing.T, pkg string) (workspace.Options, *bytes.Buffer) {
	t.Helper()
	log := logger.New()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	return workspace.Options{Package: pkg, Logger: log}, &buf
}

func TestNew_AllPackages(t *testing.T) {
	opts, _ := testOptions(t, "")
	ws, err := workspace.New(t.TempDir(), testPackages(), domain.WorkspaceConfig{Monorepo: true}, opts)
	require.NoError(t, err)

	assert.Len(t, ws.Roots(), 3)

	var order []string
	for pkg := range ws.DisplayOrder() {
		order = append(order, pkg.Name.String())
	}
	assert.Equal(t, []string{"core", "app", "misc"}, order)
}

func TestNew_RestrictedToPackage(t *testing.T) {
	opts, _ := testOptions(t, "app")
	ws, err := workspace.New(t.TempDir(), testPackages(), domain.WorkspaceConfig{}, opts)
	require.NoError(t, err)

	require.Len(t, ws.Roots(), 1)
	assert.Equal(t, "app", ws.Roots()[0].Name.String())

	var order []string
	for pkg := range ws.DisplayOrder() {
		order = append(order, pkg.Name.String())
	}
	assert.Equal(t, []string{"core", "app"}, order, "misc is outside the selected closure")
}

func TestNew_UnknownPackage(t *testing.T) {
	opts, _ := testOptions(t, "ghost")
	_, err := workspace.New(t.TempDir(), testPackages(), domain.WorkspaceConfig{}, opts)
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}

func TestPackageByName(t *testing.T) {
	opts, _ := testOptions(t, "")
	ws, err := workspace.New(t.TempDir(), testPackages(), domain.WorkspaceConfig{}, opts)
	require.NoError(t, err)

	pkg, err := ws.PackageByName("core")
	require.NoError(t, err)
	assert.Equal(t, "core", pkg.Name.String())

	_, err = ws.PackageByName("ghost")
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}
