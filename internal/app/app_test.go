package app_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/otto/internal/adapters/fingerprint"
	"go.trai.ch/otto/internal/adapters/logger"
	"go.trai.ch/otto/internal/adapters/telemetry"
	"go.trai.ch/otto/internal/app"
	"go.trai.ch/otto/internal/commands"
	"go.trai.ch/otto/internal/core/domain"
	"go.trai.ch/otto/internal/core/ports/mocks"
	"go.trai.ch/otto/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type testSetup struct {
	app       *app.App
	manifests *mocks.MockManifestLoader
	logOutput *bytes.Buffer
}

func setup(t *testing.T) *testSetup {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := logger.New()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	manifests := mocks.NewMockManifestLoader(ctrl)
	watcher := mocks.NewMockWatcher(ctrl)
	sched := scheduler.New(log, telemetry.NewNoOpTracer())

	return &testSetup{
		app:       app.New(log, manifests, fingerprint.Opener{}, watcher, sched),
		manifests: manifests,
		logOutput: &buf,
	}
}

func TestApp_Fix_EmptyPackages(t *testing.T) {
	s := setup(t)
	root := t.TempDir()

	// Packages without a src directory give the fix command nothing to do,
	// so the run completes without spawning any tool.
	packages := []*domain.Package{
		{Name: domain.NewInternedString("core"), Root: root, Index: 0},
		{Name: domain.NewInternedString("app"), Root: root, Index: 1},
	}
	s.manifests.EXPECT().FindRoot(root).Return(root, nil)
	s.manifests.EXPECT().Load(root).Return(packages, domain.WorkspaceConfig{Monorepo: true}, nil)

	err := s.app.Fix(context.Background(), app.RunOptions{Cwd: root}, commands.FixArgs{})
	require.NoError(t, err)

	out := s.logOutput.String()
	assert.Contains(t, out, "run fix-core")
	assert.Contains(t, out, "run fix-app")
}

func TestApp_Build_FindRootError(t *testing.T) {
	s := setup(t)
	s.manifests.EXPECT().FindRoot(gomock.Any()).Return("", errors.New("no workspace found"))

	err := s.app.Build(context.Background(), app.RunOptions{Cwd: t.TempDir()}, commands.BuildArgs{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no workspace found")
}

func TestApp_Fix_LoadError(t *testing.T) {
	s := setup(t)
	root := t.TempDir()
	s.manifests.EXPECT().FindRoot(root).Return(root, nil)
	s.manifests.EXPECT().Load(root).Return(nil, domain.WorkspaceConfig{}, errors.New("bad manifest"))

	err := s.app.Fix(context.Background(), app.RunOptions{Cwd: root}, commands.FixArgs{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad manifest")
}

func TestApp_Build_UnknownPackage(t *testing.T) {
	s := setup(t)
	root := t.TempDir()
	s.manifests.EXPECT().FindRoot(root).Return(root, nil)
	s.manifests.EXPECT().Load(root).Return(nil, domain.WorkspaceConfig{}, nil)

	err := s.app.Build(context.Background(), app.RunOptions{Cwd: root, Package: "ghost"}, commands.BuildArgs{})
	require.ErrorIs(t, err, domain.ErrPackageNotFound)
}
