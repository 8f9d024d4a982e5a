package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/otto/internal/adapters/telemetry"
	"go.trai.ch/otto/internal/app"
	"go.trai.ch/otto/internal/core/ports/mocks"
	"go.trai.ch/otto/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

func testComponents(t *testing.T) (*app.Components, *mocks.MockManifestLoader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	manifests := mocks.NewMockManifestLoader(ctrl)
	fingerprints := mocks.NewMockFingerprintOpener(ctrl)
	watcher := mocks.NewMockWatcher(ctrl)
	sched := scheduler.New(logger, telemetry.NewNoOpTracer())

	components := &app.Components{
		App:    app.New(logger, manifests, fingerprints, watcher, sched),
		Logger: logger,
	}
	return components, manifests, logger
}

func TestRun_Success(t *testing.T) {
	components, _, _ := testComponents(t)

	cleanupCalled := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() { cleanupCalled = true }, nil
	}

	stderr := new(bytes.Buffer)
	code := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 0, code)
	assert.True(t, cleanupCalled)
	assert.Empty(t, stderr.String())
}

func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	code := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_ExecutionError(t *testing.T) {
	components, manifests, logger := testComponents(t)
	manifests.EXPECT().FindRoot(gomock.Any()).Return("", errors.New("no workspace here"))
	logger.EXPECT().Error(gomock.Any())

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	code := run(context.Background(), []string{"build"}, stderr, provider)

	assert.Equal(t, 1, code)
}
