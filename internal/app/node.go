package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/otto/internal/adapters/fingerprint" //nolint:depguard // Wired in app layer
	"go.trai.ch/otto/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/otto/internal/adapters/manifest"    //nolint:depguard // Wired in app layer
	"go.trai.ch/otto/internal/adapters/watcher"     //nolint:depguard // Wired in app layer
	"go.trai.ch/otto/internal/core/ports"
	"go.trai.ch/otto/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			manifest.NodeID,
			fingerprint.NodeID,
			watcher.NodeID,
			scheduler.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	manifests, err := graft.Dep[ports.ManifestLoader](ctx)
	if err != nil {
		return nil, err
	}

	fingerprints, err := graft.Dep[ports.FingerprintOpener](ctx)
	if err != nil {
		return nil, err
	}

	watch, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	return New(log, manifests, fingerprints, watch, sched), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    application,
		Logger: log,
	}, nil
}
