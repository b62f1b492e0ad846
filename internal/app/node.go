package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/droidcfg/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/droidcfg/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/droidcfg/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/droidcfg/internal/adapters/maven"     //nolint:depguard // Wired in app layer
	"go.trai.ch/droidcfg/internal/adapters/pgp"       //nolint:depguard // Wired in app layer
	"go.trai.ch/droidcfg/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/droidcfg/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/droidcfg/internal/core/ports"
	"go.trai.ch/droidcfg/internal/engine/planner"
	"go.trai.ch/droidcfg/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds everything the CLI needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			resolver.NodeID,
			planner.NodeID,
			cas.NodeID,
			maven.NodeID,
			pgp.NodeID,
			watcher.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

//nolint:cyclop // One lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	res, err := graft.Dep[*resolver.Resolver](ctx)
	if err != nil {
		return nil, err
	}
	pl, err := graft.Dep[*planner.Planner](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.PlanStore](ctx)
	if err != nil {
		return nil, err
	}
	repository, err := graft.Dep[ports.ArtifactRepository](ctx)
	if err != nil {
		return nil, err
	}
	signer, err := graft.Dep[ports.PlanSigner](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, res, pl, store, repository, signer, w, log).WithTracer(tracer), nil
}
