package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/droidcfg/internal/core/ports"
)

// NodeID is the unique identifier for the plan store Graft node.
const NodeID graft.ID = "adapter.plan_store"

func init() {
	graft.Register(graft.Node[ports.PlanStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PlanStore, error) {
			store, err := NewStore()
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
