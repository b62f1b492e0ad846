package pgp

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/droidcfg/internal/core/ports"
)

// NodeID is the unique identifier for the plan signer Graft node.
const NodeID graft.ID = "adapter.plan_signer"

func init() {
	graft.Register(graft.Node[ports.PlanSigner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PlanSigner, error) {
			return NewSigner(), nil
		},
	})
}
