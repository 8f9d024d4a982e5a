package fingerprint

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/otto/internal/core/ports"
)

// NodeID is the unique identifier for the fingerprint opener Graft node.
const NodeID graft.ID = "adapter.fingerprints"

// Opener implements ports.FingerprintOpener.
type Opener struct{}

// Open opens the store under the given workspace root.
func (Opener) Open(root string) ports.FingerprintStore {
	return Open(root)
}

func init() {
	graft.Register(graft.Node[ports.FingerprintOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FingerprintOpener, error) {
			return Opener{}, nil
		},
	})
}
