package seats

import (
	"context"

	"github.com/Sternrassler/seats-client/pkg/client"
)

// HoldTokens creates hold tokens used to reserve objects.
type HoldTokens struct {
	transport *client.Client
}

// Create issues a new hold token.
func (h *HoldTokens) Create(ctx context.Context) (*HoldToken, error) {
	return decode[*HoldToken](h.transport.Post(ctx, "/hold-tokens", nil))
}
