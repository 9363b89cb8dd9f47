package rest

import (
	"context"
	"net/http"

	"coursedesk/internal/domain/backend"
)

// accountResponse is the conferencing integration's account payload. Only
// the tier matters to the engine.
type accountResponse struct {
	Tier string `json:"tier"`
}

func (c *Client) AccountTier(ctx context.Context) (backend.Tier, error) {
	var out accountResponse
	if err := c.do(ctx, http.MethodGet, "/api/integrations/conferencing/account", nil, &out); err != nil {
		return backend.TierUnknown, err
	}
	return backend.Tier(out.Tier), nil
}
