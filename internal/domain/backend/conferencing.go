package backend

import "context"

// Tier is the connected conferencing account's plan, which caps live-session
// duration. An unknown or missing tier is treated as the most restrictive,
// never as unlimited.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierUnknown Tier = ""
)

// Conferencing exposes the external conferencing integration.
type Conferencing interface {
	AccountTier(ctx context.Context) (Tier, error)
}
