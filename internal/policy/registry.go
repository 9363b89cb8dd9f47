// Package policy holds the conferencing tier policy that caps live-session
// scheduling. The numbers ship embedded with the binary so the engine can
// enforce them before any network call.
package policy

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"coursedesk/internal/domain/backend"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry resolves a conferencing tier to its live-session policy.
// Read-only after construction, safe for concurrent use.
type Registry struct {
	defaultTier string
	tiers       map[string]TierPolicy
}

// NewRegistry loads the embedded tier policy file.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/tiers.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read tier policy: %w", err)
	}

	var file tierFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tier policy: %w", err)
	}

	if _, ok := file.Tiers[file.Default]; !ok {
		return nil, fmt.Errorf("tier policy default %q has no entry", file.Default)
	}

	return &Registry{
		defaultTier: file.Default,
		tiers:       file.Tiers,
	}, nil
}

// ForTier returns the policy for a tier. Unknown or absent tiers resolve to
// the default (most restrictive) tier, never to unlimited.
func (r *Registry) ForTier(tier backend.Tier) TierPolicy {
	if p, ok := r.tiers[string(tier)]; ok {
		return p
	}
	return r.tiers[r.defaultTier]
}

// MaxDurationMinutes is a convenience for the single number most callers need.
func (r *Registry) MaxDurationMinutes(tier backend.Tier) int {
	return r.ForTier(tier).MaxDurationMinutes
}
