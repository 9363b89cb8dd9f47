package policy

import (
	"testing"

	"coursedesk/internal/domain/backend"
)

func TestRegistryTierCaps(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	tests := []struct {
		name string
		tier backend.Tier
		want int
	}{
		{"free tier", backend.TierFree, 40},
		{"pro tier", backend.TierPro, 420},
		{"missing tier falls back to free", backend.TierUnknown, 40},
		{"unrecognized tier falls back to free", backend.Tier("enterprise"), 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.MaxDurationMinutes(tt.tier); got != tt.want {
				t.Errorf("MaxDurationMinutes(%q) = %d, want %d", tt.tier, got, tt.want)
			}
		})
	}
}

func TestRegistryForTierDisplayName(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if got := reg.ForTier(backend.TierPro).DisplayName; got != "Pro" {
		t.Errorf("DisplayName = %q, want %q", got, "Pro")
	}
}
