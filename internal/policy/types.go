package policy

// TierPolicy is the set of live-session constraints one conferencing tier
// allows.
type TierPolicy struct {
	DisplayName        string `yaml:"display_name" json:"display_name"`
	MaxDurationMinutes int    `yaml:"max_duration_minutes" json:"max_duration_minutes"`
}

// tierFile is the embedded YAML document shape.
type tierFile struct {
	Default string                `yaml:"default"`
	Tiers   map[string]TierPolicy `yaml:"tiers"`
}
