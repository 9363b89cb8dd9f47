package curriculum

// Course is the root the section tree hangs off. A brand-new console session
// has no course until the first section forces one into existence; the
// backend mints draft courses on demand.
type Course struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	IsDraft bool   `json:"is_draft"`
}

// OrderUpdate is the minimal unit of a batch reorder request.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}
