package curriculum

// Section is an ordered container of lessons within a course ("module" in
// the admin UI). Sibling Order values are a contiguous 1..N permutation
// matching slice position; IDs are stable across reorders.
type Section struct {
	ID          string   `json:"id"`
	CourseID    string   `json:"course_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Order       int      `json:"order"`
	IsPublished bool     `json:"is_published"`
	Lessons     []Lesson `json:"lessons"`
}

// Clone returns a deep copy. Snapshots handed to callers must not alias the
// store's mutable state.
func (s Section) Clone() Section {
	out := s
	out.Lessons = make([]Lesson, len(s.Lessons))
	for i, l := range s.Lessons {
		out.Lessons[i] = l.Clone()
	}
	return out
}
