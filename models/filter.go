package models

// FilterState is the active listing filter.
// Tags are advisory: the service has no tag filter, so they only narrow the visible posts locally.
type FilterState struct {
	Search   string   `json:"search"`
	Category Category `json:"category"`
	Tags     []string `json:"tags"`
}

// DefaultFilter returns the filter a fresh session starts with.
func DefaultFilter() FilterState {
	return FilterState{Category: CategoryAll}
}

// Clone returns a copy that does not share the Tags slice.
func (f FilterState) Clone() FilterState {
	out := f
	if f.Tags != nil {
		out.Tags = append([]string(nil), f.Tags...)
	}
	return out
}

// Matches applies the client-side part of the filter (tags, all must be present).
func (f FilterState) Matches(p Post) bool {
	for _, tag := range f.Tags {
		if !p.HasTag(tag) {
			return false
		}
	}
	return true
}

// FilterPatch is a partial filter update; nil fields keep their current value.
type FilterPatch struct {
	Search   *string
	Category *Category
	Tags     *[]string
}

// Apply merges the patch into f and returns the result.
func (f FilterState) Apply(p FilterPatch) FilterState {
	out := f.Clone()
	if p.Search != nil {
		out.Search = *p.Search
	}
	if p.Category != nil {
		out.Category = *p.Category
		if out.Category == "" {
			out.Category = CategoryAll
		}
	}
	if p.Tags != nil {
		out.Tags = NormalizeTags(*p.Tags)
	}
	return out
}

// Cursor tracks listing progress for the active filter.
type Cursor struct {
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// InitialCursor is the cursor after any filter change or clear.
func InitialCursor() Cursor {
	return Cursor{Offset: 0, HasMore: true}
}
