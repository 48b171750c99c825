package domain

// Symbol is a pictogram record from the symbol search service.
type Symbol struct {
	ID         int      `json:"id"`
	Keywords   []string `json:"keywords"`
	Categories []string `json:"categories,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	ImageURL   string   `json:"image_url"`
}

// Label is the first keyword, or empty when the record has none.
func (s Symbol) Label() string {
	if len(s.Keywords) == 0 {
		return ""
	}
	return s.Keywords[0]
}

// ToPictogram converts a search hit into a board entry.
func (s Symbol) ToPictogram() Pictogram {
	var extra []string
	if len(s.Keywords) > 1 {
		extra = s.Keywords[1:]
	}
	p := NewPictogram(s.ID, s.Label(), ColorMisc, extra...)
	if s.ImageURL != "" {
		p.URL = s.ImageURL
	}
	return p
}
