package domain

import (
	"fmt"
	"strings"
)

// ColorClass is the background color tag a board uses for a pictogram's
// grammatical category (Fitzgerald key).
type ColorClass string

const (
	ColorPeople ColorClass = "bg-yellow-200 border-yellow-400"
	ColorAction ColorClass = "bg-green-200 border-green-400"
	ColorDesc   ColorClass = "bg-blue-200 border-blue-400"
	ColorNoun   ColorClass = "bg-orange-200 border-orange-400"
	ColorSocial ColorClass = "bg-pink-200 border-pink-400"
	ColorMisc   ColorClass = "bg-gray-200 border-gray-400"
)

const pictogramImageURL = "https://static.arasaac.org/pictograms/%d/%d_300.png"

// Pictogram is a visual symbol with a label.
type Pictogram struct {
	ID              int        `json:"id"`
	Text            string     `json:"text"`
	Keywords        []string   `json:"keywords"`
	BackgroundColor ColorClass `json:"background_color"`
	URL             string     `json:"url"`
}

// PictogramURL returns the static image location for a symbol id.
func PictogramURL(id int) string {
	return fmt.Sprintf(pictogramImageURL, id, id)
}

// NewPictogram builds a vocabulary entry. The lowercased text is always the
// first keyword.
func NewPictogram(id int, text string, color ColorClass, extra ...string) Pictogram {
	keywords := make([]string, 0, len(extra)+1)
	keywords = append(keywords, strings.ToLower(text))
	for _, k := range extra {
		keywords = append(keywords, strings.ToLower(k))
	}
	return Pictogram{
		ID:              id,
		Text:            text,
		Keywords:        keywords,
		BackgroundColor: color,
		URL:             PictogramURL(id),
	}
}

// Matches reports whether word names this pictogram, ignoring case.
func (p Pictogram) Matches(word string) bool {
	w := normalizeWord(word)
	if w == "" {
		return false
	}
	if strings.ToLower(p.Text) == w {
		return true
	}
	for _, k := range p.Keywords {
		if k == w {
			return true
		}
	}
	return false
}

// Category groups vocabulary entries on the board.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
