package models

import "fmt"

// Entry is one user-supplied URL at its current display position.
type Entry struct {
	ID       string `json:"id"`
	Position int    `json:"position"` // 1-based
	URL      string `json:"url"`
}

// Label returns the display label for the entry, e.g. "URL 3".
func (e Entry) Label() string {
	return Label(e.Position)
}

// Label formats the display label for a 1-based position.
func Label(position int) string {
	return fmt.Sprintf("URL %d", position)
}
