// Package urllist holds the ordered list of URLs a user is preparing for analysis.
//
// Entries are numbered by display position. Labels and the count are derived from the
// backing slice on every read, so numbering stays contiguous and 1-based after any
// sequence of adds and deletes.
package urllist

import (
	"strings"

	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/shared"
)

// Deleter removes an entry by its identifier.
//
// Both the row-level delete handler and external callers go through this.
type Deleter interface {
	Remove(id string) bool
}

type item struct {
	id  string
	url string
}

// List is an ordered URL list. The zero value is ready to use.
type List struct {
	items []item
}

// New returns a [List] seeded with urls. Blank values are skipped.
func New(urls ...string) *List {
	l := &List{}
	l.Load(urls)
	return l
}

// Add appends url as the last entry. Blank input is ignored and reported with ok=false.
func (l *List) Add(url string) (models.Entry, bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return models.Entry{}, false
	}

	l.items = append(l.items, item{id: shared.GenerateID(), url: url})
	return l.entry(len(l.items) - 1), true
}

// Remove deletes the entry with the given id. Remaining entries shift up.
func (l *List) Remove(id string) bool {
	for i, it := range l.items {
		if it.id == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAt deletes the entry at the 0-based display index.
func (l *List) RemoveAt(index int) bool {
	e, ok := l.Entry(index)
	if !ok {
		return false
	}
	return l.Remove(e.ID)
}

// Len is the number of displayed entries.
func (l *List) Len() int {
	return len(l.items)
}

// Entry returns the entry at a 0-based display index.
func (l *List) Entry(index int) (models.Entry, bool) {
	if index < 0 || index >= len(l.items) {
		return models.Entry{}, false
	}
	return l.entry(index), true
}

// Entries returns a snapshot of all entries in display order.
func (l *List) Entries() []models.Entry {
	entries := make([]models.Entry, len(l.items))
	for i := range l.items {
		entries[i] = l.entry(i)
	}
	return entries
}

// URLs returns the URLs in display order, as sent in the request body.
func (l *List) URLs() []string {
	urls := make([]string, len(l.items))
	for i, it := range l.items {
		urls[i] = it.url
	}
	return urls
}

// Labels returns the display labels, "URL 1" through "URL n".
func (l *List) Labels() []string {
	labels := make([]string, len(l.items))
	for i := range l.items {
		labels[i] = models.Label(i + 1)
	}
	return labels
}

// Clear removes every entry.
func (l *List) Clear() {
	l.items = nil
}

// Load appends each of urls, skipping blanks.
func (l *List) Load(urls []string) {
	for _, u := range urls {
		l.Add(u)
	}
}

func (l *List) entry(i int) models.Entry {
	return models.Entry{ID: l.items[i].id, Position: i + 1, URL: l.items[i].url}
}
