package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/urllist"
)

var _ list.DefaultItem = entryItem{}

// entryItem wraps [models.Entry] to implement [list.Item].
type entryItem struct {
	entry models.Entry
}

func (i entryItem) FilterValue() string { return i.entry.URL }
func (i entryItem) Title() string       { return i.entry.Label() }
func (i entryItem) Description() string { return i.entry.URL }

// entryItems converts the current list contents into list items, labels included.
func entryItems(urls *urllist.List) []list.Item {
	entries := urls.Entries()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	return items
}

func newEntryList(urls *urllist.List) list.Model {
	l := list.New(entryItems(urls), list.NewDefaultDelegate(), 0, 0)
	l.Title = "URLs"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("url", "urls")
	l.DisableQuitKeybindings()
	return l
}
