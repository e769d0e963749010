package charts

import "github.com/desertthunder/txa/internal/models"

// GridColumns is the number of word clouds per row.
const GridColumns = 4

const (
	WordCloudTitle       = "Word Cloud Chart"
	WordCloudUnavailable = "Word Cloud not available"
)

// Cell is one word cloud in the grid.
type Cell struct {
	Position int    // 1-based
	URL      string
	Image    string // base64 PNG, empty when unavailable
	Alt      string
}

// Label is the position label shown under the image.
func (c Cell) Label() string {
	return models.Label(c.Position)
}

// Available reports whether the cell has an image.
func (c Cell) Available() bool {
	return c.Image != ""
}

// DataURI returns the image as a data: URI, or "" when unavailable.
func (c Cell) DataURI() string {
	if !c.Available() {
		return ""
	}
	return "data:image/png;base64," + c.Image
}

// Grid is the word cloud layout, [GridColumns] cells per row.
type Grid struct {
	Title string
	Rows  [][]Cell
}

// Cells flattens the grid back into display order.
func (g *Grid) Cells() []Cell {
	var cells []Cell
	for _, row := range g.Rows {
		cells = append(cells, row...)
	}
	return cells
}

// WordCloudGrid lays clouds out in rows of [GridColumns], labelling each by position.
func WordCloudGrid(clouds []models.WordCloud) *Grid {
	grid := &Grid{Title: WordCloudTitle}

	var row []Cell
	for i, wc := range clouds {
		cell := Cell{Position: i + 1, URL: wc.URL, Image: wc.Image, Alt: WordCloudUnavailable}
		if wc.HasImage() {
			cell.Alt = "Word Cloud for " + wc.URL
		}

		row = append(row, cell)
		if len(row) == GridColumns {
			grid.Rows = append(grid.Rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		grid.Rows = append(grid.Rows, row)
	}

	return grid
}
