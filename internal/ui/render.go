package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/txa/internal/charts"
	"github.com/desertthunder/txa/internal/formatter"
)

// DefaultBarWidth is the width in cells of the longest bar.
const DefaultBarWidth = 40

const barRune = "█"

type segment struct {
	name  string
	value float64
	color string
}

type category struct {
	name     string
	segments []segment
}

func (c category) total() float64 {
	var sum float64
	for _, s := range c.segments {
		sum += s.value
	}
	return sum
}

// categories regroups a figure's traces by x category, keeping first-seen order.
// Stacked traces become segments of the same category.
func categories(fig *charts.Figure) []category {
	var out []category
	index := map[string]int{}
	for _, t := range fig.Data {
		for i, x := range t.X {
			if i >= len(t.Y) {
				break
			}
			j, ok := index[x]
			if !ok {
				j = len(out)
				index[x] = j
				out = append(out, category{name: x})
			}
			out[j].segments = append(out[j].segments, segment{name: t.Name, value: t.Y[i], color: t.Marker.Color})
		}
	}
	return out
}

// RenderFigure draws a figure as horizontal bars, one row per category, stacking traces
// that share a category. Values are printed after each bar.
func RenderFigure(fig *charts.Figure, width int) string {
	if fig == nil {
		return ""
	}
	if width <= 0 {
		width = DefaultBarWidth
	}

	cats := categories(fig)

	var maxTotal float64
	labelWidth := 0
	for _, c := range cats {
		maxTotal = math.Max(maxTotal, c.total())
		labelWidth = max(labelWidth, lipgloss.Width(c.name))
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fig.Layout.Title.Text))
	b.WriteString("\n")

	if len(cats) == 0 {
		b.WriteString(styles.help.Render("no data"))
		b.WriteString("\n")
		return b.String()
	}

	for _, c := range cats {
		label := fmt.Sprintf("%-*s", labelWidth, c.name)
		if c.name == charts.AverageCategory {
			b.WriteString(styles.label.Render(label))
		} else {
			b.WriteString(label)
		}
		b.WriteString(" ")

		values := make([]string, len(c.segments))
		for i, s := range c.segments {
			b.WriteString(styles.As(strings.Repeat(barRune, cells(s.value, maxTotal, width)), ChartColor(s.color)))
			values[i] = fmt.Sprintf("%.2f", s.value)
		}

		b.WriteString(" ")
		b.WriteString(styles.help.Render(strings.Join(values, " / ")))
		b.WriteString("\n")
	}

	b.WriteString(legend(fig))
	return b.String()
}

// cells scales v against max into a bar length, keeping any positive value visible.
func cells(v, maxTotal float64, width int) int {
	if v <= 0 || maxTotal <= 0 {
		return 0
	}
	n := int(math.Round(v / maxTotal * float64(width)))
	return max(n, 1)
}

func legend(fig *charts.Figure) string {
	if !fig.Layout.ShowLegend {
		return ""
	}

	parts := make([]string, 0, len(fig.Data))
	for _, t := range fig.Data {
		parts = append(parts, styles.As(barRune, ChartColor(t.Marker.Color))+" "+t.Name)
	}
	return styles.help.Render(strings.Join(parts, "  ")) + "\n"
}

// RenderWordClouds lists the grid cells in rows of [charts.GridColumns]. Terminals
// can't show the PNG itself, so available cells report the image dimensions instead.
func RenderWordClouds(grid *charts.Grid) string {
	if grid == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(grid.Title))
	b.WriteString("\n")

	for _, row := range grid.Rows {
		boxes := make([]string, len(row))
		for i, cell := range row {
			boxes[i] = styles.cell.Render(cellText(cell))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
		b.WriteString("\n")
	}

	return b.String()
}

func cellText(cell charts.Cell) string {
	label := styles.label.Render(cell.Label())
	if !cell.Available() {
		return label + "\n" + styles.warn.Render(cell.Alt)
	}

	_, cfg, err := formatter.DecodeWordCloud(cell.Image)
	if err != nil {
		return label + "\n" + styles.err.Render("unreadable image")
	}
	return label + "\n" + styles.ok.Render(fmt.Sprintf("%dx%d png", cfg.Width, cfg.Height))
}

// RenderSet renders whichever charts are present, word clouds first.
func RenderSet(set *charts.Set, width int) string {
	if set.Empty() {
		return styles.help.Render("Nothing to display.") + "\n"
	}

	var sections []string
	if set.WordClouds != nil {
		sections = append(sections, RenderWordClouds(set.WordClouds))
	}
	for _, fig := range set.Figures() {
		sections = append(sections, RenderFigure(fig, width))
	}
	return strings.Join(sections, "\n")
}

// RenderAlert boxes a user-facing alert.
func RenderAlert(alert string) string {
	return styles.alert.Render(alert)
}
