// Package charts shapes analysis results into renderable structures.
//
// Figures follow the plotly.js data/layout JSON shape so the HTML report can hand them
// to Plotly directly, while the terminal renderers read the same values. Everything
// here is a pure function of its input.
package charts

// AverageCategory is the x-axis category that holds mean values.
const AverageCategory = "Average"

// Marker sets a trace's bar color.
type Marker struct {
	Color string `json:"color"`
}

// Trace is a single bar series.
type Trace struct {
	X      []string  `json:"x"`
	Y      []float64 `json:"y"`
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Marker Marker    `json:"marker"`
}

// IsAverage reports whether the trace plots the "Average" category.
func (t Trace) IsAverage() bool {
	return len(t.X) == 1 && t.X[0] == AverageCategory
}

// Title is a plotly title object.
type Title struct {
	Text string `json:"text"`
}

// Axis is a plotly axis definition.
type Axis struct {
	Title Title `json:"title"`
}

// Layout is the subset of plotly layout options the charts use.
type Layout struct {
	Title      Title  `json:"title"`
	BarMode    string `json:"barmode,omitempty"`
	XAxis      Axis   `json:"xaxis"`
	YAxis      Axis   `json:"yaxis"`
	ShowLegend bool   `json:"showlegend"`
}

// Figure is a chart: its traces plus layout. Mount is the id of the element it renders into.
type Figure struct {
	Mount  string  `json:"-"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace looks up a trace by name.
func (f *Figure) Trace(name string) (Trace, bool) {
	for _, t := range f.Data {
		if t.Name == name {
			return t, true
		}
	}
	return Trace{}, false
}

// Average returns the value plotted in the "Average" category for the named trace.
func (f *Figure) Average(name string) (float64, bool) {
	t, ok := f.Trace(name)
	if !ok || !t.IsAverage() || len(t.Y) != 1 {
		return 0, false
	}
	return t.Y[0], true
}

// Series returns the per-URL traces, without the average ones.
func (f *Figure) Series() []Trace {
	var out []Trace
	for _, t := range f.Data {
		if !t.IsAverage() {
			out = append(out, t)
		}
	}
	return out
}

// Mean is the arithmetic mean of values. It reports ok=false for an empty slice.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

func bar(x []string, y []float64, name, color string) Trace {
	return Trace{X: x, Y: y, Name: name, Type: "bar", Marker: Marker{Color: color}}
}

func averageBar(mean float64, name, color string) Trace {
	return bar([]string{AverageCategory}, []float64{mean}, name, color)
}
