package charts

import "github.com/desertthunder/txa/internal/models"

const ReadabilityMount = "readabilityChart"

const (
	ColorReadability    = "purple"
	ColorAvgReadability = "gray"
)

// ReadabilityFigure builds a single-series bar chart of readability scores with an
// "Average" bar appended when data is non-empty.
func ReadabilityFigure(data []models.Readability) *Figure {
	scores := make([]float64, len(data))
	for i, r := range data {
		scores[i] = r.Readability
	}

	fig := &Figure{
		Mount: ReadabilityMount,
		Data:  []Trace{bar(Labels(len(data)), scores, "Readability Score", ColorReadability)},
		Layout: Layout{
			Title:      Title{Text: "Readability Score Comparison Across URLs"},
			XAxis:      Axis{Title: Title{Text: "URLs"}},
			YAxis:      Axis{Title: Title{Text: "Readability Score"}},
			ShowLegend: true,
		},
	}

	if mean, ok := Mean(scores); ok {
		fig.Data = append(fig.Data, averageBar(mean, "Avg Readability", ColorAvgReadability))
	}

	return fig
}
