package charts

import "github.com/desertthunder/txa/internal/models"

const SentimentMount = "sentimentChart"

// Segment colors. Average bars use a separate palette from the per-URL bars.
const (
	ColorPositive    = "#2E4250"
	ColorNeutral     = "#4A6A81"
	ColorNegative    = "#6D91AB"
	ColorAvgPositive = "#3E3B52"
	ColorAvgNeutral  = "#5E597C"
	ColorAvgNegative = "#9591AF"
)

// SentimentFigure builds the stacked sentiment chart: a Positive, Neutral and Negative
// trace across "URL 1".."URL n", then one average trace per segment. The average traces
// are left out when data is empty.
func SentimentFigure(data []models.Sentiment) *Figure {
	labels := Labels(len(data))
	positive := make([]float64, len(data))
	neutral := make([]float64, len(data))
	negative := make([]float64, len(data))
	for i, s := range data {
		positive[i] = s.Positive
		neutral[i] = s.Neutral
		negative[i] = s.Negative
	}

	fig := &Figure{
		Mount: SentimentMount,
		Data: []Trace{
			bar(labels, positive, "Positive", ColorPositive),
			bar(labels, neutral, "Neutral", ColorNeutral),
			bar(labels, negative, "Negative", ColorNegative),
		},
		Layout: Layout{
			Title:      Title{Text: "Sentiment Comparison Across URLs"},
			BarMode:    "stack",
			XAxis:      Axis{Title: Title{Text: "URLs"}},
			YAxis:      Axis{Title: Title{Text: "Sentiment Score"}},
			ShowLegend: true,
		},
	}

	segments := []struct {
		values []float64
		name   string
		color  string
	}{
		{positive, "Avg Positive", ColorAvgPositive},
		{neutral, "Avg Neutral", ColorAvgNeutral},
		{negative, "Avg Negative", ColorAvgNegative},
	}
	for _, seg := range segments {
		if mean, ok := Mean(seg.values); ok {
			fig.Data = append(fig.Data, averageBar(mean, seg.name, seg.color))
		}
	}

	return fig
}

// Labels returns "URL 1".."URL n".
func Labels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = models.Label(i + 1)
	}
	return labels
}
