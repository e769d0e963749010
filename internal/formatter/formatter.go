// package formatter exports analysis results to files (CSV, Markdown, plain text, PNG)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/txa/internal/charts"
	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/shared"
)

// Row joins one URL's results across the response fields. Missing scores are nil.
type Row struct {
	Position     int
	URL          string
	Sentiment    *models.Sentiment
	Readability  *float64
	HasWordCloud bool
}

// Label returns "URL n".
func (r Row) Label() string {
	return models.Label(r.Position)
}

// Rows aligns the response fields by position with the submitted urls.
//
// The row count is the longest of urls and the three result sequences. When urls is
// shorter, the URL falls back to the one carried in the result record.
func Rows(urls []string, resp *models.AnalysisResponse) []Row {
	if resp == nil {
		resp = &models.AnalysisResponse{}
	}

	n := max(len(urls), len(resp.WordClouds), len(resp.Sentiment), len(resp.Readability))
	rows := make([]Row, n)
	for i := range rows {
		row := Row{Position: i + 1}
		if i < len(urls) {
			row.URL = urls[i]
		}
		if i < len(resp.WordClouds) {
			row.HasWordCloud = resp.WordClouds[i].HasImage()
			row.URL = fallback(row.URL, resp.WordClouds[i].URL)
		}
		if i < len(resp.Sentiment) {
			s := resp.Sentiment[i]
			row.Sentiment = &s
			row.URL = fallback(row.URL, s.URL)
		}
		if i < len(resp.Readability) {
			r := resp.Readability[i]
			row.Readability = &r.Readability
			row.URL = fallback(row.URL, r.URL)
		}
		rows[i] = row
	}
	return rows
}

// Averages holds the means shown in the "Average" category. Each pointer is nil when
// the corresponding series was empty.
type Averages struct {
	Positive    *float64
	Neutral     *float64
	Negative    *float64
	Readability *float64
}

// ComputeAverages reads the average bars from the rendered figures.
func ComputeAverages(set *charts.Set) Averages {
	var avg Averages
	if set == nil {
		return avg
	}
	if set.Sentiment != nil {
		avg.Positive = average(set.Sentiment, "Avg Positive")
		avg.Neutral = average(set.Sentiment, "Avg Neutral")
		avg.Negative = average(set.Sentiment, "Avg Negative")
	}
	if set.Readability != nil {
		avg.Readability = average(set.Readability, "Avg Readability")
	}
	return avg
}

func average(fig *charts.Figure, name string) *float64 {
	if v, ok := fig.Average(name); ok {
		return &v
	}
	return nil
}

// ExportToCSV writes one row per URL with columns: Position, Label, URL, Positive, Neutral,
// Negative, Readability, WordCloud, followed by an "Average" row.
func ExportToCSV(urls []string, resp *models.AnalysisResponse) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Label", "URL", "Positive", "Neutral", "Negative", "Readability", "WordCloud"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range Rows(urls, resp) {
		record := []string{strconv.Itoa(row.Position), row.Label(), row.URL, "", "", "", "", strconv.FormatBool(row.HasWordCloud)}
		if row.Sentiment != nil {
			record[3] = formatScore(&row.Sentiment.Positive)
			record[4] = formatScore(&row.Sentiment.Neutral)
			record[5] = formatScore(&row.Sentiment.Negative)
		}
		record[6] = formatScore(row.Readability)

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	avg := ComputeAverages(charts.FromResponse(resp))
	if avg.Positive != nil || avg.Readability != nil {
		record := []string{"", charts.AverageCategory, "",
			formatScore(avg.Positive), formatScore(avg.Neutral), formatScore(avg.Negative),
			formatScore(avg.Readability), ""}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText renders a plain text summary.
func ExportToText(urls []string, resp *models.AnalysisResponse) ([]byte, error) {
	var buf bytes.Buffer

	if resp.HasInvalidURLs() {
		buf.WriteString(InvalidURLsText(resp.InvalidURLs))
		return buf.Bytes(), nil
	}

	rows := Rows(urls, resp)
	buf.WriteString(fmt.Sprintf("URLs: %d\n\n", len(rows)))
	for _, row := range rows {
		buf.WriteString(fmt.Sprintf("%s: %s\n", row.Label(), row.URL))
		if row.Sentiment != nil {
			buf.WriteString(fmt.Sprintf("  sentiment: positive %s, neutral %s, negative %s\n",
				formatScore(&row.Sentiment.Positive), formatScore(&row.Sentiment.Neutral), formatScore(&row.Sentiment.Negative)))
		}
		if row.Readability != nil {
			buf.WriteString(fmt.Sprintf("  readability: %s\n", formatScore(row.Readability)))
		}
		if !row.HasWordCloud {
			buf.WriteString("  " + charts.WordCloudUnavailable + "\n")
		}
	}

	avg := ComputeAverages(charts.FromResponse(resp))
	if avg.Positive != nil {
		buf.WriteString(fmt.Sprintf("\nAverage sentiment: positive %s, neutral %s, negative %s\n",
			formatScore(avg.Positive), formatScore(avg.Neutral), formatScore(avg.Negative)))
	}
	if avg.Readability != nil {
		buf.WriteString(fmt.Sprintf("Average readability: %s\n", formatScore(avg.Readability)))
	}

	return buf.Bytes(), nil
}

// InvalidURLsText lists each rejected URL with its issue.
func InvalidURLsText(invalid []models.InvalidURL) string {
	var sb strings.Builder
	for _, iu := range invalid {
		sb.WriteString(fmt.Sprintf("- %s:\nERROR : %s\n", iu.URL, iu.Issue))
	}
	return sb.String()
}

// WriteCSVExport writes [ExportToCSV] output to path.
func WriteCSVExport(urls []string, resp *models.AnalysisResponse, path string) (string, error) {
	data, err := ExportToCSV(urls, resp)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}
	return path, writeFile(path, data)
}

// WriteTextExport writes [ExportToText] output to path.
func WriteTextExport(urls []string, resp *models.AnalysisResponse, path string) (string, error) {
	data, err := ExportToText(urls, resp)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	return path, writeFile(path, data)
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func formatScore(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fallback(current, candidate string) string {
	if current != "" {
		return current
	}
	return candidate
}
