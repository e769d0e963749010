package formatter

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/txa/internal/charts"
	"github.com/desertthunder/txa/internal/models"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownReport is the input to [ExportToMarkdown].
type MarkdownReport struct {
	Title       string
	URLs        []string
	Response    *models.AnalysisResponse
	Images      map[int]string // position -> relative PNG path
	GeneratedAt time.Time
}

// ExportToMarkdown renders a README-style report with score tables and a mermaid pie of
// the average sentiment.
func ExportToMarkdown(report MarkdownReport) ([]byte, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	title := report.Title
	if title == "" {
		title = "Text Analysis Report"
	}
	md.H1(title)
	md.PlainText("")

	resp := report.Response
	if resp.HasInvalidURLs() {
		md.Cautionf("The following URLs could not be scrapped: %d URL(s) rejected.", len(resp.InvalidURLs))
		md.PlainText("")
		rows := make([][]string, len(resp.InvalidURLs))
		for i, iu := range resp.InvalidURLs {
			rows[i] = []string{"`" + iu.URL + "`", iu.Issue}
		}
		md.Table(markdown.TableSet{Header: []string{"URL", "Issue"}, Rows: rows})
		md.PlainText("")
		writeFooter(md, report.GeneratedAt)
		return build(md, &buf)
	}

	rows := Rows(report.URLs, resp)
	set := charts.FromResponse(resp)
	avg := ComputeAverages(set)

	urlRows := make([][]string, len(rows))
	for i, row := range rows {
		urlRows[i] = []string{row.Label(), row.URL}
	}
	md.Table(markdown.TableSet{Header: []string{"Label", "URL"}, Rows: urlRows})
	md.PlainText("")

	if set.Empty() {
		md.Note("The server returned no analysis results.")
		md.PlainText("")
	}

	if set.Sentiment != nil {
		writeSentiment(md, rows, avg, set.Sentiment)
	}
	if set.Readability != nil {
		writeReadability(md, rows, avg, set.Readability)
	}
	if set.WordClouds != nil {
		writeWordClouds(md, set.WordClouds, report.Images)
	}

	writeFooter(md, report.GeneratedAt)
	return build(md, &buf)
}

func build(md *markdown.Markdown, buf *bytes.Buffer) ([]byte, error) {
	if err := md.Build(); err != nil {
		return nil, fmt.Errorf("failed to build markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSentiment(md *markdown.Markdown, rows []Row, avg Averages, fig *charts.Figure) {
	md.H2(fig.Layout.Title.Text)
	md.PlainText("")

	var table [][]string
	for _, row := range rows {
		if row.Sentiment == nil {
			continue
		}
		table = append(table, []string{row.Label(),
			formatScore(&row.Sentiment.Positive), formatScore(&row.Sentiment.Neutral), formatScore(&row.Sentiment.Negative)})
	}
	if avg.Positive != nil {
		table = append(table, []string{"**" + charts.AverageCategory + "**",
			formatScore(avg.Positive), formatScore(avg.Neutral), formatScore(avg.Negative)})
	}

	md.Table(markdown.TableSet{Header: []string{"URL", "Positive", "Neutral", "Negative"}, Rows: table})
	md.PlainText("")

	if avg.Positive == nil {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Average Sentiment (per mille)"),
		piechart.WithShowData(true),
	)
	for _, seg := range []struct {
		label string
		value *float64
	}{
		{"Positive", avg.Positive},
		{"Neutral", avg.Neutral},
		{"Negative", avg.Negative},
	} {
		if v := perMille(*seg.value); v > 0 {
			chart.LabelAndIntValue(seg.label, v)
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeReadability(md *markdown.Markdown, rows []Row, avg Averages, fig *charts.Figure) {
	md.H2(fig.Layout.Title.Text)
	md.PlainText("")

	var table [][]string
	for _, row := range rows {
		if row.Readability != nil {
			table = append(table, []string{row.Label(), formatScore(row.Readability)})
		}
	}
	if avg.Readability != nil {
		table = append(table, []string{"**" + charts.AverageCategory + "**", formatScore(avg.Readability)})
	}

	md.Table(markdown.TableSet{Header: []string{"URL", "Readability"}, Rows: table})
	md.PlainText("")
}

func writeWordClouds(md *markdown.Markdown, grid *charts.Grid, images map[int]string) {
	md.H2(grid.Title)
	md.PlainText("")

	var items []string
	for _, cell := range grid.Cells() {
		if path, ok := images[cell.Position]; ok && cell.Available() {
			items = append(items, fmt.Sprintf("%s: ![%s](%s)", cell.Label(), cell.Alt, filepath.ToSlash(path)))
			continue
		}
		items = append(items, fmt.Sprintf("%s: %s", cell.Label(), cell.Alt))
	}

	if len(items) == 0 {
		md.PlainText("No word clouds returned.")
	} else {
		md.BulletList(items...)
	}
	md.PlainText("")
}

func writeFooter(md *markdown.Markdown, at time.Time) {
	if at.IsZero() {
		at = time.Now()
	}
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by txa on %s*", at.Format("2006-01-02 15:04:05 MST"))
}

// perMille scales a score in [0,1] to an integer slice for the pie chart.
func perMille(v float64) uint64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return uint64(math.Round(v * 1000))
}

// WriteMarkdownExport writes README.md into dir.
func WriteMarkdownExport(report MarkdownReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := ExportToMarkdown(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	path := filepath.Join(dir, "README.md")
	return path, writeFile(path, data)
}
