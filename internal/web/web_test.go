package web

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/txa/internal/models"
	th "github.com/desertthunder/txa/internal/testing"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func TestRenderReport(t *testing.T) {
	t.Run("Full Response", func(t *testing.T) {
		urls := []string{"https://a.example", "https://b.example"}
		var buf bytes.Buffer
		if err := RenderReport(&buf, NewReport(urls, th.SampleResponse(), "")); err != nil {
			t.Fatalf("RenderReport failed: %v", err)
		}
		doc := parse(t, buf.String())

		labels := doc.Find("#url-list .url-label")
		if labels.Length() != 2 || labels.Eq(1).Text() != "URL 2:" {
			t.Errorf("unexpected URL labels: %q", labels.Text())
		}

		clouds := doc.Find("#word-cloud-container .cloud")
		if clouds.Length() != 2 {
			t.Fatalf("expected 2 word cloud cells, got %d", clouds.Length())
		}

		first := clouds.Eq(0).Find("img")
		if src, _ := first.Attr("src"); !strings.HasPrefix(src, "data:image/png;base64,") {
			t.Errorf("expected data URI, got %q", src)
		}
		if alt, _ := first.Attr("alt"); alt != "Word Cloud for https://a.example" {
			t.Errorf("unexpected alt %q", alt)
		}

		second := clouds.Eq(1).Find("img")
		if _, ok := second.Attr("src"); ok {
			t.Error("missing word cloud should have no src")
		}
		if alt, _ := second.Attr("alt"); alt != "Word Cloud not available" {
			t.Errorf("unexpected alt %q", alt)
		}
		if clouds.Eq(1).Find("p").Text() != "URL 2" {
			t.Errorf("expected position label, got %q", clouds.Eq(1).Find("p").Text())
		}

		for _, id := range []string{"sentimentChart", "readabilityChart"} {
			if doc.Find("#"+id).Length() != 1 {
				t.Errorf("missing chart mount %s", id)
			}
		}

		script := doc.Find("script").Text()
		for _, want := range []string{`Plotly.newPlot("sentimentChart"`, `"Avg Positive"`, `"barmode":"stack"`, `"x":["Average"]`} {
			if !strings.Contains(script, want) {
				t.Errorf("chart script missing %s", want)
			}
		}
		if doc.Find("#alert").Length() != 0 {
			t.Error("expected no alert")
		}
	})

	t.Run("Invalid URLs", func(t *testing.T) {
		resp := &models.AnalysisResponse{
			InvalidURLs: []models.InvalidURL{{URL: "a", Issue: "x"}},
			Sentiment:   []models.Sentiment{{Positive: 1}},
		}
		var buf bytes.Buffer
		if err := RenderReport(&buf, NewReport([]string{"a"}, resp, "The following URLs could not be scrapped:\n- a:\nERROR : x\n")); err != nil {
			t.Fatalf("RenderReport failed: %v", err)
		}
		doc := parse(t, buf.String())

		alert := doc.Find("#alert").Text()
		if !strings.Contains(alert, "a:") || !strings.Contains(alert, "ERROR : x") {
			t.Errorf("unexpected alert %q", alert)
		}
		if doc.Find(".chart").Length() != 0 || doc.Find("#word-cloud-container").Length() != 0 {
			t.Error("no charts should render for invalid responses")
		}
	})

	t.Run("Escapes URLs", func(t *testing.T) {
		var buf bytes.Buffer
		if err := RenderReport(&buf, NewReport([]string{`https://x.example/"><script>alert(1)</script>`}, nil, "")); err != nil {
			t.Fatalf("RenderReport failed: %v", err)
		}
		if strings.Contains(buf.String(), "<script>alert(1)</script>") {
			t.Error("URL text was not escaped")
		}
	})
}

func TestReportFromRun(t *testing.T) {
	run := models.NewRun(7, []string{"https://a.example"}, models.RunRendered)
	run.SetID("run-7")
	run.SetResponse(`{"readability_comparison": [{"Readability": 10}]}`)

	report, err := ReportFromRun(run)
	if err != nil {
		t.Fatalf("ReportFromRun failed: %v", err)
	}
	if report.RunID != "run-7" || report.Sequence != 7 || report.Status != models.RunRendered {
		t.Errorf("unexpected report metadata: %+v", report)
	}
	if report.Charts.Readability == nil || report.Charts.Sentiment != nil {
		t.Errorf("unexpected charts: %+v", report.Charts)
	}

	run.SetResponse("not json")
	if _, err := ReportFromRun(run); err == nil {
		t.Error("expected error for corrupt stored response")
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.html")
	if err := WriteReport(path, NewReport([]string{"https://a.example"}, th.SampleResponse(), "")); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	if !strings.Contains(th.MustReadFile(t, path), "readabilityChart") {
		t.Error("report file missing chart mount")
	}
}

func TestRenderIndex(t *testing.T) {
	run := models.NewRun(3, []string{"https://a.example", "https://b.example"}, models.RunInvalid)
	run.SetID("run-3")
	run.SetCreatedAt(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := RenderIndex(&buf, Summarize([]*models.Run{run})); err != nil {
		t.Fatalf("RenderIndex failed: %v", err)
	}
	doc := parse(t, buf.String())

	row := doc.Find("#runs tr.run")
	if row.Length() != 1 {
		t.Fatalf("expected 1 row, got %d", row.Length())
	}
	if href, _ := row.Find("a").Attr("href"); href != "/runs/run-3" {
		t.Errorf("unexpected link %q", href)
	}
	if !strings.Contains(row.Text(), "invalid") || !strings.Contains(row.Text(), "2025-05-01 12:00") {
		t.Errorf("unexpected row text %q", row.Text())
	}

	buf.Reset()
	if err := RenderIndex(&buf, nil); err != nil {
		t.Fatalf("RenderIndex failed: %v", err)
	}
	if parse(t, buf.String()).Find(".empty").Length() != 1 {
		t.Error("expected empty state")
	}
}
