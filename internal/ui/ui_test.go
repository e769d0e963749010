package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/txa/internal/charts"
	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/shared"
	"github.com/desertthunder/txa/internal/tasks"
	tu "github.com/desertthunder/txa/internal/testing"
	"github.com/desertthunder/txa/internal/urllist"
)

func newTestModel(t *testing.T, analyzer *tu.MockAnalyzer, urls ...string) *Model {
	t.Helper()

	var buf bytes.Buffer
	pipeline := tasks.NewPipeline(analyzer, shared.NewLogger(&buf))
	m := NewModel(context.Background(), pipeline, tasks.ExportOpts{OutputDir: t.TempDir(), NumWorkers: 2}, urllist.New(urls...))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func pressRune(m *Model, r rune) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return cmd
}

// finish drains the submission until the model leaves the submitting view.
func finish(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	if m.ViewState() != SubmittingView {
		if cmd != nil {
			m.Update(cmd())
		}
		return
	}

	for i := 0; m.ViewState() == SubmittingView; i++ {
		if i > 100 {
			t.Fatal("submission never completed")
		}
		next := m.waitForProgress()
		if next == nil {
			t.Fatal("no pending submission")
		}
		m.Update(next())
	}
}

func labels(m *Model) []string {
	items := m.entries.Items()
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.(entryItem).Title()
	}
	return out
}

func TestModelAddAndDelete(t *testing.T) {
	t.Run("add clears input", func(t *testing.T) {
		m := newTestModel(t, &tu.MockAnalyzer{})

		typeText(m, "https://a.example")
		press(m, tea.KeyEnter)

		if got := m.URLs(); len(got) != 1 || got[0] != "https://a.example" {
			t.Fatalf("unexpected urls: %v", got)
		}
		if m.input.Value() != "" {
			t.Errorf("expected input to be cleared, got %q", m.input.Value())
		}
	})

	t.Run("empty add is ignored", func(t *testing.T) {
		m := newTestModel(t, &tu.MockAnalyzer{}, "https://a.example")

		typeText(m, "   ")
		press(m, tea.KeyEnter)

		if n := len(m.URLs()); n != 1 {
			t.Errorf("expected 1 url, got %d", n)
		}
		if n := len(m.entries.Items()); n != 1 {
			t.Errorf("expected 1 list item, got %d", n)
		}
	})

	t.Run("delete renumbers", func(t *testing.T) {
		m := newTestModel(t, &tu.MockAnalyzer{}, "https://a.example", "https://b.example", "https://c.example")

		press(m, tea.KeyTab)
		m.entries.Select(1)
		pressRune(m, 'd')

		want := []string{"URL 1", "URL 2"}
		got := labels(m)
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("expected labels %v, got %v", want, got)
		}
		if urls := m.URLs(); urls[0] != "https://a.example" || urls[1] != "https://c.example" {
			t.Errorf("unexpected survivors: %v", urls)
		}
	})

	t.Run("typing d in the input does not delete", func(t *testing.T) {
		m := newTestModel(t, &tu.MockAnalyzer{}, "https://a.example")

		pressRune(m, 'd')

		if n := len(m.URLs()); n != 1 {
			t.Errorf("expected 1 url, got %d", n)
		}
		if m.input.Value() != "d" {
			t.Errorf("expected input to receive the key, got %q", m.input.Value())
		}
	})
}

func TestModelSubmit(t *testing.T) {
	t.Run("empty list alerts without a request", func(t *testing.T) {
		analyzer := &tu.MockAnalyzer{Response: tu.SampleResponse()}
		m := newTestModel(t, analyzer)

		finish(t, m, press(m, tea.KeyCtrlS))

		if m.ViewState() != AlertView {
			t.Fatalf("expected alert view, got %d", m.ViewState())
		}
		if m.Outcome().Alert != tasks.AlertNoURLs {
			t.Errorf("expected %q, got %q", tasks.AlertNoURLs, m.Outcome().Alert)
		}
		if analyzer.CallCount() != 0 {
			t.Errorf("expected no request, got %d", analyzer.CallCount())
		}

		press(m, tea.KeyEsc)
		if m.ViewState() != EditView {
			t.Errorf("expected edit view after esc, got %d", m.ViewState())
		}
	})

	t.Run("rendered result", func(t *testing.T) {
		analyzer := &tu.MockAnalyzer{Response: tu.SampleResponse()}
		m := newTestModel(t, analyzer, "https://a.example", "https://b.example")

		finish(t, m, press(m, tea.KeyCtrlS))

		if m.ViewState() != ResultView {
			t.Fatalf("expected result view, got %d", m.ViewState())
		}
		if analyzer.CallCount() != 1 {
			t.Errorf("expected one request, got %d", analyzer.CallCount())
		}

		view := m.View()
		for _, want := range []string{charts.WordCloudUnavailable, charts.AverageCategory, "Sentiment Comparison Across URLs"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected view to contain %q", want)
			}
		}
	})

	t.Run("invalid urls alert", func(t *testing.T) {
		analyzer := &tu.MockAnalyzer{Response: &models.AnalysisResponse{
			InvalidURLs: []models.InvalidURL{{URL: "a", Issue: "x"}},
		}}
		m := newTestModel(t, analyzer, "https://a.example")

		finish(t, m, press(m, tea.KeyCtrlS))

		if m.ViewState() != AlertView {
			t.Fatalf("expected alert view, got %d", m.ViewState())
		}
		if alert := m.Outcome().Alert; !strings.Contains(alert, "a") || !strings.Contains(alert, "x") {
			t.Errorf("unexpected alert: %q", alert)
		}
		if !m.Outcome().Charts.Empty() {
			t.Error("expected no charts")
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		analyzer := &tu.MockAnalyzer{Err: errors.New("connection refused")}
		m := newTestModel(t, analyzer, "https://a.example")

		finish(t, m, press(m, tea.KeyCtrlS))

		if m.Outcome().Alert != tasks.AlertFailed {
			t.Errorf("expected generic alert, got %q", m.Outcome().Alert)
		}
	})

	t.Run("second submit while in flight", func(t *testing.T) {
		block := make(chan struct{})
		started := make(chan struct{}, 1)
		analyzer := &tu.MockAnalyzer{Response: tu.SampleResponse(), Block: block, Started: started}
		m := newTestModel(t, analyzer, "https://a.example")

		cmd := press(m, tea.KeyCtrlS)
		<-started

		press(m, tea.KeyCtrlS)
		if !strings.Contains(m.View(), tasks.AlertInFlight) {
			t.Error("expected in-flight notice")
		}

		close(block)
		finish(t, m, cmd)

		if analyzer.CallCount() != 1 {
			t.Errorf("expected exactly one request, got %d", analyzer.CallCount())
		}
	})
}

func TestModelExport(t *testing.T) {
	analyzer := &tu.MockAnalyzer{Response: tu.SampleResponse()}
	m := newTestModel(t, analyzer, "https://a.example", "https://b.example")

	finish(t, m, press(m, tea.KeyCtrlS))
	if m.ViewState() != ResultView {
		t.Fatalf("expected result view, got %d", m.ViewState())
	}

	pressRune(m, 'e')
	if !m.exporting {
		t.Fatal("expected export to start")
	}

	m.Update(m.export(m.outcome.Input())())

	if m.exportErr != nil {
		t.Fatalf("export failed: %v", m.exportErr)
	}
	tu.AssertFileExists(t, m.exported.ReportPath)
	if !strings.Contains(m.View(), "Report written to") {
		t.Error("expected export status in view")
	}
}

func TestRenderFigure(t *testing.T) {
	fig := charts.ReadabilityFigure([]models.Readability{{Readability: 10}, {Readability: 20}})
	out := RenderFigure(fig, 20)

	for _, want := range []string{"URL 1", "URL 2", charts.AverageCategory, "15.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}

	if got := RenderFigure(charts.ReadabilityFigure(nil), 20); strings.Contains(got, charts.AverageCategory) {
		t.Errorf("empty figure should have no average row:\n%s", got)
	}
}

func TestRenderWordClouds(t *testing.T) {
	grid := charts.WordCloudGrid([]models.WordCloud{
		{URL: "https://a.example", Image: tu.PNG},
		{URL: "https://b.example"},
	})

	out := RenderWordClouds(grid)
	if !strings.Contains(out, "1x1 png") {
		t.Errorf("expected image dimensions:\n%s", out)
	}
	if !strings.Contains(out, charts.WordCloudUnavailable) {
		t.Errorf("expected unavailable text:\n%s", out)
	}
}

func TestChartColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "#2E4250", want: "#2E4250"},
		{in: "purple", want: "#800080"},
		{in: "Gray", want: "#808080"},
		{in: "chartreuse", want: "#AAAAAA"},
	}

	for _, tt := range tests {
		if got := string(ChartColor(tt.in)); got != tt.want {
			t.Errorf("ChartColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
