package tasks

import (
	"fmt"

	"github.com/desertthunder/txa/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Validate Phase = iota
	Submit
	Render
	Record
	ExportImages
	ExportReport
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case Submit:
		return "submit"
	case Render:
		return "render"
	case Record:
		return "record"
	case ExportImages:
		return "export_images"
	case ExportReport:
		return "export_report"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func validateUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validate,
		Step:    1,
		Total:   total,
		Message: fmt.Sprintf("Checking %d URL(s)...", total),
	}
}

func submitUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Submit,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Submitting %d URL(s) for analysis...", total),
	}
}

func renderUpdate(resp *models.AnalysisResponse) ProgressUpdate {
	msg := fmt.Sprintf("Rendering %d word cloud(s), %d sentiment score(s), %d readability score(s)",
		len(resp.WordClouds), len(resp.Sentiment), len(resp.Readability))
	return ProgressUpdate{
		Phase:   Render,
		Step:    1,
		Total:   1,
		Message: msg,
		Data:    resp,
	}
}

func recordUpdate(run *models.Run) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Record,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saved run #%d (%s)", run.Sequence(), run.Status()),
		Data:    run,
	}
}

func imageExportedUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportImages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, name),
	}
}

func imageFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportImages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func reportWrittenUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportReport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Wrote %s", step, total, path),
	}
}
