// package tasks implements the analysis request/render pipeline and artifact export.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/txa/internal/charts"
	"github.com/desertthunder/txa/internal/formatter"
	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/services"
	"github.com/desertthunder/txa/internal/shared"
)

// User-facing alert texts.
const (
	AlertNoURLs      = "Please enter at least one URL"
	AlertInFlight    = "A request is already in progress"
	AlertFailed      = "An error occurred while processing the request. Please try again."
	AlertInvalidHead = "The following URLs could not be scrapped:\n"
)

// InvalidURLsAlert aggregates every rejected URL and its issue into one message.
func InvalidURLsAlert(invalid []models.InvalidURL) string {
	return AlertInvalidHead + formatter.InvalidURLsText(invalid)
}

// State is the pipeline's request state.
type State int32

const (
	Idle State = iota
	InFlight
)

func (s State) String() string {
	if s == InFlight {
		return "in_flight"
	}
	return "idle"
}

// OutcomeKind classifies how a submission ended.
type OutcomeKind int

const (
	Rejected OutcomeKind = iota // refused locally, nothing sent
	Invalid                     // one or more URLs rejected, no charts
	Failed                      // transport, parse or server error
	Rendered                    // charts produced
)

func (k OutcomeKind) String() string {
	switch k {
	case Rejected:
		return "rejected"
	case Invalid:
		return "invalid"
	case Failed:
		return "failed"
	case Rendered:
		return "rendered"
	default:
		return ""
	}
}

// Outcome is the result of one submission.
type Outcome struct {
	Kind     OutcomeKind
	URLs     []string
	Alert    string // empty when rendered
	Response *models.AnalysisResponse
	Charts   *charts.Set // nil unless rendered
	Run      *models.Run // nil when not recorded
	Err      error
}

// HasAlert reports whether the user should see a blocking alert.
func (o *Outcome) HasAlert() bool {
	return o.Alert != ""
}

// RunRecorder persists submissions. [repositories.RunRepository] satisfies it.
type RunRecorder interface {
	Create(run *models.Run) error
}

// Option configures a [Pipeline].
type Option func(*Pipeline)

// WithRecorder stores every submitted request as a [models.Run].
func WithRecorder(r RunRecorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithLocalValidation pre-checks URLs with [shared.ValidateURL] before sending.
func WithLocalValidation(enabled bool) Option {
	return func(p *Pipeline) { p.validate = enabled }
}

// Pipeline submits a URL list and routes the reply to the renderers.
//
// At most one request is outstanding at a time. A Pipeline is safe for concurrent use.
type Pipeline struct {
	analyzer services.Analyzer
	recorder RunRecorder
	validate bool
	logger   *log.Logger
	state    atomic.Int32
}

// NewPipeline creates a [Pipeline] around analyzer.
func NewPipeline(analyzer services.Analyzer, logger *log.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	p := &Pipeline{analyzer: analyzer, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current request state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Submit sends urls for analysis.
//
// Empty input and overlapping submissions are rejected without a request. Local
// validation failures and server-reported invalid URLs yield an Invalid outcome with the
// aggregated alert. Any other failure yields the generic alert and is logged. No retries.
func (p *Pipeline) Submit(ctx context.Context, urls []string, progress chan<- ProgressUpdate) *Outcome {
	urls = append([]string(nil), urls...)
	if len(urls) == 0 {
		return &Outcome{Kind: Rejected, Alert: AlertNoURLs, Err: shared.ErrNoURLs}
	}

	if !p.state.CompareAndSwap(int32(Idle), int32(InFlight)) {
		p.logger.Warn("submission rejected, request in flight", "urls", len(urls))
		return &Outcome{Kind: Rejected, URLs: urls, Alert: AlertInFlight, Err: shared.ErrRequestInFlight}
	}
	defer p.state.Store(int32(Idle))

	outcome := p.run(ctx, urls, progress)
	p.record(outcome, progress)
	return outcome
}

func (p *Pipeline) run(ctx context.Context, urls []string, progress chan<- ProgressUpdate) *Outcome {
	if p.validate {
		sendProgress(progress, validateUpdate(len(urls)))
		if invalid := CheckURLs(urls); len(invalid) > 0 {
			resp := &models.AnalysisResponse{InvalidURLs: invalid}
			p.logger.Info("urls failed local validation", "invalid", len(invalid))
			return &Outcome{Kind: Invalid, URLs: urls, Alert: InvalidURLsAlert(invalid), Response: resp, Err: shared.ErrInvalidURLs}
		}
	}

	sendProgress(progress, submitUpdate(len(urls)))

	resp, err := p.analyzer.Analyze(ctx, urls)
	if err == nil && resp == nil {
		err = fmt.Errorf("%w: empty response", shared.ErrInvalidResponse)
	}
	if err != nil {
		if !errors.Is(err, shared.ErrAPIRequest) && !errors.Is(err, shared.ErrInvalidResponse) {
			err = fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
		}
		p.logger.Error("analysis request failed", "urls", len(urls), "error", err)
		return &Outcome{Kind: Failed, URLs: urls, Alert: AlertFailed, Err: err}
	}

	if resp.HasInvalidURLs() {
		p.logger.Info("server rejected urls", "invalid", len(resp.InvalidURLs))
		return &Outcome{Kind: Invalid, URLs: urls, Alert: InvalidURLsAlert(resp.InvalidURLs), Response: resp, Err: shared.ErrInvalidURLs}
	}

	sendProgress(progress, renderUpdate(resp))
	return &Outcome{Kind: Rendered, URLs: urls, Response: resp, Charts: charts.FromResponse(resp)}
}

func (p *Pipeline) record(o *Outcome, progress chan<- ProgressUpdate) {
	if p.recorder == nil {
		return
	}

	status := models.RunFailed
	switch o.Kind {
	case Rendered:
		status = models.RunRendered
	case Invalid:
		status = models.RunInvalid
	}

	run := models.NewRun(0, o.URLs, status)
	run.SetAlert(o.Alert)
	if o.Response != nil {
		raw, err := shared.MarshalJSON(o.Response, false)
		if err != nil {
			p.logger.Warn("failed to encode response for history", "error", err)
		} else {
			run.SetResponse(string(raw))
		}
	}

	if err := p.recorder.Create(run); err != nil {
		p.logger.Warn("failed to record run", "error", err)
		return
	}

	o.Run = run
	sendProgress(progress, recordUpdate(run))
}

// CheckURLs returns an invalid-URL record for each entry that fails [shared.ValidateURL].
func CheckURLs(urls []string) []models.InvalidURL {
	var invalid []models.InvalidURL
	for _, u := range urls {
		if err := shared.ValidateURL(u); err != nil {
			invalid = append(invalid, models.InvalidURL{URL: u, Issue: shared.InvalidURLIssue})
		}
	}
	return invalid
}
