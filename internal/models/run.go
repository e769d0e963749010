package models

import (
	"fmt"
	"time"
)

// RunStatus is the terminal outcome of a submission.
type RunStatus string

const (
	RunRendered RunStatus = "rendered" // charts were produced
	RunInvalid  RunStatus = "invalid"  // one or more URLs were rejected
	RunFailed   RunStatus = "failed"   // transport, parse or server error
)

// Valid reports whether s is a known status.
func (s RunStatus) Valid() bool {
	switch s {
	case RunRendered, RunInvalid, RunFailed:
		return true
	}
	return false
}

// Run records a single submission to the analysis server.
type Run struct {
	id        string
	sequence  int
	urls      []string
	status    RunStatus
	alert     string
	response  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewRun creates a [Run] for the given URLs and outcome.
func NewRun(sequence int, urls []string, status RunStatus) *Run {
	now := time.Now()
	return &Run{
		sequence:  sequence,
		urls:      append([]string(nil), urls...),
		status:    status,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *Run) ID() string            { return r.id }
func (r *Run) Sequence() int         { return r.sequence }
func (r *Run) URLs() []string        { return append([]string(nil), r.urls...) }
func (r *Run) Status() RunStatus     { return r.status }
func (r *Run) Alert() string         { return r.alert }
func (r *Run) Response() string      { return r.response }
func (r *Run) CreatedAt() time.Time  { return r.createdAt }
func (r *Run) UpdatedAt() time.Time  { return r.updatedAt }
func (r *Run) DeletedAt() *time.Time { return r.deletedAt }

func (r *Run) SetID(id string)            { r.id = id }
func (r *Run) SetSequence(seq int)        { r.sequence = seq }
func (r *Run) SetStatus(status RunStatus) { r.status = status }
func (r *Run) SetAlert(alert string)      { r.alert = alert }
func (r *Run) SetResponse(raw string)     { r.response = raw }
func (r *Run) SetCreatedAt(t time.Time)   { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time)   { r.updatedAt = t }
func (r *Run) SetDeletedAt(t *time.Time)  { r.deletedAt = t }

// Validate checks that the run has URLs and a known status.
func (r *Run) Validate() error {
	if r.id == "" {
		return fmt.Errorf("run ID is required")
	}
	if len(r.urls) == 0 {
		return fmt.Errorf("run must contain at least one URL")
	}
	if !r.status.Valid() {
		return fmt.Errorf("unknown run status: %q", r.status)
	}
	return nil
}

// Decode parses the stored raw response. Runs without a stored response yield an empty [AnalysisResponse].
func (r *Run) Decode() (*AnalysisResponse, error) {
	if r.response == "" {
		return &AnalysisResponse{}, nil
	}
	return ParseAnalysisResponse([]byte(r.response))
}
