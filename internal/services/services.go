// package services defines the [Analyzer] interface for submitting URLs to the analysis server
package services

import (
	"context"

	"github.com/desertthunder/txa/internal/models"
)

// Analyzer submits an ordered URL list for analysis and returns the decoded reply.
//
// A reply that reports invalid URLs is not an error: callers inspect
// [models.AnalysisResponse.HasInvalidURLs].
type Analyzer interface {
	Analyze(ctx context.Context, urls []string) (*models.AnalysisResponse, error)
}
