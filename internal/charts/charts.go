package charts

import "github.com/desertthunder/txa/internal/models"

// Set holds whichever renderings a response produced. A nil member means the
// corresponding field was absent.
type Set struct {
	WordClouds  *Grid
	Sentiment   *Figure
	Readability *Figure
}

// Empty reports whether nothing was rendered.
func (s *Set) Empty() bool {
	return s == nil || (s.WordClouds == nil && s.Sentiment == nil && s.Readability == nil)
}

// Figures returns the non-nil figures in page order.
func (s *Set) Figures() []*Figure {
	var figs []*Figure
	for _, f := range []*Figure{s.Sentiment, s.Readability} {
		if f != nil {
			figs = append(figs, f)
		}
	}
	return figs
}

// FromResponse renders each present field of resp independently.
//
// Responses that report invalid URLs render nothing.
func FromResponse(resp *models.AnalysisResponse) *Set {
	set := &Set{}
	if resp == nil || resp.HasInvalidURLs() {
		return set
	}

	if resp.WordClouds != nil {
		set.WordClouds = WordCloudGrid(resp.WordClouds)
	}
	if resp.Sentiment != nil {
		set.Sentiment = SentimentFigure(resp.Sentiment)
	}
	if resp.Readability != nil {
		set.Readability = ReadabilityFigure(resp.Readability)
	}

	return set
}
