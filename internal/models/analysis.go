package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AnalysisRequest is the JSON body sent to the analyze endpoint.
type AnalysisRequest struct {
	URLs []string `json:"urls"`
}

// InvalidURL is a URL the server refused, with a human-readable reason.
type InvalidURL struct {
	URL   string `json:"URL"`
	Issue string `json:"issue"`
}

// WordCloud carries a base64 encoded PNG for one URL. Image is empty when the server produced none.
type WordCloud struct {
	URL   string `json:"URL"`
	Image string `json:"word_cloud"`
}

// HasImage reports whether the server sent an image payload.
func (w WordCloud) HasImage() bool {
	return w.Image != ""
}

// Sentiment holds the three sentiment segment scores for one URL.
type Sentiment struct {
	URL      string  `json:"URL,omitempty"`
	Positive float64 `json:"Positive"`
	Neutral  float64 `json:"Neutral"`
	Negative float64 `json:"Negative"`
}

// Readability holds the readability score for one URL.
type Readability struct {
	URL         string  `json:"URL,omitempty"`
	Readability float64 `json:"Readability"`
}

// AnalysisResponse is the decoded reply from the analyze endpoint.
//
// Every field is optional. A nil slice means the field was absent or malformed.
type AnalysisResponse struct {
	InvalidURLs []InvalidURL  `json:"invalid_urls,omitempty"`
	WordClouds  []WordCloud   `json:"word_clouds,omitempty"`
	Sentiment   []Sentiment   `json:"sentiment_comparison,omitempty"`
	Readability []Readability `json:"readability_comparison,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// HasInvalidURLs reports whether the server rejected any submitted URL.
func (r *AnalysisResponse) HasInvalidURLs() bool {
	return r != nil && len(r.InvalidURLs) > 0
}

// Empty reports whether the response carries nothing renderable.
func (r *AnalysisResponse) Empty() bool {
	return r == nil || (r.WordClouds == nil && r.Sentiment == nil && r.Readability == nil)
}

// ParseAnalysisResponse decodes a server reply.
//
// The top level must be a JSON object. Each known field is decoded on its own so that a
// malformed field is dropped without affecting the others. Unknown fields are ignored.
func ParseAnalysisResponse(data []byte) (*AnalysisResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &fields); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("response is not a JSON object: null")
	}

	resp := &AnalysisResponse{}
	decodeField(fields, "invalid_urls", &resp.InvalidURLs)
	decodeField(fields, "word_clouds", &resp.WordClouds)
	decodeField(fields, "sentiment_comparison", &resp.Sentiment)
	decodeField(fields, "readability_comparison", &resp.Readability)
	decodeField(fields, "error", &resp.Error)

	return resp, nil
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}
