package models

import (
	"maps"
	"math"
	"slices"
	"strconv"
)

// Analysis job states reported by the API.
const (
	AnalysisStatusProcessing = "processing"
	AnalysisStatusQueued     = "queued"
	AnalysisStatusPending    = "pending"
	AnalysisStatusFailed     = "failed"
)

// DefaultAnalysisType is used when the caller does not pick one.
const DefaultAnalysisType = "standard"

// AnalysisResult is the outcome of a submitted analysis. Score is nil when
// the server did not return a numeric score. Dimensions maps a dimension
// name such as "Credibility" to its 0-100 score.
type AnalysisResult struct {
	Score           *float64
	Grade           string
	Status          string
	AnalysisID      string
	Detail          string
	Dimensions      map[string]float64
	Recommendations []string
}

// DimensionNames returns the dimension names in lexical order.
func (r AnalysisResult) DimensionNames() []string {
	return slices.Sorted(maps.Keys(r.Dimensions))
}

// Pending reports whether the job still has to be polled.
func (r AnalysisResult) Pending() bool {
	switch r.Status {
	case AnalysisStatusProcessing, AnalysisStatusQueued, AnalysisStatusPending:
		return true
	}
	return false
}

// FormatScore renders the score rounded to whole points, or "—".
func FormatScore(score *float64) string {
	if score == nil || math.IsNaN(*score) || math.IsInf(*score, 0) {
		return "—"
	}
	return strconv.Itoa(int(math.Round(*score)))
}

// FormatPoints renders a 0-100 score as "N/100".
func FormatPoints(score float64) string {
	return FormatScore(&score) + "/100"
}

// FormatGrade renders the grade, or "—" when empty.
func FormatGrade(grade string) string {
	if grade == "" {
		return "—"
	}
	return grade
}
