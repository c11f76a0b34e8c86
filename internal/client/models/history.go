package models

import "time"

// HistoryEntry summarises one completed analysis. Entries are never
// modified after creation.
type HistoryEntry struct {
	URL          string    `json:"url"`
	Score        *float64  `json:"score"`
	Grade        string    `json:"grade"`
	AnalysisType string    `json:"analysis_type"`
	CompletedAt  time.Time `json:"completed_at"`
}
