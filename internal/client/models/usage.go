package models

import "math"

// Warning levels the usage endpoint may attach to the counters.
const (
	WarningLevel80           = "warning_80"
	WarningLevel95           = "warning_95"
	WarningLevelLimitReached = "limit_reached"
)

// Usage is the derived view of the account's analysis counters. The
// advisory fields are copied from the server when it sends them.
type Usage struct {
	Used         int
	Limit        int
	Remaining    int
	Percentage   int
	LimitReached bool

	WarningLevel string
	Message      string
	Suggestion   string
}

// UsagePayload is what the usage endpoint returns; every field may be
// missing.
type UsagePayload struct {
	Used      *int `json:"used,omitempty"`
	Limit     *int `json:"limit,omitempty"`
	Remaining *int `json:"remaining,omitempty"`

	WarningLevel string `json:"warning_level,omitempty"`
	Message      string `json:"message,omitempty"`
	Suggestion   string `json:"suggestion,omitempty"`
	CanAnalyze   *bool  `json:"can_analyze,omitempty"`
}

// Derive fills in the counters the server left out: used defaults to 0,
// limit to used+remaining and remaining to max(limit-used, 0). The limit
// counts as reached when nothing remains, when the server says
// limit_reached or when it reports can_analyze false.
func (p UsagePayload) Derive() Usage {
	used := 0
	if p.Used != nil {
		used = *p.Used
	}

	limit := used
	switch {
	case p.Limit != nil:
		limit = *p.Limit
	case p.Remaining != nil:
		limit = used + *p.Remaining
	}

	remaining := 0
	if p.Remaining != nil {
		remaining = *p.Remaining
	} else if limit > used {
		remaining = limit - used
	}

	percentage := 0
	if limit > 0 {
		percentage = int(math.Round(float64(used) / float64(limit) * 100))
		if percentage > 100 {
			percentage = 100
		}
	}

	reached := remaining <= 0 || p.WarningLevel == WarningLevelLimitReached
	if p.CanAnalyze != nil && !*p.CanAnalyze {
		reached = true
	}

	return Usage{
		Used:         used,
		Limit:        limit,
		Remaining:    remaining,
		Percentage:   percentage,
		LimitReached: reached,
		WarningLevel: p.WarningLevel,
		Message:      p.Message,
		Suggestion:   p.Suggestion,
	}
}
