package models

import (
	"sort"
	"strings"
)

// Plan is a paid subscription tier offered at checkout.
type Plan struct {
	Code  string
	Name  string
	Uses  int
	Price string
}

var catalogue = map[string]Plan{
	"starter":      {Code: "starter", Name: "Starter", Uses: 20, Price: "$12.99/mo"},
	"professional": {Code: "professional", Name: "Professional", Uses: 60, Price: "$22.99/mo"},
	"pro":          {Code: "pro", Name: "Pro", Uses: 150, Price: "$39.99/mo"},
}

// tierLimits are the monthly analysis allowances per tier.
var tierLimits = map[string]int{
	"free":         5,
	"starter":      20,
	"professional": 60,
	"pro":          150,
}

// LookupPlan finds a paid plan by code, case-insensitively.
func LookupPlan(code string) (Plan, bool) {
	p, ok := catalogue[strings.ToLower(strings.TrimSpace(code))]
	return p, ok
}

// Plans lists the paid plans ordered by allowance.
func Plans() []Plan {
	out := make([]Plan, 0, len(catalogue))
	for _, p := range catalogue {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Uses < out[j].Uses })
	return out
}

// TierLimit returns the monthly allowance for tier; unknown tiers get the
// free allowance.
func TierLimit(tier string) int {
	if l, ok := tierLimits[strings.ToLower(strings.TrimSpace(tier))]; ok {
		return l
	}
	return tierLimits[DefaultTier]
}
