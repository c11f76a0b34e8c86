package cli

import (
	"context"
	"fmt"
)

// Usage prints the plan allowance of the current cycle.
func (a *App) Usage(ctx context.Context) error {
	printlnFn("Loading usage…")
	report, err := a.usageService.Summary(ctx)
	if err != nil {
		return a.fail(ctx, err, "Unable to load usage data.")
	}

	u := report.Usage
	limit := "—"
	if u.Limit > 0 {
		limit = fmt.Sprint(u.Limit)
	}
	printlnFn(fmt.Sprintf("Used %d of %s (%d%%), %d remaining", u.Used, limit, u.Percentage, u.Remaining))
	printlnFn(fmt.Sprintf("[%s] %s", report.State, report.Message))
	if report.Suggestion != "" {
		printlnFn(report.Suggestion)
	}
	if u.LimitReached {
		printlnFn("Run 'plans' to compare plans or 'checkout <plan>' to upgrade.")
	}
	return nil
}
