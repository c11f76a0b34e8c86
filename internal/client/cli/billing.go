package cli

import (
	"context"
	"fmt"
)

// Plans lists the paid plans.
func (a *App) Plans(context.Context) error {
	for _, p := range a.billingService.Plans() {
		printlnFn(fmt.Sprintf("%-13s %-13s %4d analyses/mo  %s", p.Code, p.Name, p.Uses, p.Price))
	}
	return nil
}

// Checkout starts a payment for the plan named by the first argument and
// prints the link to complete it.
func (a *App) Checkout(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: checkout <plan>")
		return nil
	}

	printlnFn("Attempting to start checkout…")
	checkoutURL, err := a.billingService.Checkout(ctx, args[0])
	if err != nil {
		return a.fail(ctx, err, "Billing is not enabled yet. Our team will reach out to complete your upgrade.")
	}

	printlnFn("Open this link to complete your upgrade:")
	printlnFn(checkoutURL)
	return nil
}
