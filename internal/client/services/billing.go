package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/templetsolutions/c4at3-client/internal/client/api"
	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

// BillingAPI is the subset of the API client used for checkout.
type BillingAPI interface {
	CreateCheckout(ctx context.Context, plan string) (string, error)
}

// BillingService lists the purchasable plans and starts checkouts.
type BillingService interface {
	// Plans lists the paid plans.
	Plans() []models.Plan
	// Checkout starts a payment for the plan and returns the URL to open.
	Checkout(ctx context.Context, planCode string) (string, error)
}

type billingService struct {
	api     BillingAPI
	session Session
	log     logging.Logger
}

// NewBillingService builds a BillingService.
func NewBillingService(a BillingAPI, s Session, log logging.Logger) BillingService {
	return &billingService{api: a, session: s, log: log.With("service", "billing")}
}

func (b *billingService) Plans() []models.Plan {
	return models.Plans()
}

func (b *billingService) Checkout(ctx context.Context, planCode string) (string, error) {
	if !b.session.IsAuthenticated() {
		return "", ErrLoginRequired
	}
	plan, ok := models.LookupPlan(planCode)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlan, planCode)
	}

	checkoutURL, err := b.api.CreateCheckout(ctx, plan.Code)
	switch {
	case err == nil:
		b.log.Info(ctx, "checkout started", "plan", plan.Code)
		return checkoutURL, nil
	case errors.Is(err, api.ErrUnauthorized):
		return "", fmt.Errorf("checkout: %w", invalidateOn(ctx, b.session, b.log, err))
	case errors.Is(err, api.ErrUnavailable), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "", fmt.Errorf("checkout: %w", err)
	case errors.Is(err, api.ErrBillingNotEnabled):
		return "", err
	}
	// Any other refusal means the billing backend is not live.
	b.log.Warn(ctx, "checkout unavailable", "plan", plan.Code, "error", err)
	return "", fmt.Errorf("%w: %w", ErrBillingNotEnabled, err)
}
