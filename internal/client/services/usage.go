package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/templetsolutions/c4at3-client/internal/client/api"
	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

// UsageAPI is the subset of the API client used for usage counters.
type UsageAPI interface {
	Usage(ctx context.Context) (models.UsagePayload, error)
}

// FallbackProvider supplies the counters shown when the server cannot.
type FallbackProvider interface {
	Fallback(user *models.User) models.UsagePayload
}

// FallbackFunc adapts a function to FallbackProvider.
type FallbackFunc func(user *models.User) models.UsagePayload

func (f FallbackFunc) Fallback(user *models.User) models.UsagePayload { return f(user) }

// TierFallback assumes nothing has been used yet and the full allowance of
// the user's tier remains.
var TierFallback FallbackProvider = FallbackFunc(func(user *models.User) models.UsagePayload {
	limit := models.TierLimit(user.TierOrDefault())
	used := 0
	return models.UsagePayload{Used: &used, Limit: &limit, Remaining: &limit}
})

// UsageState classifies a UsageReport for display.
type UsageState string

const (
	UsageStateSuccess UsageState = "success"
	UsageStateError   UsageState = "error"
	UsageStateWarning UsageState = "warning"
)

const (
	msgUsageNotEnabled  = "Usage tracking is not enabled yet."
	msgUsageUnavailable = "Unable to load usage data."
	msgLimitReached     = "You have reached your plan limit for this cycle."
)

// UsageReport is what the usage screen renders.
type UsageReport struct {
	Usage      models.Usage
	Message    string
	Suggestion string
	State      UsageState
}

// UsageService reports the plan allowance of the signed-in user.
type UsageService interface {
	// Summary reports the current counters. When the server cannot provide
	// them the fallback counters are reported in the warning state together
	// with the reason.
	Summary(ctx context.Context) (UsageReport, error)
}

type usageService struct {
	api      UsageAPI
	session  Session
	fallback FallbackProvider
	log      logging.Logger
}

// NewUsageService builds a UsageService. A nil fallback means TierFallback.
func NewUsageService(a UsageAPI, s Session, fallback FallbackProvider, log logging.Logger) UsageService {
	if fallback == nil {
		fallback = TierFallback
	}
	return &usageService{api: a, session: s, fallback: fallback, log: log.With("service", "usage")}
}

func (u *usageService) Summary(ctx context.Context) (UsageReport, error) {
	if !u.session.IsAuthenticated() {
		return UsageReport{}, ErrLoginRequired
	}

	payload, err := u.api.Usage(ctx)
	if err != nil {
		// Read the tier before a 401 wipes the profile.
		user := u.session.User()
		_ = invalidateOn(ctx, u.session, u.log, err)
		u.log.Warn(ctx, "usage unavailable, showing fallback", "error", err)
		return UsageReport{
			Usage:   u.fallback.Fallback(user).Derive(),
			Message: usageFailureMessage(err),
			State:   UsageStateWarning,
		}, nil
	}

	return ReportFor(payload.Derive()), nil
}

// ReportFor renders counters fetched from the server. A message or warning
// level sent by the server takes precedence over the derived one.
func ReportFor(usage models.Usage) UsageReport {
	r := UsageReport{Usage: usage, Suggestion: usage.Suggestion}
	switch {
	case usage.LimitReached:
		r.State, r.Message = UsageStateError, msgLimitReached
	case usage.WarningLevel == models.WarningLevel80, usage.WarningLevel == models.WarningLevel95:
		r.State, r.Message = UsageStateWarning, remainingMessage(usage.Remaining)
	default:
		r.State, r.Message = UsageStateSuccess, remainingMessage(usage.Remaining)
	}
	if usage.Message != "" {
		r.Message = usage.Message
	}
	return r
}

func remainingMessage(n int) string {
	if n == 1 {
		return "1 analysis remaining this cycle."
	}
	return fmt.Sprintf("%d analyses remaining this cycle.", n)
}

func usageFailureMessage(err error) string {
	if errors.Is(err, api.ErrNotEnabled) {
		return msgUsageNotEnabled
	}
	return MessageFor(err, msgUsageUnavailable)
}
