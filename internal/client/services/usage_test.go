package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templetsolutions/c4at3-client/internal/client/api"
	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

func usageOK(p models.UsagePayload) *fakeAPI {
	return &fakeAPI{UsageFn: func() (models.UsagePayload, error) { return p, nil }}
}

func usageErr(err error) *fakeAPI {
	return &fakeAPI{UsageFn: func() (models.UsagePayload, error) { return models.UsagePayload{}, err }}
}

func TestUsageService_Summary(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeAPI
		want UsageReport
	}{
		{
			name: "limit reached",
			api:  usageOK(models.UsagePayload{Used: intp(5), Limit: intp(5)}),
			want: UsageReport{
				Usage:   models.Usage{Used: 5, Limit: 5, Remaining: 0, Percentage: 100, LimitReached: true},
				Message: "You have reached your plan limit for this cycle.",
				State:   UsageStateError,
			},
		},
		{
			name: "several remaining",
			api:  usageOK(models.UsagePayload{Used: intp(2), Limit: intp(20)}),
			want: UsageReport{
				Usage:   models.Usage{Used: 2, Limit: 20, Remaining: 18, Percentage: 10},
				Message: "18 analyses remaining this cycle.",
				State:   UsageStateSuccess,
			},
		},
		{
			name: "one remaining",
			api:  usageOK(models.UsagePayload{Used: intp(4), Remaining: intp(1)}),
			want: UsageReport{
				Usage:   models.Usage{Used: 4, Limit: 5, Remaining: 1, Percentage: 80},
				Message: "1 analysis remaining this cycle.",
				State:   UsageStateSuccess,
			},
		},
		{
			name: "not deployed",
			api:  usageErr(&api.APIError{StatusCode: 404}),
			want: UsageReport{
				Usage:   models.Usage{Used: 0, Limit: 20, Remaining: 20},
				Message: "Usage tracking is not enabled yet.",
				State:   UsageStateWarning,
			},
		},
		{
			name: "server detail",
			api:  usageErr(&api.APIError{StatusCode: 500, Detail: "db down"}),
			want: UsageReport{
				Usage:   models.Usage{Used: 0, Limit: 20, Remaining: 20},
				Message: "db down",
				State:   UsageStateWarning,
			},
		},
		{
			name: "no detail",
			api:  usageErr(&api.APIError{StatusCode: 500}),
			want: UsageReport{
				Usage:   models.Usage{Used: 0, Limit: 20, Remaining: 20},
				Message: "Unable to load usage data.",
				State:   UsageStateWarning,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := loggedIn(&models.User{ID: "1", Tier: "Starter"})
			got, err := NewUsageService(tt.api, sess, nil, logging.Discard()).Summary(context.Background())
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReportFor_ServerAdvisory(t *testing.T) {
	tests := []struct {
		name  string
		usage models.Usage
		want  UsageReport
	}{
		{
			name:  "warning level with server text",
			usage: models.Usage{Used: 4, Limit: 5, Remaining: 1, WarningLevel: models.WarningLevel80, Message: "Warning: 1 analysis remains this month.", Suggestion: "You're approaching your monthly limit."},
			want: UsageReport{
				Message:    "Warning: 1 analysis remains this month.",
				Suggestion: "You're approaching your monthly limit.",
				State:      UsageStateWarning,
			},
		},
		{
			name:  "warning level without text",
			usage: models.Usage{Used: 19, Limit: 20, Remaining: 1, WarningLevel: models.WarningLevel95},
			want:  UsageReport{Message: "1 analysis remaining this cycle.", State: UsageStateWarning},
		},
		{
			name:  "limit reached with server text",
			usage: models.Usage{Used: 5, Limit: 5, LimitReached: true, WarningLevel: models.WarningLevelLimitReached, Message: "Monthly limit reached."},
			want:  UsageReport{Message: "Monthly limit reached.", State: UsageStateError},
		},
		{
			name:  "unknown level",
			usage: models.Usage{Used: 1, Limit: 5, Remaining: 4, WarningLevel: "normal"},
			want:  UsageReport{Message: "4 analyses remaining this cycle.", State: UsageStateSuccess},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Usage = tt.usage
			if diff := cmp.Diff(tt.want, ReportFor(tt.usage)); diff != "" {
				t.Errorf("ReportFor() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUsageService_InjectedFallback(t *testing.T) {
	fixed := FallbackFunc(func(*models.User) models.UsagePayload {
		return models.UsagePayload{Used: intp(1), Limit: intp(3)}
	})
	svc := NewUsageService(usageErr(errors.New("boom")), loggedIn(&models.User{ID: "1"}), fixed, logging.Discard())

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Usage{Used: 1, Limit: 3, Remaining: 2, Percentage: 33}, got.Usage)
	assert.Equal(t, UsageStateWarning, got.State)
	assert.Equal(t, "Unable to load usage data.", got.Message)
}

func TestUsageService_UnauthorizedClearsSession(t *testing.T) {
	sess := loggedIn(&models.User{ID: "1", Tier: "pro"})
	got, err := NewUsageService(usageErr(errUnauthorized), sess, nil, logging.Discard()).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sess.cleared)
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, 150, got.Usage.Limit, "fallback uses the tier known before sign-out")
	assert.Equal(t, "Your session has expired. Please log in again.", got.Message)
}

func TestUsageService_RequiresLogin(t *testing.T) {
	fa := usageOK(models.UsagePayload{})
	_, err := NewUsageService(fa, &fakeSession{}, nil, logging.Discard()).Summary(context.Background())
	require.ErrorIs(t, err, ErrLoginRequired)
	assert.Zero(t, fa.calls)
}

func TestTierFallback_AnonymousIsFree(t *testing.T) {
	assert.Equal(t, models.Usage{Limit: 5, Remaining: 5}, TierFallback.Fallback(nil).Derive())
}
