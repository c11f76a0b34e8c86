package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templetsolutions/c4at3-client/internal/client/api"
	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

func TestBillingService_Plans(t *testing.T) {
	plans := NewBillingService(&fakeAPI{}, &fakeSession{}, logging.Discard()).Plans()
	require.Len(t, plans, 3)
	assert.Equal(t, "starter", plans[0].Code)
}

func TestBillingService_Checkout(t *testing.T) {
	var gotPlan string
	fa := &fakeAPI{CheckoutFn: func(plan string) (string, error) {
		gotPlan = plan
		return "https://pay.example/s", nil
	}}

	u, err := NewBillingService(fa, loggedIn(&models.User{ID: "1"}), logging.Discard()).Checkout(context.Background(), "Professional")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s", u)
	assert.Equal(t, "professional", gotPlan)
}

func TestBillingService_CheckoutErrors(t *testing.T) {
	tests := []struct {
		name        string
		session     *fakeSession
		plan        string
		apiErr      error
		wantIs      error
		wantCleared int
		wantMsg     string
	}{
		{name: "anonymous", session: &fakeSession{}, plan: "pro", wantIs: ErrLoginRequired},
		{name: "unknown plan", session: loggedIn(nil), plan: "gold", wantIs: ErrUnknownPlan},
		{name: "no url", session: loggedIn(nil), plan: "pro", apiErr: api.ErrBillingNotEnabled, wantIs: ErrBillingNotEnabled,
			wantMsg: "Billing is not enabled yet. Our team will reach out to complete your upgrade."},
		{name: "not deployed", session: loggedIn(nil), plan: "pro", apiErr: &api.APIError{StatusCode: 404}, wantIs: ErrBillingNotEnabled,
			wantMsg: "Billing is not enabled yet. Our team will reach out to complete your upgrade."},
		{name: "expired", session: loggedIn(nil), plan: "pro", apiErr: errUnauthorized, wantIs: api.ErrUnauthorized, wantCleared: 1},
		{name: "offline", session: loggedIn(nil), plan: "pro", apiErr: api.ErrUnavailable, wantIs: api.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := &fakeAPI{CheckoutFn: func(string) (string, error) { return "", tt.apiErr }}

			_, err := NewBillingService(fa, tt.session, logging.Discard()).Checkout(context.Background(), tt.plan)
			require.ErrorIs(t, err, tt.wantIs)
			assert.Equal(t, tt.wantCleared, tt.session.cleared)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, FriendlyMessage(err))
			}
		})
	}
}
