package services

import (
	"context"
	"time"

	"github.com/templetsolutions/c4at3-client/internal/client/api"
	"github.com/templetsolutions/c4at3-client/internal/client/models"
)

// fakeSession keeps the session in memory.
type fakeSession struct {
	token   string
	user    *models.User
	fresh   *models.User
	expiry  time.Time
	setErr  error
	cleared int
}

func (f *fakeSession) SetSession(_ context.Context, token string, user *models.User) error {
	f.token, f.user = token, user
	return f.setErr
}

func (f *fakeSession) RefreshUser(context.Context) *models.User {
	if f.token != "" && f.fresh != nil {
		f.user = f.fresh
	}
	return f.user
}

func (f *fakeSession) Clear(context.Context) error {
	f.token, f.user = "", nil
	f.cleared++
	return nil
}

func (f *fakeSession) User() *models.User { return f.user }

func (f *fakeSession) CurrentUser() *models.User {
	if f.token == "" {
		return nil
	}
	return f.user
}

func (f *fakeSession) IsAuthenticated() bool { return f.token != "" }

func (f *fakeSession) TokenExpiry() (time.Time, bool) { return f.expiry, !f.expiry.IsZero() }

func loggedIn(u *models.User) *fakeSession {
	return &fakeSession{token: "tok", user: u}
}

// fakeAPI implements every *API interface with overridable functions.
type fakeAPI struct {
	LoginFn    func(email, password string) (*api.AuthResult, error)
	RegisterFn func(email, password string) (*api.AuthResult, error)
	UsageFn    func() (models.UsagePayload, error)
	AnalyzeFn  func(target, analysisType string) (*models.AnalysisResult, error)
	CheckoutFn func(plan string) (string, error)

	calls int
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*api.AuthResult, error) {
	f.calls++
	return f.LoginFn(email, password)
}

func (f *fakeAPI) Register(_ context.Context, email, password string) (*api.AuthResult, error) {
	f.calls++
	return f.RegisterFn(email, password)
}

func (f *fakeAPI) Usage(context.Context) (models.UsagePayload, error) {
	f.calls++
	return f.UsageFn()
}

func (f *fakeAPI) Analyze(_ context.Context, target, analysisType string) (*models.AnalysisResult, error) {
	f.calls++
	return f.AnalyzeFn(target, analysisType)
}

func (f *fakeAPI) CreateCheckout(_ context.Context, plan string) (string, error) {
	f.calls++
	return f.CheckoutFn(plan)
}

type fakeHistory struct {
	saved   []models.HistoryEntry
	saveErr error
}

func (f *fakeHistory) Save(_ context.Context, e models.HistoryEntry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append([]models.HistoryEntry{e}, f.saved...)
	return nil
}

func (f *fakeHistory) ForUser(_ context.Context, u *models.User) []models.HistoryEntry {
	if u == nil {
		return []models.HistoryEntry{}
	}
	return f.saved
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

var errUnauthorized = &api.APIError{StatusCode: 401}
