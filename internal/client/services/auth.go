package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/templetsolutions/c4at3-client/internal/client/api"
	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

// AuthAPI is the subset of the API client used for authentication.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.AuthResult, error)
	Register(ctx context.Context, email, password string) (*api.AuthResult, error)
}

// AuthService manages the account session.
//
// Contract:
//   - Login / Register: validate input, authenticate with the server, store
//     the session and return the freshest known profile.
//   - Logout: forget the session locally.
//   - Profile: return the cached profile, fetching it when none is cached.
//   - Refresh: re-read the profile from the server, keeping the cached one
//     on failure.
//   - Current: the cached profile of a signed-in user, without I/O.
//   - IsLoggedIn: report whether a token is held.
//   - Expiry: the token's advertised expiry, when it carries one.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
	Refresh(ctx context.Context) *models.User
	Current() *models.User
	IsLoggedIn() bool
	Expiry() (time.Time, bool)
}

type authService struct {
	api     AuthAPI
	session Session
	log     logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API and session.
func NewAuthService(a AuthAPI, s Session, log logging.Logger) AuthService {
	return &authService{api: a, session: s, log: log.With("service", "auth")}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	res, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return a.establish(ctx, res), nil
}

func (a *authService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	res, err := a.api.Register(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return a.establish(ctx, res), nil
}

// establish stores a fresh session and refreshes the profile. Persist
// failures are logged, not returned.
func (a *authService) establish(ctx context.Context, res *api.AuthResult) *models.User {
	if err := a.session.SetSession(ctx, res.Token, res.User); err != nil {
		a.log.Warn(ctx, "persisting session failed", "error", err)
	}
	user := a.session.RefreshUser(ctx)
	if user == nil {
		user = res.User
	}
	a.log.Info(ctx, "signed in", "user", user.IdentityKey())
	return user
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.log.Info(ctx, "signed out")
	return nil
}

func (a *authService) Profile(ctx context.Context) (*models.User, error) {
	if !a.session.IsAuthenticated() {
		return nil, ErrLoginRequired
	}
	if u := a.session.User(); u != nil {
		return u, nil
	}
	if u := a.session.RefreshUser(ctx); u != nil {
		return u, nil
	}
	return nil, fmt.Errorf("profile: %w", api.ErrUnavailable)
}

func (a *authService) Refresh(ctx context.Context) *models.User {
	if !a.session.IsAuthenticated() {
		return nil
	}
	return a.session.RefreshUser(ctx)
}

func (a *authService) Current() *models.User {
	return a.session.CurrentUser()
}

func (a *authService) IsLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *authService) Expiry() (time.Time, bool) {
	return a.session.TokenExpiry()
}
