package services

import (
	"context"
	"errors"
	"time"

	"github.com/templetsolutions/c4at3-client/internal/client/api"
	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

// Session is the part of *session.Store the services use.
type Session interface {
	SetSession(ctx context.Context, token string, user *models.User) error
	RefreshUser(ctx context.Context) *models.User
	Clear(ctx context.Context) error
	User() *models.User
	CurrentUser() *models.User
	IsAuthenticated() bool
	TokenExpiry() (time.Time, bool)
}

// invalidateOn clears the session when err says the server rejected it, and
// returns err unchanged.
func invalidateOn(ctx context.Context, s Session, log logging.Logger, err error) error {
	if !errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	if cerr := s.Clear(ctx); cerr != nil {
		log.Warn(ctx, "clearing rejected session failed", "error", cerr)
	}
	log.Info(ctx, "session rejected by server, signed out")
	return err
}
