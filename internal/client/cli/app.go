package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/templetsolutions/c4at3-client/internal/client/api"
	"github.com/templetsolutions/c4at3-client/internal/client/config"
	"github.com/templetsolutions/c4at3-client/internal/client/database"
	"github.com/templetsolutions/c4at3-client/internal/client/history"
	"github.com/templetsolutions/c4at3-client/internal/client/repositories/storage"
	"github.com/templetsolutions/c4at3-client/internal/client/services"
	"github.com/templetsolutions/c4at3-client/internal/client/session"
	"github.com/templetsolutions/c4at3-client/internal/filex"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

// App is the interactive client: configuration, the services and the
// terminal it reads commands from.
type App struct {
	config          *config.Config
	log             logging.Logger
	authService     services.AuthService
	usageService    services.UsageService
	analysisService services.AnalysisService
	billingService  services.BillingService
	reader          *bufio.Reader
	out             io.Writer

	store *session.Store
	db    *sql.DB
}

// NewApp opens the local store under c.DataDir, restores the saved session
// and builds the services on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if _, err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := database.Open(ctx, c.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := session.NewStore(
		storage.NewSQLiteRepository(db),
		&http.Client{Timeout: c.RequestTimeout},
		session.Options{BaseURL: c.APIBaseURL, TokenKey: c.TokenKey, UserKey: c.UserKey},
		log,
	)
	store.Init(ctx)

	cache := history.NewCache(db, store, c.HistoryKey, c.HistoryLimit, log)
	apiClient := api.NewClient(store, api.PollOptions{Interval: c.PollInterval, Attempts: c.PollAttempts}, log)

	return &App{
		config:          c,
		log:             log,
		authService:     services.NewAuthService(apiClient, store, log),
		usageService:    services.NewUsageService(apiClient, store, nil, log),
		analysisService: services.NewAnalysisService(apiClient, store, cache, log),
		billingService:  services.NewBillingService(apiClient, store, log),
		reader:          bufio.NewReader(os.Stdin),
		out:             os.Stdout,
		store:           store,
		db:              db,
	}, nil
}

// Run greets the user, refreshes a restored session and serves the REPL
// until the user leaves.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to C⁴AT³ CLI (type 'help' for commands)")

	if a.isLoggedIn() {
		if u := a.authService.Refresh(ctx); u != nil {
			printlnFn(fmt.Sprintf("Welcome back, %s!", u.DisplayName()))
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close drops the in-memory session and closes the local database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close(ctx))
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsLoggedIn()
}

// getStatus renders "(email tier)" for the prompt, or "" when signed out.
func (a *App) getStatus() string {
	u := a.authService.Current()
	if u == nil {
		if a.isLoggedIn() {
			return "(signed in)"
		}
		return ""
	}
	name := u.Email
	if name == "" {
		name = u.ID
	}
	return fmt.Sprintf("(%s %s)", name, u.TierOrDefault())
}

// fail prints the user-facing text for err and returns err.
func (a *App) fail(ctx context.Context, err error, fallback string) error {
	a.log.Debug(ctx, "command failed", "error", err)
	printlnFn(services.MessageFor(err, fallback))
	return err
}
