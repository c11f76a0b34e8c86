package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/client/repositories/storage"
	"github.com/templetsolutions/c4at3-client/internal/common"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

// MePath is the "who am I" endpoint used by RefreshUser.
const MePath = "/api/auth/me"

var absoluteURL = regexp.MustCompile(`(?i)^https?:`)

// HTTPDoer sends HTTP requests. *http.Client implements it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Store.
type Options struct {
	// BaseURL is prefixed to relative request paths.
	BaseURL string
	// TokenKey and UserKey name the storage entries of the session.
	TokenKey string
	UserKey  string
}

// FetchOptions describes a request made through AuthedFetch. The zero value
// is a GET without body.
type FetchOptions struct {
	Method string
	Header http.Header
	Body   io.Reader
}

// Store holds the signed-in session: the bearer token and the cached user
// profile, mirrored to durable storage. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	repo storage.Repository
	http HTTPDoer
	opts Options
	log  logging.Logger

	token string
	user  *models.User
}

// NewStore builds an uninitialised Store; call Init before use.
func NewStore(repo storage.Repository, doer HTTPDoer, opts Options, log logging.Logger) *Store {
	return &Store{repo: repo, http: doer, opts: opts, log: log.With("component", "session")}
}

// Init loads the token and user from storage. Read failures and malformed
// profile data leave the corresponding value absent.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.user = "", nil

	token, found, err := s.repo.Get(ctx, s.opts.TokenKey)
	if err != nil {
		s.log.Warn(ctx, "reading stored token failed", "error", err)
	} else if found {
		s.token = token
	}

	raw, found, err := s.repo.Get(ctx, s.opts.UserKey)
	switch {
	case err != nil:
		s.log.Warn(ctx, "reading stored profile failed", "error", err)
	case found:
		u, err := parseUser([]byte(raw))
		if err != nil {
			s.log.Warn(ctx, "stored profile is malformed, ignoring", "error", err)
		}
		s.user = u
	}

	s.log.Debug(ctx, "session loaded", "authenticated", s.token != "", "has_profile", s.user != nil)
}

// Close drops the in-memory session without touching storage.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = "", nil
	return nil
}

// SetSession replaces token and user together. An empty token or a nil
// user removes the corresponding storage entry.
func (s *Store) SetSession(ctx context.Context, token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = cloneUser(user)

	return errors.Join(s.persistToken(ctx), s.persistUser(ctx))
}

// SetUser replaces only the cached profile.
func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = cloneUser(user)
	return s.persistUser(ctx)
}

// Clear forgets the session in memory and in storage. Used on logout and
// when the server reports the session as invalid.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.user = "", nil
	err := errors.Join(
		s.repo.Delete(ctx, s.opts.TokenKey),
		s.repo.Delete(ctx, s.opts.UserKey),
	)
	if err != nil {
		s.log.Warn(ctx, "clearing stored session failed", "error", err)
		return err
	}
	s.log.Info(ctx, "session cleared")
	return nil
}

// Token returns the in-memory bearer token ("" when absent).
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached profile, or nil. It does not consult
// the token; use CurrentUser for an authenticated identity.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// CurrentUser returns the cached profile only while a token is present.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return nil
	}
	return cloneUser(s.user)
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// TokenExpiry reads the exp claim when the token is a JWT. The signature is
// not checked and the result is informational only.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// RefreshUser re-fetches the profile from the server. Without a token it
// returns the cached user without a network call. Any failure keeps and
// returns the cached user.
func (s *Store) RefreshUser(ctx context.Context) *models.User {
	if !s.IsAuthenticated() {
		return s.User()
	}

	resp, err := s.AuthedFetch(ctx, MePath, FetchOptions{})
	if err != nil {
		s.log.Warn(ctx, "profile refresh failed, keeping cached profile", "error", err)
		return s.User()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Warn(ctx, "profile refresh rejected, keeping cached profile", "status", resp.StatusCode)
		return s.User()
	}

	user, err := decodeUser(resp.Body)
	if err != nil {
		s.log.Warn(ctx, "profile response is malformed, keeping cached profile", "error", err)
		return s.User()
	}

	if err := s.SetUser(ctx, user); err != nil {
		s.log.Warn(ctx, "persisting refreshed profile failed", "error", err)
	}
	return cloneUser(user)
}

// ResolveURL prefixes relative paths with the configured base URL and
// returns absolute http(s) URLs untouched.
func (s *Store) ResolveURL(path string) string {
	if absoluteURL.MatchString(path) {
		return path
	}
	base := strings.TrimRight(s.opts.BaseURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// AuthedFetch sends a request to path, adding "Authorization: Bearer
// <token>" when a token is present. Caller headers are kept. The response
// and error of the underlying HTTPDoer are returned as they are.
func (s *Store) AuthedFetch(ctx context.Context, path string, opts FetchOptions) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, s.ResolveURL(path), opts.Body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if opts.Header != nil {
		req.Header = opts.Header.Clone()
	}
	if token := s.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	return s.http.Do(req)
}

func (s *Store) persistToken(ctx context.Context) error {
	if s.token == "" {
		return s.repo.Delete(ctx, s.opts.TokenKey)
	}
	return s.repo.Set(ctx, s.opts.TokenKey, s.token)
}

func (s *Store) persistUser(ctx context.Context) error {
	if s.user == nil {
		return s.repo.Delete(ctx, s.opts.UserKey)
	}
	b, err := json.Marshal(s.user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.repo.Set(ctx, s.opts.UserKey, string(b))
}

// decodeUser accepts both {"data": user} and a bare user object.
func decodeUser(r io.Reader) (*models.User, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	payload := body
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		payload = envelope.Data
	}

	u, err := parseUser(payload)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errors.New("empty profile")
	}
	return u, nil
}

// parseUser decodes a profile object. Empty input and JSON null yield
// (nil, nil); anything that is not an object is an error.
func parseUser(raw []byte) (*models.User, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
