package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/client/session"
	"github.com/templetsolutions/c4at3-client/internal/common"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

const (
	LoginPath          = "/api/auth/login"
	RegisterPath       = "/api/auth/register"
	UsagePath          = "/api/analytics/usage"
	AnalyzePath        = "/api/analyze"
	AnalysisStatusPath = "/api/analyses/"
	CheckoutPath       = "/api/billing/create-session"
)

const (
	DefaultPollInterval = time.Second
	DefaultPollAttempts = 30
)

var errStillProcessing = errors.New("analysis still processing")

// Fetcher sends a request to an API path. *session.Store implements it.
type Fetcher interface {
	AuthedFetch(ctx context.Context, path string, opts session.FetchOptions) (*http.Response, error)
}

// PollOptions controls how asynchronous analyses are awaited.
type PollOptions struct {
	Interval time.Duration
	Attempts int
}

// AuthResult is what login and registration hand back.
type AuthResult struct {
	Token string
	User  *models.User
}

// Client talks to the C⁴AT³ HTTP API. Every call goes through a Fetcher,
// so authentication is whatever the Fetcher attaches.
type Client struct {
	fetch Fetcher
	poll  PollOptions
	log   logging.Logger
}

// NewClient builds a Client. Non-positive poll settings fall back to
// DefaultPollInterval and DefaultPollAttempts.
func NewClient(f Fetcher, poll PollOptions, log logging.Logger) *Client {
	if poll.Interval <= 0 {
		poll.Interval = DefaultPollInterval
	}
	if poll.Attempts <= 0 {
		poll.Attempts = DefaultPollAttempts
	}
	return &Client{fetch: f, poll: poll, log: log.With("component", "api")}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, LoginPath, email, password)
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, RegisterPath, email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*AuthResult, error) {
	status, body, err := c.do(ctx, http.MethodPost, path, credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) || !succeeded(body) {
		return nil, &APIError{StatusCode: status, Detail: detail(body)}
	}

	var data struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if err := json.Unmarshal(unwrapData(body), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if data.Token == "" {
		return nil, fmt.Errorf("%w: no token in response", ErrMalformedResponse)
	}
	return &AuthResult{Token: data.Token, User: data.User}, nil
}

// Usage fetches the raw usage counters.
func (c *Client) Usage(ctx context.Context) (models.UsagePayload, error) {
	var payload models.UsagePayload

	status, body, err := c.do(ctx, http.MethodGet, UsagePath, nil)
	if err != nil {
		return payload, err
	}
	if !isSuccess(status) {
		return payload, &APIError{StatusCode: status, Detail: detail(body)}
	}
	if err := json.Unmarshal(unwrapData(body), &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload, nil
}

type analyzeRequest struct {
	URL          string `json:"url"`
	AnalysisType string `json:"analysis_type"`
}

// Analyze submits url for scoring and waits for the result when the server
// processes it asynchronously.
func (c *Client) Analyze(ctx context.Context, target, analysisType string) (*models.AnalysisResult, error) {
	if analysisType == "" {
		analysisType = models.DefaultAnalysisType
	}

	status, body, err := c.do(ctx, http.MethodPost, AnalyzePath, analyzeRequest{URL: target, AnalysisType: analysisType})
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, &APIError{StatusCode: status, Detail: detail(body)}
	}

	res, err := decodeAnalysis(body)
	if err != nil {
		return nil, err
	}
	if !res.Pending() {
		return settle(res)
	}
	if res.AnalysisID == "" {
		return nil, fmt.Errorf("%w: processing without analysis_id", ErrMalformedResponse)
	}

	c.log.Info(ctx, "analysis queued, polling", "analysis_id", res.AnalysisID)
	return c.awaitAnalysis(ctx, res.AnalysisID)
}

// AnalysisStatus fetches the current state of an asynchronous analysis.
func (c *Client) AnalysisStatus(ctx context.Context, id string) (*models.AnalysisResult, error) {
	status, body, err := c.do(ctx, http.MethodGet, AnalysisStatusPath+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, &APIError{StatusCode: status, Detail: detail(body)}
	}
	res, err := decodeAnalysis(body)
	if err != nil {
		return nil, err
	}
	if res.AnalysisID == "" {
		res.AnalysisID = id
	}
	return res, nil
}

func (c *Client) awaitAnalysis(ctx context.Context, id string) (*models.AnalysisResult, error) {
	var result *models.AnalysisResult

	backoff := retry.WithMaxRetries(uint64(c.poll.Attempts-1), retry.NewConstant(c.poll.Interval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, err := c.AnalysisStatus(ctx, id)
		if err != nil {
			return err
		}
		if res.Pending() {
			return retry.RetryableError(errStillProcessing)
		}
		result, err = settle(res)
		return err
	})

	if errors.Is(err, errStillProcessing) {
		c.log.Warn(ctx, "analysis polling gave up", "analysis_id", id, "attempts", c.poll.Attempts)
		return nil, ErrTimeout
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// settle classifies a job that is no longer pending. A failed job becomes
// a *JobError carrying the server's detail.
func settle(res *models.AnalysisResult) (*models.AnalysisResult, error) {
	if res.Status == models.AnalysisStatusFailed {
		return nil, &JobError{AnalysisID: res.AnalysisID, Detail: res.Detail}
	}
	return res, nil
}

type checkoutRequest struct {
	Plan string `json:"plan"`
}

// CreateCheckout starts a payment flow for plan and returns the URL to
// send the user to.
func (c *Client) CreateCheckout(ctx context.Context, plan string) (string, error) {
	status, body, err := c.do(ctx, http.MethodPost, CheckoutPath, checkoutRequest{Plan: plan})
	if err != nil {
		return "", err
	}
	if !isSuccess(status) {
		return "", &APIError{StatusCode: status, Detail: detail(body)}
	}

	if u := text(safeJSON(body)["url"]); u != "" {
		return u, nil
	}
	data := safeJSON(unwrapData(body))
	for _, k := range []string{"checkout_url", "url"} {
		if u := text(data[k]); u != "" {
			return u, nil
		}
	}
	return "", ErrBillingNotEnabled
}

// do performs one JSON round trip and returns the status and body. Only
// transport failures are errors here; status handling is up to the caller.
func (c *Client) do(ctx context.Context, method, path string, in any) (int, []byte, error) {
	header := http.Header{}
	header.Set(common.RequestIDHeaderName, uuid.NewString())
	header.Set("Accept", common.ContentTypeJSON)

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		header.Set("Content-Type", common.ContentTypeJSON)
	}

	log := c.log.With("method", method, "path", path, "request_id", header.Get(common.RequestIDHeaderName))

	resp, err := c.fetch.AuthedFetch(ctx, path, session.FetchOptions{Method: method, Header: header, Body: body})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		log.Warn(ctx, "request failed", "error", err)
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		log.Warn(ctx, "reading response failed", "error", err)
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode)
	return resp.StatusCode, payload, nil
}

type analysisWire struct {
	Score           json.RawMessage `json:"score"`
	Grade           string          `json:"grade"`
	Status          string          `json:"status"`
	AnalysisID      json.RawMessage `json:"analysis_id"`
	Detail          string          `json:"detail"`
	Dimensions      json.RawMessage `json:"dimensions"`
	Recommendations json.RawMessage `json:"recommendations"`
}

// decodeAnalysis reads a result from either the data member or the bare
// body. Status and id of async acknowledgements may sit next to data.
// A score that is not a finite number reads as nil.
func decodeAnalysis(body []byte) (*models.AnalysisResult, error) {
	var inner analysisWire
	if err := json.Unmarshal(unwrapData(body), &inner); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	outer := safeJSON(body)

	res := &models.AnalysisResult{
		Score:           number(inner.Score),
		Grade:           inner.Grade,
		Status:          inner.Status,
		AnalysisID:      text(inner.AnalysisID),
		Detail:          inner.Detail,
		Dimensions:      dimensions(inner.Dimensions),
		Recommendations: textList(inner.Recommendations),
	}
	if res.Status == "" {
		res.Status = text(outer["status"])
	}
	if res.AnalysisID == "" {
		res.AnalysisID = text(outer["analysis_id"])
	}
	if res.Detail == "" {
		res.Detail = text(outer["detail"])
	}
	return res, nil
}

// dimensions keeps the per-dimension scores that are finite numbers.
func dimensions(raw json.RawMessage) map[string]float64 {
	var obj map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &obj) != nil {
		return nil
	}
	var out map[string]float64
	for name, v := range obj {
		f := number(v)
		if f == nil {
			continue
		}
		if out == nil {
			out = make(map[string]float64, len(obj))
		}
		out[name] = *f
	}
	return out
}

// textList reads a JSON array, keeping the non-empty string items.
func textList(raw json.RawMessage) []string {
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	var out []string
	for _, it := range items {
		var s string
		if json.Unmarshal(it, &s) == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func number(raw json.RawMessage) *float64 {
	var f float64
	if isNull(raw) || json.Unmarshal(raw, &f) != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// text reads a JSON string or number as a string.
func text(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}
