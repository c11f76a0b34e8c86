package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable means the request never got an HTTP answer.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized is HTTP 401: the session is missing or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPaymentRequired is HTTP 402: the plan allowance is used up.
	ErrPaymentRequired = errors.New("payment required")
	// ErrNotEnabled is HTTP 404: the feature is not deployed on the server.
	ErrNotEnabled = errors.New("feature not enabled")
	// ErrRateLimited is HTTP 429.
	ErrRateLimited = errors.New("rate limited")
	// ErrTimeout means an analysis job did not finish within the polling ceiling.
	ErrTimeout = errors.New("analysis timed out")
	// ErrAnalysisFailed means the server reported the job as failed.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrMalformedResponse means a success response lacked required fields.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrBillingNotEnabled means checkout returned no redirect URL.
	ErrBillingNotEnabled = errors.New("billing not enabled")
)

// APIError is a non-success HTTP answer. It unwraps to the sentinel of its
// status code, so errors.Is(err, ErrPaymentRequired) works on it.
type APIError struct {
	StatusCode int
	// Detail is the server's detail, error or message field, if any.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusPaymentRequired:
		return ErrPaymentRequired
	case http.StatusNotFound:
		return ErrNotEnabled
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}

// JobError is an analysis the server reported as failed. It unwraps to
// ErrAnalysisFailed.
type JobError struct {
	AnalysisID string
	Detail     string
}

func (e *JobError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", ErrAnalysisFailed, e.Detail)
	}
	return ErrAnalysisFailed.Error()
}

func (e *JobError) Unwrap() error { return ErrAnalysisFailed }

// DetailOf returns the server-supplied detail carried by err, if any.
func DetailOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	var jobErr *JobError
	if errors.As(err, &jobErr) {
		return jobErr.Detail
	}
	return ""
}
