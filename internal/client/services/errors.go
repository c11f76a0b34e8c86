package services

import (
	"context"
	"errors"

	"github.com/templetsolutions/c4at3-client/internal/client/api"
)

var (
	ErrLoginRequired      = errors.New("login required")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingURL         = errors.New("url is required")
	ErrInvalidURL         = errors.New("url must be an absolute http(s) address")
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrBillingNotEnabled  = api.ErrBillingNotEnabled
)

const (
	msgBillingNotEnabled = "Billing is not enabled yet. Our team will reach out to complete your upgrade."
	msgGeneric           = "Something went wrong. Please try again."
)

// FriendlyMessage turns err into text fit for the user.
func FriendlyMessage(err error) string {
	return MessageFor(err, msgGeneric)
}

// MessageFor is FriendlyMessage with a caller-chosen text for errors that
// carry no better explanation. The server's detail wins when present.
func MessageFor(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if d := api.DetailOf(err); d != "" {
		return d
	}

	switch {
	case errors.Is(err, ErrMissingCredentials):
		return "Please enter your email and password."
	case errors.Is(err, ErrMissingURL):
		return "Please provide a URL to analyze."
	case errors.Is(err, ErrInvalidURL):
		return "Please provide a full URL starting with http:// or https://."
	case errors.Is(err, ErrLoginRequired):
		return "Please log in or create an account first."
	case errors.Is(err, ErrUnknownPlan):
		return "Unknown plan. Choose one of starter, professional or pro."
	case errors.Is(err, api.ErrBillingNotEnabled):
		return msgBillingNotEnabled
	case errors.Is(err, api.ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, api.ErrPaymentRequired):
		return "You have reached your plan limit for this cycle. Upgrade your plan to keep analyzing."
	case errors.Is(err, api.ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, api.ErrNotEnabled):
		return "This feature is not enabled yet."
	case errors.Is(err, api.ErrTimeout):
		return "The analysis is taking longer than expected. Please try again later."
	case errors.Is(err, api.ErrAnalysisFailed):
		return "Analysis failed. Please try again."
	case errors.Is(err, api.ErrUnavailable):
		return "Unable to reach the C⁴AT³ service. Check your connection and try again."
	case errors.Is(err, api.ErrMalformedResponse):
		return "The server sent an unexpected response. Please try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request took too long. Please try again."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	}
	return fallback
}
