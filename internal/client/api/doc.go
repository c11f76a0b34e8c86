// Package api talks to the C⁴AT³ Analyzer HTTP API.
//
// Every call goes through a Fetcher (the session store), which resolves
// paths against the API base URL and attaches the bearer token. Responses
// are decoded from the canonical envelope (see envelope.go); non-success
// statuses become *APIError values that unwrap to the sentinels in
// errors.go, and transport failures become ErrUnavailable.
//
// Analyses the server accepts asynchronously ({"status": "processing",
// "analysis_id": ...}) are polled at a flat interval up to a fixed number
// of attempts; running out of attempts returns ErrTimeout.
package api
