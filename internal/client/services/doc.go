// Package services holds the application services behind the CLI: account
// sessions, usage reporting, URL analysis with its local history, and
// billing checkout.
//
// Services depend on narrow interfaces (Session, the *API interfaces and
// HistoryStore) rather than on concrete types so that they can be tested
// with fakes. Any authenticated call answered with HTTP 401 clears the
// session before the error is returned.
package services
