// Package session holds the Session Store: the single source of truth for
// whether the client is authenticated and as whom.
//
// The bearer token and the cached user profile live in memory and are
// mirrored to durable storage (see repositories/storage) so that a restart
// resumes the session. Corrupt stored state never surfaces as an error; it
// degrades to "no session".
//
// The store does not validate tokens. Expiry is discovered when the server
// rejects a request with 401, at which point the caller is expected to call
// Clear.
//
// A Store is constructed once at startup, initialised with Init and handed
// to whatever needs it. All methods are safe for concurrent use; SetSession
// completes its storage writes before any later AuthedFetch reads the token.
package session
