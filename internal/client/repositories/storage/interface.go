// Package storage is the client's durable key/value store: the local
// counterpart of browser storage, holding the session token, the cached
// user profile and the analysis history under configurable keys.
package storage

import "context"

// Repository reads and writes string values by key.
//
// Get reports found=false (and no error) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
