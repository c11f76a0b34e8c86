// Package history keeps a small per-user record of the most recent
// analyses in local storage. It is advisory only; the server is the system
// of record.
//
// The whole map of identity key → entries is stored as one JSON value and
// rewritten on every save. Corrupt payloads read as an empty store.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/client/repositories/storage"
	"github.com/templetsolutions/c4at3-client/internal/dbx"
	"github.com/templetsolutions/c4at3-client/internal/logging"
)

// DefaultLimit is the number of entries kept per user.
const DefaultLimit = 5

// UserSource yields the signed-in user, or nil when anonymous.
// *session.Store implements it.
type UserSource interface {
	CurrentUser() *models.User
}

// Cache keeps each user's most recent analyses, newest first, as a single
// JSON record in storage.
type Cache struct {
	mu    sync.Mutex
	db    *sql.DB
	users UserSource
	key   string
	limit int
	log   logging.Logger
}

// NewCache builds a Cache persisting under storage key key. A limit below 1
// falls back to DefaultLimit.
func NewCache(db *sql.DB, users UserSource, key string, limit int, log logging.Logger) *Cache {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Cache{db: db, users: users, key: key, limit: limit, log: log.With("component", "history")}
}

// ForUser returns the stored entries of user, newest first. It returns an
// empty slice for anonymous users, unknown users and unreadable storage.
func (c *Cache) ForUser(ctx context.Context, user *models.User) []models.HistoryEntry {
	id := user.IdentityKey()
	if id == "" {
		return []models.HistoryEntry{}
	}

	store := c.load(ctx, storage.NewSQLiteRepository(c.db))
	entries := decodeEntries(store[id])
	if entries == nil {
		return []models.HistoryEntry{}
	}
	return entries
}

// Save prepends entry to the current user's history and trims it to the
// limit. Without a signed-in user it does nothing.
func (c *Cache) Save(ctx context.Context, entry models.HistoryEntry) error {
	id := c.users.CurrentUser().IdentityKey()
	if id == "" {
		c.log.Debug(ctx, "no signed-in user, history entry dropped")
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := storage.NewSQLiteRepository(tx)
		store := c.load(ctx, repo)

		entries := append([]models.HistoryEntry{entry}, decodeEntries(store[id])...)
		if len(entries) > c.limit {
			entries = entries[:c.limit]
		}

		raw, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
		store[id] = raw

		b, err := json.Marshal(store)
		if err != nil {
			return fmt.Errorf("encode history store: %w", err)
		}
		return repo.Set(ctx, c.key, string(b))
	})
}

// load reads the raw store. Missing, unreadable or non-object values give
// an empty map. Per-user values stay raw so that one corrupt list does not
// discard the others.
func (c *Cache) load(ctx context.Context, repo storage.Repository) map[string]json.RawMessage {
	store := map[string]json.RawMessage{}

	raw, found, err := repo.Get(ctx, c.key)
	if err != nil {
		c.log.Warn(ctx, "reading history failed", "error", err)
		return store
	}
	if !found || raw == "" {
		return store
	}
	if err := json.Unmarshal([]byte(raw), &store); err != nil || store == nil {
		c.log.Warn(ctx, "history store is corrupt, starting empty")
		return map[string]json.RawMessage{}
	}
	return store
}

// decodeEntries returns nil unless raw is a JSON array of entries.
func decodeEntries(raw json.RawMessage) []models.HistoryEntry {
	if len(raw) == 0 {
		return nil
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}
