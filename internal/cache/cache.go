// Package cache layers an expiry window over the durable store. Policy
// is "use if present and not expired, else fetch and store"; any
// storage failure degrades to a miss so the caller falls through to
// the network.
package cache

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/fakestore/storefront/internal/storage"
)

type envelope struct {
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type Cache struct {
	store *storage.Store
	log   *slog.Logger
	now   func() time.Time
}

func New(store *storage.Store, log *slog.Logger) *Cache {
	return &Cache{store: store, log: log, now: time.Now}
}

// Get loads the cached payload for key into out. Returns false on a
// miss, an expired entry, or a storage failure.
func (c *Cache) Get(key string, maxAge time.Duration, out any) bool {
	var env envelope
	ok, err := c.store.Get(key, &env)
	if err != nil {
		c.log.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !ok || c.now().Sub(env.Timestamp) > maxAge {
		return false
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		c.log.Warn("cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) Put(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.store.Put(key, envelope{Timestamp: c.now(), Payload: payload})
}
