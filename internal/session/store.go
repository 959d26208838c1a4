package session

import (
	"github.com/fakestore/storefront/internal/models"
	"github.com/fakestore/storefront/internal/storage"
)

const storageKey = "session"

// Store persists the session record in durable client storage.
type Store struct {
	kv *storage.Store
}

func NewStore(kv *storage.Store) *Store {
	return &Store{kv: kv}
}

// Load returns nil with no error when no session is persisted.
func (s *Store) Load() (*models.Session, error) {
	var sess models.Session
	ok, err := s.kv.Get(storageKey, &sess)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *Store) Save(sess models.Session) error {
	return s.kv.Put(storageKey, sess)
}

// Clear is idempotent; clearing an absent session is not an error.
func (s *Store) Clear() error {
	return s.kv.Delete(storageKey)
}
