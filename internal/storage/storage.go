// Package storage is the durable client-side key/value store backing
// the persisted session and the listing cache. Values are stored as
// JSON strings in a local SQLite database.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fakestore/storefront/internal/apperr"
)

type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli"`
}

type Store struct {
	DB *gorm.DB
}

// Open opens (creating if needed) the store at path. Use ":memory:"
// for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open storage %q: %w", path, err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate storage: %w", err)
	}
	return &Store{DB: db}, nil
}

// Get unmarshals the stored value for key into out. The boolean is
// false when the key is absent.
func (s *Store) Get(key string, out any) (bool, error) {
	var rec Record
	if err := s.DB.First(&rec, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperr.Wrap(apperr.Storage, "could not read "+key, err)
	}
	if err := json.Unmarshal([]byte(rec.Value), out); err != nil {
		return false, apperr.Wrap(apperr.Storage, "corrupt record "+key, err)
	}
	return true, nil
}

func (s *Store) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperr.Wrap(apperr.Storage, "could not encode "+key, err)
	}
	rec := Record{Key: key, Value: string(data)}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return apperr.Wrap(apperr.Storage, "could not write "+key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if err := s.DB.Delete(&Record{}, "key = ?", key).Error; err != nil {
		return apperr.Wrap(apperr.Storage, "could not remove "+key, err)
	}
	return nil
}
