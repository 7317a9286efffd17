// Package local is the durable key/value store that survives restarts.
// It is a cold-start cache only: in-memory session state stays authoritative
// while the storefront is running.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/freshfind/storefront/pkg/db"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/migrate"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted key.
type Entry struct {
	Key       string `gorm:"column:storage_key;primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Entry) TableName() string {
	return "local_storage"
}

// Store reads and writes Entry rows.
type Store struct {
	client *db.Client
}

// New applies the storage migrations and returns a ready store.
func New(ctx context.Context, client *db.Client) (*Store, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storage client is required")
	}
	conn := client.DB(ctx)
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open local storage")
	}
	if _, err := migrate.Up(ctx, sqlDB, conn.Dialector.Name()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "migrate local storage")
	}
	return &Store{client: client}, nil
}

// Get returns the raw value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	err := s.client.DB(ctx).Where("storage_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read local storage")
	}
	return entry.Value, true, nil
}

// Set upserts key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.client.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write local storage")
	}
	return nil
}

// SetMany writes every pair in one transaction so a reader never observes a
// half-written session.
func (s *Store) SetMany(ctx context.Context, values map[string]string) error {
	now := time.Now().UTC()
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		for key, value := range values {
			entry := Entry{Key: key, Value: value, UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "storage_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&entry).Error
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write local storage")
			}
		}
		return nil
	})
}

// Delete removes keys. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.DB(ctx).Where("storage_key IN ?", keys).Delete(&Entry{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete local storage")
	}
	return nil
}

// GetJSON decodes the value under key into dest. Undecodable values report
// found=false together with the decode error.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "corrupt local storage value")
	}
	return true, nil
}

// Ping checks the backing database.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
