// Package tab is per-tab ephemeral storage. Every key is namespaced by the
// tab id and expires on its own if the process dies without cleaning up.
package tab

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
)

// Well-known keys.
const (
	KeyAppliedOffer = "appliedOffer"
)

// KV is the redis surface the store needs.
type KV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, keys ...string) error
	TabKey(tabID, name string) string
}

// Store scopes KV access to a single tab.
type Store struct {
	kv    KV
	tabID string
	ttl   time.Duration

	mu      sync.Mutex
	written map[string]struct{}
}

func New(kv KV, tabID string, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tab storage kv is required")
	}
	if tabID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tab id is required")
	}
	return &Store{kv: kv, tabID: tabID, ttl: ttl, written: map[string]struct{}{}}, nil
}

// TabID returns the tab this store is scoped to.
func (s *Store) TabID() string {
	return s.tabID
}

// SetJSON encodes value and stores it under name, refreshing the TTL.
func (s *Store) SetJSON(ctx context.Context, name string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode tab storage value")
	}
	key := s.kv.TabKey(s.tabID, name)
	if err := s.kv.Set(ctx, key, string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write tab storage")
	}
	s.mu.Lock()
	s.written[key] = struct{}{}
	s.mu.Unlock()
	return nil
}

// GetJSON decodes the value stored under name into dest.
func (s *Store) GetJSON(ctx context.Context, name string, dest any) (bool, error) {
	raw, found, err := s.kv.Get(ctx, s.kv.TabKey(s.tabID, name))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read tab storage")
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "corrupt tab storage value")
	}
	return true, nil
}

// Delete removes name.
func (s *Store) Delete(ctx context.Context, name string) error {
	key := s.kv.TabKey(s.tabID, name)
	if err := s.kv.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tab storage")
	}
	s.mu.Lock()
	delete(s.written, key)
	s.mu.Unlock()
	return nil
}

// Clear removes everything this tab wrote. Called on logout and shutdown.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.written)+1)
	for key := range s.written {
		keys = append(keys, key)
	}
	s.written = map[string]struct{}{}
	s.mu.Unlock()

	keys = appendIfMissing(keys, s.kv.TabKey(s.tabID, KeyAppliedOffer))
	if err := s.kv.Del(ctx, keys...); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear tab storage")
	}
	return nil
}

func appendIfMissing(keys []string, key string) []string {
	for _, existing := range keys {
		if existing == key {
			return keys
		}
	}
	return append(keys, key)
}
