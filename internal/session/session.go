// Package session holds the shopper's identity and the derived counters and
// filters every view reads. It is the single in-memory source of truth while
// the process runs; durable storage only seeds it on start.
package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/freshfind/storefront/internal/catalog"
	"github.com/freshfind/storefront/pkg/auth"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
)

// Durable storage keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

const defaultAdminRole = "admin"

// Store is the durable key/value storage the session persists to.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// TabStore is the per-tab storage dropped when the backend revokes the
// session.
type TabStore interface {
	Clear(ctx context.Context) error
}

// Params configures a Context.
type Params struct {
	Store      Store
	Tab        TabStore
	Logger     *logger.Logger
	ExpirySkew time.Duration
	AdminRole  string
	Now        func() time.Time
}

// Snapshot is a copy of the session state handed to views.
type Snapshot struct {
	LoggedIn      bool            `json:"isLoggedIn"`
	User          *backend.User   `json:"user"`
	IsAdmin       bool            `json:"isAdmin"`
	CartCount     int             `json:"cartCount"`
	WishlistCount int             `json:"wishlistCount"`
	SearchQuery   string          `json:"searchQuery"`
	Filters       catalog.Filters `json:"filters"`
	Generation    uint64          `json:"generation"`
}

// Context is the session/auth context. All methods are safe for concurrent use.
type Context struct {
	store     Store
	tab       TabStore
	logg      *logger.Logger
	skew      time.Duration
	adminRole string
	now       func() time.Time

	mu            sync.RWMutex
	token         string
	user          *backend.User
	cartCount     int
	wishlistCount int
	searchQuery   string
	filters       catalog.Filters
	products      []backend.Product
	generation    uint64
}

// New builds the context and restores a persisted session when the stored
// token and identity are both present, readable, and unexpired. It never
// contacts the backend.
func New(ctx context.Context, params Params) (*Context, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session store required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	adminRole := strings.TrimSpace(params.AdminRole)
	if adminRole == "" {
		adminRole = defaultAdminRole
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	c := &Context{
		store:     params.Store,
		tab:       params.Tab,
		logg:      params.Logger,
		skew:      params.ExpirySkew,
		adminRole: adminRole,
		now:       now,
	}
	c.restore(ctx)
	return c, nil
}

func (c *Context) restore(ctx context.Context) {
	token, tokenFound, err := c.store.Get(ctx, KeyToken)
	if err != nil {
		c.logg.Warn(ctx, "session restore: reading token failed: "+err.Error())
		return
	}
	rawUser, userFound, err := c.store.Get(ctx, KeyUser)
	if err != nil {
		c.logg.Warn(ctx, "session restore: reading user failed: "+err.Error())
		return
	}
	if !tokenFound || !userFound || strings.TrimSpace(token) == "" {
		return
	}

	var user backend.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user.ID == "" {
		c.logg.Warn(ctx, "session restore: stored user is corrupt, starting logged out")
		return
	}
	if auth.Expired(token, c.now(), c.skew) {
		c.logg.Warn(c.logg.WithUserID(ctx, user.ID), "session restore: stored token expired, starting logged out")
		c.clearDurable(ctx)
		return
	}

	c.mu.Lock()
	c.token = token
	c.user = &user
	c.mu.Unlock()
	c.logg.Info(c.logg.WithUserID(ctx, user.ID), "session restored")
}

// Login establishes a session. Memory is updated even when the durable write
// fails; the failure is only logged.
func (c *Context) Login(ctx context.Context, token string, user backend.User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	if strings.TrimSpace(user.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if auth.Expired(token, c.now(), c.skew) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session token has expired")
	}

	logCtx := c.logg.WithUserID(ctx, user.ID)
	if encoded, err := json.Marshal(user); err != nil {
		c.logg.Error(logCtx, "session login: encoding user failed", err)
	} else if err := c.store.SetMany(ctx, map[string]string{KeyToken: token, KeyUser: string(encoded)}); err != nil {
		c.logg.Error(logCtx, "session login: persisting session failed", err)
	}

	stored := user
	c.mu.Lock()
	c.token = token
	c.user = &stored
	c.cartCount = 0
	c.wishlistCount = 0
	c.generation++
	c.mu.Unlock()

	c.logg.Info(logCtx, "session established")
	return nil
}

// UpdateUser replaces the stored identity after a profile change. It is a
// no-op when logged out or when the id does not match.
func (c *Context) UpdateUser(ctx context.Context, user backend.User) {
	c.mu.Lock()
	if c.user == nil || c.user.ID != user.ID {
		c.mu.Unlock()
		return
	}
	stored := user
	if stored.Role == "" {
		stored.Role = c.user.Role
	}
	c.user = &stored
	c.mu.Unlock()

	encoded, err := json.Marshal(stored)
	if err != nil {
		c.logg.Error(ctx, "session: encoding user failed", err)
		return
	}
	if err := c.store.SetMany(ctx, map[string]string{KeyUser: string(encoded)}); err != nil {
		c.logg.Error(ctx, "session: persisting user failed", err)
	}
}

// Logout clears the session. Calling it while logged out is harmless.
func (c *Context) Logout(ctx context.Context) {
	c.mu.Lock()
	userID := ""
	if c.user != nil {
		userID = c.user.ID
	}
	c.token = ""
	c.user = nil
	c.cartCount = 0
	c.wishlistCount = 0
	c.generation++
	c.mu.Unlock()

	c.clearDurable(ctx)
	if userID != "" {
		c.logg.Info(c.logg.WithUserID(ctx, userID), "session cleared")
	}
}

// HandleUnauthorized logs out after the backend rejected the token.
func (c *Context) HandleUnauthorized(ctx context.Context) {
	if !c.IsLoggedIn() {
		return
	}
	c.logg.Warn(ctx, "backend rejected session token, logging out")
	c.Logout(ctx)
	if c.tab == nil {
		return
	}
	if err := c.tab.Clear(ctx); err != nil {
		c.logg.Error(ctx, "session: clearing tab storage failed", err)
	}
}

func (c *Context) clearDurable(ctx context.Context) {
	if err := c.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		c.logg.Error(ctx, "session: clearing durable storage failed", err)
	}
}

// Token returns the bearer token, or "" when logged out.
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Context) IsLoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil && c.token != ""
}

// User returns a copy of the identity.
func (c *Context) User() (backend.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return backend.User{}, false
	}
	return *c.user, true
}

func (c *Context) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return ""
	}
	return c.user.ID
}

// IsAdmin compares the role case-insensitively.
func (c *Context) IsAdmin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isAdminLocked()
}

func (c *Context) isAdminLocked() bool {
	return c.user != nil && strings.EqualFold(strings.TrimSpace(c.user.Role), c.adminRole)
}

// Generation changes on every login and logout. Callers capture it before a
// backend call and drop the response if it changed meanwhile.
func (c *Context) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// UpdateCartCount stores a server-confirmed line count. Negative values clamp to zero.
func (c *Context) UpdateCartCount(n int) {
	c.mu.Lock()
	c.cartCount = clampCount(n)
	c.mu.Unlock()
}

func (c *Context) UpdateWishlistCount(n int) {
	c.mu.Lock()
	c.wishlistCount = clampCount(n)
	c.mu.Unlock()
}

func (c *Context) CartCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cartCount
}

func (c *Context) WishlistCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.wishlistCount
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func (c *Context) SetSearchQuery(q string) {
	c.mu.Lock()
	c.searchQuery = strings.TrimSpace(q)
	c.mu.Unlock()
}

func (c *Context) SearchQuery() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchQuery
}

// SetFilters replaces the filter criteria. Unknown bucket keys are rejected
// and leave the previous criteria in place.
func (c *Context) SetFilters(filters catalog.Filters) error {
	if err := filters.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.filters = filters.Normalize()
	c.mu.Unlock()
	return nil
}

func (c *Context) Filters() catalog.Filters {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters
}

// SetProducts stores the last-fetched product list.
func (c *Context) SetProducts(products []backend.Product) {
	copied := append([]backend.Product(nil), products...)
	c.mu.Lock()
	c.products = copied
	c.mu.Unlock()
}

// FilteredProducts applies the current filters to the last-fetched products.
func (c *Context) FilteredProducts() []backend.Product {
	c.mu.RLock()
	products, filters := c.products, c.filters
	c.mu.RUnlock()
	return catalog.Apply(products, filters)
}

// SearchResults applies the search query and the current filters.
func (c *Context) SearchResults() []backend.Product {
	c.mu.RLock()
	products, query, filters := c.products, c.searchQuery, c.filters
	c.mu.RUnlock()
	return catalog.Search(products, query, filters)
}

// Snapshot copies the state for a view.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{
		LoggedIn:      c.user != nil && c.token != "",
		IsAdmin:       c.isAdminLocked(),
		CartCount:     c.cartCount,
		WishlistCount: c.wishlistCount,
		SearchQuery:   c.searchQuery,
		Filters:       c.filters,
		Generation:    c.generation,
	}
	if c.user != nil {
		user := *c.user
		snap.User = &user
	}
	return snap
}
