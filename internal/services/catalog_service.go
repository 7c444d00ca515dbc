package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"dekugames/internal/cache"
	"dekugames/internal/catalog"
	"dekugames/internal/core"
	"dekugames/internal/inventory"
	"dekugames/internal/log"
)

// ErrUnknownListing is returned for a listing id that is not configured.
var ErrUnknownListing = errors.New("unknown listing")

// CatalogConfig holds configuration for the catalog service
type CatalogConfig struct {
	// TTL is how long a fetched snapshot is served (default: 60s)
	TTL time.Duration

	// FetchTimeout bounds one backend fetch (default: 7s)
	FetchTimeout time.Duration

	// ResultCacheSize caps cached listing results (default: 256)
	ResultCacheSize int

	// Pipeline settings shared by every listing
	Options catalog.Options
}

// DefaultCatalogConfig returns sensible defaults
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		TTL:             60 * time.Second,
		FetchTimeout:    7 * time.Second,
		ResultCacheSize: 256,
		Options: catalog.Options{
			Overlap:  catalog.CrossList,
			PageSize: catalog.DefaultPageSize,
		},
	}
}

// snapshot is an immutable copy of the inventory at one generation.
type snapshot struct {
	generation uint64
	fetchedAt  time.Time
	accounts   []core.Account
	byID       map[string]int
	categories map[catalog.Category]int
}

func newSnapshot(generation uint64, at time.Time, accounts []core.Account) *snapshot {
	byID := make(map[string]int, len(accounts))
	for i, a := range accounts {
		byID[a.ID] = i
	}
	categories := make(map[catalog.Category]int)
	for c, group := range catalog.Partition(accounts) {
		categories[c] = len(group)
	}
	return &snapshot{generation: generation, fetchedAt: at, accounts: accounts, byID: byID, categories: categories}
}

// CatalogStats is reported on /metrics.
type CatalogStats struct {
	Generation  uint64                   `json:"generation"`
	Accounts    int                      `json:"accounts"`
	Categories  map[catalog.Category]int `json:"categories"`
	FetchedAt   time.Time                `json:"fetched_at"`
	Fetches     int64                    `json:"fetches"`
	FetchErrors int64                    `json:"fetch_errors"`
	Discarded   int64                    `json:"discarded_fetches"`
	CacheHits   int64                    `json:"cache_hits"`
	CacheMisses int64                    `json:"cache_misses"`
	CachedViews int                      `json:"cached_views"`
}

// CatalogService serves listing pages from a TTL snapshot of the inventory.
//
// Every fetch draws a token from a monotonic counter and only installs its
// snapshot when that token is newer than the installed generation, so a slow
// fetch can never overwrite a fresher one.
type CatalogService struct {
	reader inventory.AccountReader
	config CatalogConfig
	now    func() time.Time

	tokens atomic.Uint64
	group  singleflight.Group

	mu      sync.RWMutex
	current *snapshot

	results *cache.LRUCache[catalog.Result]

	fetches     atomic.Int64
	fetchErrors atomic.Int64
	discarded   atomic.Int64
	hits        atomic.Int64
	misses      atomic.Int64
}

// NewCatalogService creates a catalog service over reader.
func NewCatalogService(reader inventory.AccountReader, config CatalogConfig) *CatalogService {
	def := DefaultCatalogConfig()
	if config.TTL <= 0 {
		config.TTL = def.TTL
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = def.FetchTimeout
	}
	if config.ResultCacheSize <= 0 {
		config.ResultCacheSize = def.ResultCacheSize
	}
	if config.Options.PageSize <= 0 {
		config.Options.PageSize = def.Options.PageSize
	}
	if config.Options.Overlap == "" {
		config.Options.Overlap = def.Options.Overlap
	}

	return &CatalogService{
		reader:  reader,
		config:  config,
		now:     time.Now,
		results: cache.NewLRUCache[catalog.Result](config.ResultCacheSize, config.TTL),
	}
}

// ResultCache exposes the listing cache so a cache.Manager can sweep it.
func (s *CatalogService) ResultCache() cache.Cleaner {
	return s.results
}

// Listing runs the pipeline for view against the current snapshot.
func (s *CatalogService) Listing(ctx context.Context, view catalog.View) (catalog.Result, error) {
	l, ok := catalog.ListingByID(view.Listing)
	if !ok {
		return catalog.Result{}, fmt.Errorf("%w: %q", ErrUnknownListing, view.Listing)
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return catalog.Result{}, err
	}

	view = view.Normalize(l, s.config.Options.PageSize)
	key := strconv.FormatUint(snap.generation, 10) + "|" + view.Key()
	if res, ok := s.results.Get(key); ok {
		s.hits.Add(1)
		return res, nil
	}
	s.misses.Add(1)

	res := catalog.Run(snap.accounts, l, view, s.config.Options)
	s.results.Set(key, res)
	return res, nil
}

// Home builds the landing page strips.
func (s *CatalogService) Home(ctx context.Context) (catalog.Home, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return catalog.Home{}, err
	}
	return catalog.BuildHome(snap.accounts, catalog.SortOptions{
		Names: catalog.NameNickname,
		Lang:  s.config.Options.Lang,
	}), nil
}

// Account returns one account by id or inventory.ErrAccountNotFound.
func (s *CatalogService) Account(ctx context.Context, id string) (core.Account, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return core.Account{}, err
	}
	i, ok := snap.byID[id]
	if !ok {
		return core.Account{}, fmt.Errorf("account %q: %w", id, inventory.ErrAccountNotFound)
	}
	return snap.accounts[i], nil
}

// Accounts returns every account of the current snapshot.
func (s *CatalogService) Accounts(ctx context.Context) ([]core.Account, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Account, len(snap.accounts))
	copy(out, snap.accounts)
	return out, nil
}

// Refresh fetches a new snapshot regardless of the TTL.
func (s *CatalogService) Refresh(ctx context.Context) error {
	_, err := s.fetch(ctx)
	return err
}

// Ping reports backend readiness when the reader supports it.
func (s *CatalogService) Ping(ctx context.Context) error {
	if p, ok := s.reader.(inventory.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Stats returns counters for monitoring.
func (s *CatalogService) Stats() CatalogStats {
	st := CatalogStats{
		Fetches:     s.fetches.Load(),
		FetchErrors: s.fetchErrors.Load(),
		Discarded:   s.discarded.Load(),
		CacheHits:   s.hits.Load(),
		CacheMisses: s.misses.Load(),
		CachedViews: s.results.Size(),
	}
	s.mu.RLock()
	if s.current != nil {
		st.Generation = s.current.generation
		st.Accounts = len(s.current.accounts)
		st.Categories = make(map[catalog.Category]int, len(s.current.categories))
		for c, n := range s.current.categories {
			st.Categories[c] = n
		}
		st.FetchedAt = s.current.fetchedAt
	}
	s.mu.RUnlock()
	return st
}

// snapshot returns the installed snapshot while it is fresh and otherwise
// fetches one. Concurrent callers share a single fetch.
func (s *CatalogService) snapshot(ctx context.Context) (*snapshot, error) {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()

	if cur != nil && s.now().Sub(cur.fetchedAt) < s.config.TTL {
		return cur, nil
	}

	ch := s.group.DoChan("snapshot", func() (any, error) {
		// Detached so one caller going away does not fail the others.
		return s.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot), nil
	}
}

// fetch loads the inventory and installs it if no newer snapshot exists.
// The caller always gets the data it fetched.
func (s *CatalogService) fetch(ctx context.Context) (*snapshot, error) {
	token := s.tokens.Add(1)
	s.fetches.Add(1)
	start := s.now()

	ctx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
	defer cancel()

	accounts, err := s.reader.ListAccounts(ctx)
	if err != nil {
		s.fetchErrors.Add(1)
		slog.ErrorContext(ctx, "Failed to fetch inventory",
			"component", "catalog",
			"token", token,
			"error", err)
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}

	snap := newSnapshot(token, s.now(), accounts)

	s.mu.Lock()
	installed := s.current == nil || token > s.current.generation
	if installed {
		s.current = snap
	}
	s.mu.Unlock()

	if !installed {
		s.discarded.Add(1)
		slog.DebugContext(ctx, "Discarded stale inventory fetch",
			"component", "catalog",
			"token", token)
		return snap, nil
	}

	// Entries keyed by older generations can never hit again.
	s.results.Purge()

	log.NewStructuredLogger(log.FromContext(ctx).WithComponent(log.ComponentCatalog)).
		LogCatalogRefresh(ctx, token, len(accounts), s.now().Sub(start).Milliseconds())
	return snap, nil
}
