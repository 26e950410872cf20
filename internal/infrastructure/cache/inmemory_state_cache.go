package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appstock "github.com/venueops/backend/internal/application/stock"
	"github.com/venueops/backend/internal/domain/shared"
	"github.com/venueops/backend/internal/domain/stock"
)

type stateEntry struct {
	state     stock.StockState
	expiresAt time.Time
}

// InMemoryStateCache implements StateCache using an in-memory map. Suitable
// for single-instance deployments and testing. State is not shared across
// process instances.
type InMemoryStateCache struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]stateEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryStateCache creates an in-memory state cache. It starts a
// background goroutine that evicts expired entries.
func NewInMemoryStateCache(ttl time.Duration) *InMemoryStateCache {
	c := &InMemoryStateCache{
		entries:  make(map[uuid.UUID]stateEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached state, or shared.ErrNotFound on a miss
func (c *InMemoryStateCache) Get(ctx context.Context, productID uuid.UUID) (*stock.StockState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[productID]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, shared.ErrNotFound
	}

	state := e.state
	return &state, nil
}

// Set stores the state for a product
func (c *InMemoryStateCache) Set(ctx context.Context, productID uuid.UUID, state stock.StockState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[productID] = stateEntry{
		state:     state,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the cached state for a product
func (c *InMemoryStateCache) Invalidate(ctx context.Context, productID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, productID)
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryStateCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Len returns the number of live entries (for testing/monitoring)
func (c *InMemoryStateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryStateCache) cleanupLoop() {
	defer c.wg.Done()

	interval := c.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *InMemoryStateCache) evictExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for productID, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, productID)
		}
	}
}

var _ appstock.StateCache = (*InMemoryStateCache)(nil)
