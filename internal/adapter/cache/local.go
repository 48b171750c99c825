package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/observability/telemetry"
)

const defaultLocalMaxEntries = 10000

type localEntry struct {
	key       string
	value     string
	expiresAt time.Time
}

func (e *localEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// LocalCache is the single-replica stand-in for Redis. It holds at most
// maxEntries backend answers and evicts the least recently read one when
// full, so a long session of distinct symbol searches cannot grow it
// without bound.
type LocalCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	recency    *list.List
	maxEntries int
	now        func() time.Time
	log        *zap.Logger

	stopCh    chan struct{}
	closeOnce sync.Once
}

// NewLocalCache starts a bounded cache that reaps expired entries every
// cleanupInterval.
func NewLocalCache(cleanupInterval time.Duration, maxEntries int, log *zap.Logger) *LocalCache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = defaultLocalMaxEntries
	}

	c := &LocalCache{
		entries:    make(map[string]*list.Element),
		recency:    list.New(),
		maxEntries: maxEntries,
		now:        time.Now,
		log:        log,
		stopCh:     make(chan struct{}),
	}

	go c.reapLoop(cleanupInterval)

	log.Info("Local in-memory cache initialized",
		zap.Duration("cleanup_interval", cleanupInterval),
		zap.Int("max_entries", maxEntries),
	)
	return c
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return "", ErrMiss
	}

	entry := el.Value.(*localEntry)
	if entry.expired(c.now()) {
		c.remove(el, "expired")
		return "", ErrMiss
	}

	c.recency.MoveToFront(el)
	return entry.value, nil
}

// Set stores value as text. Strings and byte slices are kept as is and
// anything else is stored as JSON, mirroring what callers read back from
// Redis.
func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	text, err := encodeValue(value)
	if err != nil {
		return err
	}

	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = c.now().Add(expiration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*localEntry)
		entry.value = text
		entry.expiresAt = expiresAt
		c.recency.MoveToFront(el)
		return nil
	}

	c.entries[key] = c.recency.PushFront(&localEntry{key: key, value: text, expiresAt: expiresAt})
	for len(c.entries) > c.maxEntries {
		c.remove(c.recency.Back(), "capacity")
	}
	telemetry.LocalCacheEntries.Set(float64(len(c.entries)))
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.recency.Remove(el)
		delete(c.entries, key)
		telemetry.LocalCacheEntries.Set(float64(len(c.entries)))
	}
	return nil
}

func (c *LocalCache) Ping() error {
	return nil
}

func (c *LocalCache) Close() error {
	c.closeOnce.Do(func() { close(c.stopCh) })
	return nil
}

// Len counts stored entries, including expired ones not yet reaped.
func (c *LocalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with c.mu held.
func (c *LocalCache) remove(el *list.Element, reason string) {
	entry := c.recency.Remove(el).(*localEntry)
	delete(c.entries, entry.key)
	telemetry.LocalCacheEvictionsTotal.WithLabelValues(reason).Inc()
	telemetry.LocalCacheEntries.Set(float64(len(c.entries)))
}

func (c *LocalCache) reapLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.reap()
		case <-c.stopCh:
			return
		}
	}
}

func (c *LocalCache) reap() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	reaped := 0
	for el := c.recency.Back(); el != nil; {
		prev := el.Prev()
		if el.Value.(*localEntry).expired(now) {
			c.remove(el, "expired")
			reaped++
		}
		el = prev
	}

	if reaped > 0 {
		c.log.Debug("Local cache reaped expired entries", zap.Int("count", reaped))
	}
}

func encodeValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal cache value: %w", err)
		}
		return string(data), nil
	}
}
