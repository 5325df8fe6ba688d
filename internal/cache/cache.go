// Package cache is the process-local response cache: a best-effort
// optimization layer keyed by a fingerprint of the normalized question and
// quantized taste vector. Losing it on restart has no correctness impact.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/daeunko/curator/internal/taste"
)

// DefaultTTL is how long a cached answer stays valid.
const DefaultTTL = 5 * time.Minute

// fingerprintVersion is bumped whenever normalization or default-detection
// semantics change, invalidating stale keys.
const fingerprintVersion = "v1"

// Entry is a cached answer with its supporting sources.
type Entry struct {
	Answer     string
	Sources    []Source
	InsertedAt time.Time
}

// Source mirrors the response source shape so cached hits are returned
// byte-identical to the original response.
type Source struct {
	ID          string  `json:"id"`
	ProductName string  `json:"productName,omitempty"`
	Category    string  `json:"category,omitempty"`
	Similarity  float32 `json:"similarity,omitempty"`
}

// Cache is the response cache contract. The in-process MemoryCache is the
// single-instance backing store; multi-instance deployments can plug in an
// external one.
type Cache interface {
	Get(key string) (Entry, bool)
	Put(key string, e Entry)
	Evict(key string)
}

// Fingerprint derives the deterministic cache key: the question is trimmed,
// lowercased and inner whitespace collapsed; taste axes are quantized to
// the slider step so near-identical repeat queries hit.
func Fingerprint(question string, v taste.Vector) string {
	q := v.Quantized()
	payload := fmt.Sprintf("%s|%s|%.1f,%.1f,%.1f,%.1f,%.1f,%.1f",
		fingerprintVersion,
		normalize(question),
		q.Boldness, q.MaterialValue, q.Utility, q.Reliability, q.Comfort, q.Exclusivity,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// MemoryCache is a mutex-guarded map with lazy TTL eviction: expiry is
// checked on read, no background sweep.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a cache with the given TTL. A non-positive ttl
// falls back to DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	if c.now().Sub(e.InsertedAt) > c.ttl {
		delete(c.entries, key)
		return Entry{}, false
	}
	return e, true
}

func (c *MemoryCache) Put(key string, e Entry) {
	if e.InsertedAt.IsZero() {
		e.InsertedAt = c.now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

func (c *MemoryCache) Evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of entries currently held, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
