package listing

import (
	"sync"
	"time"
)

// listCache holds the most recent job listing for a short TTL. It is
// advisory only: every refresh write invalidates it. A non-positive TTL
// disables caching entirely.
type listCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	jobs    []Job
	expires time.Time
}

func newListCache(ttl time.Duration) *listCache {
	return &listCache{ttl: ttl}
}

func (c *listCache) get() ([]Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.jobs == nil || time.Now().After(c.expires) {
		return nil, false
	}
	return c.jobs, true
}

func (c *listCache) set(jobs []Job) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs = jobs
	c.expires = time.Now().Add(c.ttl)
}

func (c *listCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jobs = nil
}
