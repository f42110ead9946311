package authflow

import (
	"crypto/sha256"
	"sync"
	"sync/atomic"
	"time"
)

// CodeLatch remembers authorization codes for ttl so that concurrent or repeated
// deliveries of the same callback run the exchange at most once. Codes are kept
// only as hashes.
type CodeLatch struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	seen map[[sha256.Size]byte]time.Time
}

func NewCodeLatch(ttl time.Duration) *CodeLatch {
	return &CodeLatch{ttl: ttl, now: time.Now, seen: make(map[[sha256.Size]byte]time.Time)}
}

// WithClock overrides the time source.
func (c *CodeLatch) WithClock(now func() time.Time) *CodeLatch {
	c.now = now
	return c
}

// TryAcquire reports whether code has not been seen within the ttl, and records it.
func (c *CodeLatch) TryAcquire(code string) bool {
	key := sha256.Sum256([]byte(code))
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, at := range c.seen {
		if now.Sub(at) >= c.ttl {
			delete(c.seen, k)
		}
	}
	if _, ok := c.seen[key]; ok {
		return false
	}
	c.seen[key] = now
	return true
}

const defaultCodeTTL = 10 * time.Minute

// attempts hands out attempt generations. Only the newest generation may write a session.
type attempts struct {
	current atomic.Uint64
}

func (a *attempts) begin() uint64 { return a.current.Add(1) }

func (a *attempts) load() uint64 { return a.current.Load() }
