package provider

import (
	"sync"
	"time"
)

// Change is one coalesced filesystem change.
type Change struct {
	Path string
	Op   ChangeOp
}

// ChangeOp collapses fsnotify's event types into the two outcomes the
// record set cares about: the path needs a fresh stat, or it is gone.
type ChangeOp int

const (
	OpTouched ChangeOp = iota // created or written; re-stat the path
	OpGone                    // removed or renamed away
)

// coalescer batches filesystem changes and emits them after a quiet period.
// Multiple changes to the same path within the window collapse into one,
// keeping the latest op. A burst (a build, an unzip) therefore produces a
// single incremental regather instead of hundreds.
type coalescer struct {
	window  time.Duration
	mu      sync.Mutex
	pending map[string]Change
	timer   *time.Timer
	out     chan []Change
}

func newCoalescer(window time.Duration) *coalescer {
	return &coalescer{
		window:  window,
		pending: make(map[string]Change),
		out:     make(chan []Change, 8),
	}
}

// output returns the channel receiving coalesced batches.
func (c *coalescer) output() <-chan []Change {
	return c.out
}

// add records a change and (re)arms the quiet-period timer.
func (c *coalescer) add(path string, op ChangeOp) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending[path] = Change{Path: path, Op: op}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, c.flush)
}

func (c *coalescer) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) == 0 {
		return
	}

	batch := make([]Change, 0, len(c.pending))
	for _, change := range c.pending {
		batch = append(batch, change)
	}
	c.pending = make(map[string]Change)

	select {
	case c.out <- batch:
	default:
		// Receiver stalled; fold the batch back and retry after another window.
		for _, change := range batch {
			if _, exists := c.pending[change.Path]; !exists {
				c.pending[change.Path] = change
			}
		}
		c.timer = time.AfterFunc(c.window, c.flush)
	}
}
