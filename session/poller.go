package session

import (
	"context"
	"sync"
	"time"

	"clipdeck/api"
)

// RefreshFunc fetches the latest task record from the server.
type RefreshFunc func(ctx context.Context) (*api.Task, error)

// RefreshResult is one poll outcome. Err set means the existing task must
// be kept; only an explicit reset removes it.
type RefreshResult struct {
	Task *api.Task
	Err  error
}

// Poller drives fixed-interval status refreshes while a task is
// non-terminal. It is an explicit disposable: acquired when the workflow
// view starts watching a task, released unconditionally at teardown, with
// no ties to any rendering framework.
type Poller struct {
	interval time.Duration
	updates  chan RefreshResult

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	stopped bool
}

// NewPoller creates a poller with the given refresh interval.
func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Poller{
		interval: interval,
		updates:  make(chan RefreshResult, 4),
	}
}

// Start begins polling with fetch. Results arrive on Updates in resolution
// order; if the consumer falls behind, stale results are dropped rather
// than queued. Start is a no-op after the first call.
func (p *Poller) Start(fetch RefreshFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.stopped {
		return
	}
	p.started = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	go func() {
		defer close(p.updates)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			task, err := fetch(ctx)
			if ctx.Err() != nil {
				return
			}

			select {
			case p.updates <- RefreshResult{Task: task, Err: err}:
			default:
			}
		}
	}()
}

// Updates returns the result channel. It is closed after Stop.
func (p *Poller) Updates() <-chan RefreshResult {
	return p.updates
}

// Stop cancels polling and releases the ticker. Safe to call more than
// once, and safe to call before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return
	}
	p.stopped = true

	if p.cancel != nil {
		p.cancel()
	} else {
		// Never started; close the channel ourselves so readers unblock.
		close(p.updates)
	}
}
