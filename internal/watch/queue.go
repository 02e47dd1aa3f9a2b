package watch

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last pushed event before the
// queue drains.
const DefaultDebounce = 300 * time.Millisecond

// Queue serializes events for a single worker. While an event for a path is
// pending, later events for the same path coalesce into it and a renamed
// event wins over changed.
type Queue struct {
	mu       sync.Mutex
	pending  map[string]Kind
	order    []string
	timer    *time.Timer
	debounce time.Duration
	ready    chan struct{}
}

// NewQueue creates a queue draining after debounce of quiet. A zero debounce
// signals readiness immediately.
func NewQueue(debounce time.Duration) *Queue {
	return &Queue{
		pending:  make(map[string]Kind),
		debounce: debounce,
		ready:    make(chan struct{}, 1),
	}
}

// Push enqueues ev, coalescing it with a pending event for the same path.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if kind, ok := q.pending[ev.Path]; ok {
		if kind != Renamed {
			q.pending[ev.Path] = ev.Kind
		}
	} else {
		q.pending[ev.Path] = ev.Kind
		q.order = append(q.order, ev.Path)
	}

	if q.debounce <= 0 {
		q.signal()
		return
	}
	if q.timer != nil {
		q.timer.Stop()
	}
	q.timer = time.AfterFunc(q.debounce, q.signal)
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Len returns the number of pending paths.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Drain removes and returns pending events in arrival order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Event, 0, len(q.order))
	for _, path := range q.order {
		out = append(out, Event{Kind: q.pending[path], Path: path})
	}
	q.pending = make(map[string]Kind)
	q.order = nil
	return out
}

// Run handles drained events one at a time until ctx is done. Events pushed
// while a batch is being handled wait for the next drain, so no two handlers
// ever run concurrently.
func (q *Queue) Run(ctx context.Context, handle func(context.Context, Event)) {
	for {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			if q.timer != nil {
				q.timer.Stop()
			}
			q.mu.Unlock()
			return
		case <-q.ready:
			for _, ev := range q.Drain() {
				handle(ctx, ev)
			}
		}
	}
}
