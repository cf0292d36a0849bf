package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultBackendTimeout = 5 * time.Second

var ErrNoBackend = errors.New("backend unavailable")

// Backend bundles the collaborators sessions call off the tick loop. Any
// of them may be nil; sessions then run guest-only.
type Backend struct {
	Stats        StatStore
	Chat         ChatRelay
	Auth         *Auth
	Achievements AchievementStore
	Analytics    *Analytics
	Timeout      time.Duration

	boards singleflight.Group
}

func (b *Backend) timeout() time.Duration {
	if b == nil || b.Timeout <= 0 {
		return DefaultBackendTimeout
	}
	return b.Timeout
}

func (b *Backend) analytics() *Analytics {
	if b == nil {
		return nil
	}
	return b.Analytics
}

// Leaderboard fetches a ranking. Identical requests in flight share one query.
func (b *Backend) Leaderboard(ctx context.Context, key string, limit int) ([]LeaderboardEntry, error) {
	if b == nil || b.Stats == nil {
		return nil, ErrNoBackend
	}
	v, err, _ := b.boards.Do(fmt.Sprintf("%s:%d", key, limit), func() (interface{}, error) {
		return b.Stats.FetchLeaderboard(ctx, key, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]LeaderboardEntry), nil
}

type completion struct {
	epoch  uint64
	scoped bool
	apply  func()
}

// TaskQueue runs backend calls on their own goroutines and hands their
// completions back to the loop that owns the game.
type TaskQueue struct {
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc

	mu     sync.Mutex
	done   []completion
	closed bool
	wg     sync.WaitGroup
}

// NewTaskQueue creates a queue whose calls each get timeout to finish
func NewTaskQueue(timeout time.Duration) *TaskQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskQueue{timeout: timeout, ctx: ctx, cancel: cancel}
}

// Submit runs call in the background. The func it returns, if not nil, runs
// on the next Drain. A scoped task belongs to run epoch and its completion is
// discarded once the run has been reset. Submits after Close are dropped.
func (q *TaskQueue) Submit(epoch uint64, scoped bool, call func(ctx context.Context) func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("backend: task panic: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(q.ctx, q.timeout)
		defer cancel()
		apply := call(ctx)
		if apply == nil {
			return
		}
		q.mu.Lock()
		q.done = append(q.done, completion{epoch: epoch, scoped: scoped, apply: apply})
		q.mu.Unlock()
	}()
	return true
}

// Drain returns the completions to apply for the current epoch, in arrival order
func (q *TaskQueue) Drain(epoch uint64) []func() {
	q.mu.Lock()
	done := q.done
	q.done = nil
	q.mu.Unlock()

	var out []func()
	for _, c := range done {
		if c.scoped && c.epoch != epoch {
			continue
		}
		out = append(out, c.apply)
	}
	return out
}

// Close cancels outstanding calls and waits for them to return
func (q *TaskQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cancel()
	q.wg.Wait()
}
