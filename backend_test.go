package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

// drainWait polls the queue until want completions arrived or a second passed
func drainWait(q *TaskQueue, epoch uint64, want int) []func() {
	var got []func()
	deadline := time.Now().Add(time.Second)
	for len(got) < want && time.Now().Before(deadline) {
		got = append(got, q.Drain(epoch)...)
		time.Sleep(time.Millisecond)
	}
	return got
}

func TestTaskQueueDelivers(t *testing.T) {
	q := NewTaskQueue(time.Second)
	defer q.Close()

	applied := 0
	q.Submit(1, true, func(ctx context.Context) func() {
		return func() { applied++ }
	})
	for _, apply := range drainWait(q, 1, 1) {
		apply()
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
}

func TestTaskQueueDropsStaleScoped(t *testing.T) {
	q := NewTaskQueue(time.Second)
	defer q.Close()

	release := make(chan struct{})
	var scoped, unscoped bool
	q.Submit(1, true, func(ctx context.Context) func() {
		<-release
		return func() { scoped = true }
	})
	q.Submit(1, false, func(ctx context.Context) func() {
		<-release
		return func() { unscoped = true }
	})
	close(release)

	// the run was reset to epoch 2 while both were in flight
	for _, apply := range drainWait(q, 2, 1) {
		apply()
	}
	q.Close()
	for _, apply := range q.Drain(2) {
		apply()
	}
	if scoped {
		t.Error("scoped completion from an old run was applied")
	}
	if !unscoped {
		t.Error("unscoped completion should survive a reset")
	}
}

func TestTaskQueueNilApplyAndPanic(t *testing.T) {
	q := NewTaskQueue(time.Second)
	q.Submit(1, false, func(ctx context.Context) func() { return nil })
	q.Submit(1, false, func(ctx context.Context) func() { panic("boom") })
	q.Close()
	if got := q.Drain(1); len(got) != 0 {
		t.Errorf("got %d completions, want 0", len(got))
	}
}

func TestTaskQueueDropsSubmitAfterClose(t *testing.T) {
	q := NewTaskQueue(time.Second)
	q.Close()

	ran := make(chan struct{}, 1)
	if q.Submit(1, false, func(ctx context.Context) func() {
		ran <- struct{}{}
		return nil
	}) {
		t.Error("submit after close was accepted")
	}
	q.Close()
	select {
	case <-ran:
		t.Error("call ran after close")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestTaskQueueTimeout(t *testing.T) {
	q := NewTaskQueue(10 * time.Millisecond)
	defer q.Close()

	var once sync.Once
	var gotErr error
	done := make(chan struct{})
	q.Submit(1, false, func(ctx context.Context) func() {
		<-ctx.Done()
		once.Do(func() { gotErr = ctx.Err() })
		close(done)
		return nil
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("call was not cancelled")
	}
	if !errors.Is(gotErr, context.DeadlineExceeded) {
		t.Errorf("ctx err = %v, want deadline exceeded", gotErr)
	}
}

func TestBackendLeaderboardSharesInflight(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStatStore(ctrl)

	release := make(chan struct{})
	entered := make(chan struct{})
	store.EXPECT().FetchLeaderboard(gomock.Any(), SortBestScore, 5).
		DoAndReturn(func(ctx context.Context, key string, limit int) ([]LeaderboardEntry, error) {
			close(entered)
			<-release
			return []LeaderboardEntry{{Rank: 1, Pseudo: "ACE", Value: 9}}, nil
		}).Times(1)

	b := &Backend{Stats: store}
	var wg sync.WaitGroup
	results := make([][]LeaderboardEntry, 3)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = b.Leaderboard(context.Background(), SortBestScore, 5)
	}()
	<-entered
	for i := 1; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = b.Leaderboard(context.Background(), SortBestScore, 5)
		}(i)
	}
	// give the followers time to join the running call
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, r := range results {
		if len(r) != 1 || r[0].Pseudo != "ACE" {
			t.Errorf("result %d = %+v", i, r)
		}
	}
}

func TestBackendWithoutStore(t *testing.T) {
	var b *Backend
	if _, err := b.Leaderboard(context.Background(), SortBestScore, 5); !errors.Is(err, ErrNoBackend) {
		t.Errorf("nil backend err = %v", err)
	}
	if b.timeout() != DefaultBackendTimeout {
		t.Errorf("timeout = %v", b.timeout())
	}
	if b.analytics() != nil {
		t.Error("nil backend has no analytics")
	}
}
