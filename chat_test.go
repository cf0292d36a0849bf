package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestChatLimiter(t *testing.T) {
	var l ChatLimiter
	now := time.Unix(1_700_000_000, 0)

	text, err := l.Check("  hi there ", now)
	if err != nil || text != "hi there" {
		t.Fatalf("Check = %q, %v", text, err)
	}
	l.Sent(now)

	if _, err := l.Check("again", now.Add(time.Second)); !errors.Is(err, ErrChatTooFast) {
		t.Errorf("1s later err = %v, want ErrChatTooFast", err)
	}
	if _, err := l.Check("again", now.Add(ChatInterval)); err != nil {
		t.Errorf("after the interval err = %v", err)
	}
}

func TestChatLimiterRejectsWithoutStartingInterval(t *testing.T) {
	var l ChatLimiter
	now := time.Unix(1_700_000_000, 0)

	if _, err := l.Check("   ", now); !errors.Is(err, ErrChatEmpty) {
		t.Errorf("blank err = %v, want ErrChatEmpty", err)
	}
	if _, err := l.Check(strings.Repeat("x", ChatMaxLen+1), now); !errors.Is(err, ErrChatTooLong) {
		t.Errorf("long err = %v, want ErrChatTooLong", err)
	}
	if _, err := l.Check(strings.Repeat("é", ChatMaxLen), now); err != nil {
		t.Errorf("%d runes should pass: %v", ChatMaxLen, err)
	}
	// nothing was sent, so the next post goes through immediately
	if _, err := l.Check("ok", now); err != nil {
		t.Errorf("err = %v", err)
	}
}

func recv(t *testing.T, ch <-chan []ChatMessage) []ChatMessage {
	t.Helper()
	select {
	case msgs := <-ch:
		return msgs
	case <-time.After(time.Second):
		t.Fatal("no chat update")
		return nil
	}
}

func TestChatHubSubscribe(t *testing.T) {
	h := NewChatHub(nil)
	ctx := context.Background()

	updates, cancel, err := h.SubscribeRecent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()
	if msgs := recv(t, updates); len(msgs) != 0 {
		t.Errorf("initial = %+v, want empty", msgs)
	}

	h.PostMessage(ctx, "ACE", "one")
	if msgs := recv(t, updates); len(msgs) != 1 || msgs[0].Author != "ACE" {
		t.Errorf("after one = %+v", msgs)
	}

	// subscriber is slow: only the newest list is kept
	h.PostMessage(ctx, "", "two")
	h.PostMessage(ctx, "BOB", "three")
	msgs := recv(t, updates)
	if len(msgs) != 2 || msgs[0].Text != "two" || msgs[1].Text != "three" {
		t.Fatalf("latest = %+v, want two, three", msgs)
	}
	if msgs[0].Author != GuestAuthor {
		t.Errorf("empty author = %q, want %q", msgs[0].Author, GuestAuthor)
	}
	select {
	case extra := <-updates:
		t.Errorf("unexpected extra update %+v", extra)
	default:
	}
}

func TestChatHubCancel(t *testing.T) {
	h := NewChatHub(nil)
	_, cancel, _ := h.SubscribeRecent(context.Background(), 10)
	if h.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", h.Subscribers())
	}
	cancel()
	cancel()
	if h.Subscribers() != 0 {
		t.Errorf("subscribers after cancel = %d", h.Subscribers())
	}
	if err := h.PostMessage(context.Background(), "ACE", "nobody listens"); err != nil {
		t.Errorf("post with no subscribers: %v", err)
	}
}

func TestChatHubHistoryCap(t *testing.T) {
	h := NewChatHub(nil)
	ctx := context.Background()
	for i := 0; i < ChatHistoryLen+5; i++ {
		h.PostMessage(ctx, "ACE", "m")
	}
	updates, cancel, _ := h.SubscribeRecent(ctx, 0)
	defer cancel()
	if msgs := recv(t, updates); len(msgs) != ChatHistoryLen {
		t.Errorf("history = %d messages, want %d", len(msgs), ChatHistoryLen)
	}
}

func TestChatHubLoadsPersistedHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := NewChatHub(db)
	first.PostMessage(ctx, "ACE", "before restart")

	// a new hub over the same database sees the old line
	second := NewChatHub(db)
	updates, cancel, err := second.SubscribeRecent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()
	msgs := recv(t, updates)
	if len(msgs) != 1 || msgs[0].Text != "before restart" {
		t.Errorf("loaded = %+v", msgs)
	}
}

type failingLog struct{}

func (failingLog) InsertChat(context.Context, ChatMessage) error { return errors.New("disk full") }
func (failingLog) RecentChat(context.Context, int) ([]ChatMessage, error) {
	return nil, nil
}

func TestChatHubInsertFailure(t *testing.T) {
	h := NewChatHub(failingLog{})
	ctx := context.Background()
	updates, cancel, _ := h.SubscribeRecent(ctx, 10)
	defer cancel()
	recv(t, updates)

	if err := h.PostMessage(ctx, "ACE", "lost"); err == nil {
		t.Fatal("PostMessage should report the store failure")
	}
	select {
	case msgs := <-updates:
		t.Errorf("failed post was pushed: %+v", msgs)
	default:
	}
}
