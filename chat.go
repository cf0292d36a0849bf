package main

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	ChatInterval   = 2 * time.Second
	ChatMaxLen     = 100
	ChatHistoryLen = 50
	GuestAuthor    = "GUEST"
)

var (
	ErrChatTooFast = errors.New("slow down")
	ErrChatTooLong = errors.New("message too long")
	ErrChatEmpty   = errors.New("empty message")
)

// ChatLimiter applies the per-client posting rules before anything is sent
type ChatLimiter struct {
	last time.Time
}

// Check trims text and validates it against the length cap and the interval since the last accepted post
func (l *ChatLimiter) Check(text string, now time.Time) (string, error) {
	if !l.last.IsZero() && now.Sub(l.last) < ChatInterval {
		return "", ErrChatTooFast
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrChatEmpty
	}
	if utf8.RuneCountInString(text) > ChatMaxLen {
		return "", ErrChatTooLong
	}
	return text, nil
}

// Sent starts the interval; only successful posts count
func (l *ChatLimiter) Sent(now time.Time) {
	l.last = now
}

// ChatLog is the persistence a ChatHub needs
type ChatLog interface {
	InsertChat(ctx context.Context, m ChatMessage) error
	RecentChat(ctx context.Context, limit int) ([]ChatMessage, error)
}

type chatSub struct {
	limit int
	ch    chan []ChatMessage
}

// ChatHub is the shared chat: it persists posts and pushes the latest
// messages to every subscriber. Slow subscribers only see the newest list.
type ChatHub struct {
	log ChatLog

	mu     sync.Mutex
	recent []ChatMessage // oldest first, at most ChatHistoryLen
	loaded bool
	subs   map[*chatSub]struct{}
	now    func() time.Time
}

var _ ChatRelay = (*ChatHub)(nil)

// NewChatHub creates a hub backed by store; a nil store keeps messages in memory only
func NewChatHub(store ChatLog) *ChatHub {
	return &ChatHub{
		log:  store,
		subs: make(map[*chatSub]struct{}),
		now:  time.Now,
	}
}

func (h *ChatHub) load(ctx context.Context) error {
	if h.loaded {
		return nil
	}
	if h.log != nil {
		msgs, err := h.log.RecentChat(ctx, ChatHistoryLen)
		if err != nil {
			return err
		}
		h.recent = msgs
	}
	h.loaded = true
	return nil
}

func tail(msgs []ChatMessage, limit int) []ChatMessage {
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// push replaces whatever the subscriber has not read yet
func (s *chatSub) push(msgs []ChatMessage) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- tail(msgs, s.limit)
}

// SubscribeRecent delivers the latest limit messages now and after every post
func (h *ChatHub) SubscribeRecent(ctx context.Context, limit int) (<-chan []ChatMessage, func(), error) {
	if limit <= 0 || limit > ChatHistoryLen {
		limit = ChatHistoryLen
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.load(ctx); err != nil {
		return nil, nil, err
	}

	sub := &chatSub{limit: limit, ch: make(chan []ChatMessage, 1)}
	h.subs[sub] = struct{}{}
	sub.push(h.recent)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
		})
	}
	return sub.ch, cancel, nil
}

// PostMessage persists a message and fans it out
func (h *ChatHub) PostMessage(ctx context.Context, author, text string) error {
	if author == "" {
		author = GuestAuthor
	}
	m := ChatMessage{Author: author, Text: text, Time: h.now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.load(ctx); err != nil {
		return err
	}
	if h.log != nil {
		if err := h.log.InsertChat(ctx, m); err != nil {
			log.Printf("chat: insert: %v", err)
			return err
		}
	}
	h.recent = append(h.recent, m)
	if len(h.recent) > ChatHistoryLen {
		h.recent = h.recent[len(h.recent)-ChatHistoryLen:]
	}
	for sub := range h.subs {
		sub.push(h.recent)
	}
	return nil
}

// Subscribers returns the live subscription count
func (h *ChatHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
