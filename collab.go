package main

//go:generate go tool mockgen -source=collab.go -destination=mock_collab_test.go -package=main

import (
	"context"
	"time"
)

// Profile is the identity returned by a successful login
type Profile struct {
	Pseudo     string `json:"pseudo"`
	BestScore  int    `json:"bestScore"`
	TotalGames int    `json:"totalGames"`
	TotalKills int    `json:"totalKills"`
}

// MatchRecord is one finished run in a player's history
type MatchRecord struct {
	Kills int       `json:"kills"`
	Wave  int       `json:"wave"`
	Date  time.Time `json:"date"`
}

// PlayerStats is the profile view: totals plus up to ten recent runs
type PlayerStats struct {
	BestScore  int           `json:"bestScore"`
	TotalGames int           `json:"totalGames"`
	TotalKills int           `json:"totalKills"`
	History    []MatchRecord `json:"history"`
}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Pseudo string `json:"pseudo"`
	Value  int    `json:"value"`
}

// ChatMessage is one line of the shared chat
type ChatMessage struct {
	Author string    `json:"author"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
}

// Leaderboard sort keys
const (
	SortBestScore  = "best_score"
	SortTotalKills = "total_kills"
)

// StatStore is the identity, history and leaderboard backend
type StatStore interface {
	AccountExists(ctx context.Context, name string) (bool, error)
	// CreateAccount returns false when the name is already taken
	CreateAccount(ctx context.Context, name, secret string) (bool, error)
	// Login returns ErrBadCredentials on a wrong name or secret
	Login(ctx context.Context, name, secret string) (*Profile, error)
	RecordMatch(ctx context.Context, name string, kills, wave int) error
	FetchStats(ctx context.Context, name string) (*PlayerStats, error)
	FetchLeaderboard(ctx context.Context, sortKey string, limit int) ([]LeaderboardEntry, error)
}

// ChatRelay is the push-based shared chat
type ChatRelay interface {
	// SubscribeRecent delivers the latest limit messages, oldest first, now
	// and after every change, until cancel is called.
	SubscribeRecent(ctx context.Context, limit int) (updates <-chan []ChatMessage, cancel func(), err error)
	PostMessage(ctx context.Context, author, text string) error
}

// Cue is a fire-and-forget sound trigger
type Cue string

const (
	CueShoot      Cue = "shoot"
	CueEnemyDeath Cue = "enemy_death"
	CueHeal       Cue = "heal"
	CueClick      Cue = "click"
	CueAmbience   Cue = "ambience"
)

// AllCues lists every cue in a stable order
var AllCues = []Cue{CueShoot, CueEnemyDeath, CueHeal, CueClick, CueAmbience}

// AudioSink plays cues. Implementations must not block the caller.
type AudioSink interface {
	Play(cue Cue)
}

// NopAudio discards every cue
type NopAudio struct{}

func (NopAudio) Play(Cue) {}
