package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event types for analytics tracking
const (
	EvtRunStart    = "run_start"
	EvtRunEnd      = "run_end"
	EvtWaveCleared = "wave_cleared"
	EvtPurchase    = "purchase"
	EvtBossKill    = "boss_kill"
	EvtAchievement = "achievement"
)

const (
	analyticsBuffer   = 1024
	analyticsBatch    = 50
	analyticsInterval = 5 * time.Second
)

// AnalyticsEvent represents a single trackable event
type AnalyticsEvent struct {
	Type      string
	Pseudo    string
	SessionID string
	Data      string // JSON metadata (optional)
	Timestamp time.Time
}

// Analytics handles event tracking with batched background writes
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup

	mu             sync.RWMutex
	activeSessions int
	dropped        int
}

// NewAnalytics creates and starts the analytics background writer
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, analyticsBuffer),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer(analyticsInterval)
	return a
}

// Track enqueues an event for async persistence (non-blocking). data is
// JSON-encoded when not nil.
func (a *Analytics) Track(evtType, pseudo, sessionID string, data interface{}) {
	if a == nil {
		return
	}
	var encoded string
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			encoded = string(b)
		}
	}
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		Pseudo:    pseudo,
		SessionID: sessionID,
		Data:      encoded,
		Timestamp: time.Now().UTC(),
	}:
	default:
		a.mu.Lock()
		a.dropped++
		a.mu.Unlock()
	}
}

// SetActiveSessions updates live session count metric
func (a *Analytics) SetActiveSessions(n int) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.activeSessions = n
	a.mu.Unlock()
}

// LiveMetrics returns the active session count and the number of dropped events
func (a *Analytics) LiveMetrics() (sessions, dropped int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.activeSessions, a.dropped
}

// Stop gracefully shuts down the analytics writer
func (a *Analytics) Stop() {
	close(a.stop)
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (a *Analytics) writer(interval time.Duration) {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, analyticsBatch)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= analyticsBatch {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					a.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to the database
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		log.Printf("analytics: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, pseudo, session_id, data, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("analytics: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		pseudo := sql.NullString{String: evt.Pseudo, Valid: evt.Pseudo != ""}
		sid := sql.NullString{String: evt.SessionID, Valid: evt.SessionID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, pseudo, sid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Printf("analytics: insert error: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("analytics: commit error: %v", err)
	}
}

// EventCounts returns counts of each event type for the last N days
func (a *Analytics) EventCounts(days int) (map[string]int, error) {
	if a.db == nil {
		return nil, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	rows, err := a.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM analytics_events
		WHERE created_at >= ?
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// PopularPurchases returns the most bought upgrades
func (a *Analytics) PopularPurchases(limit int) ([]ItemAnalytics, error) {
	if a.db == nil {
		return nil, nil
	}
	rows, err := a.db.conn.Query(`
		SELECT COALESCE(json_extract(data, '$.id'), 'unknown') as item, COUNT(*) as cnt
		FROM analytics_events
		WHERE event_type = ? AND json_valid(data)
		GROUP BY item ORDER BY cnt DESC, item ASC LIMIT ?
	`, EvtPurchase, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ItemAnalytics
	for rows.Next() {
		var ia ItemAnalytics
		if err := rows.Scan(&ia.ItemID, &ia.Count); err != nil {
			continue
		}
		result = append(result, ia)
	}
	return result, rows.Err()
}

// ItemAnalytics holds purchase count per upgrade
type ItemAnalytics struct {
	ItemID string `json:"id"`
	Count  int    `json:"count"`
}
