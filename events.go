package main

// EventKind names something the presentation layer may react to
type EventKind string

const (
	EventStateChanged     EventKind = "state_changed"
	EventWaveStarted      EventKind = "wave_started"
	EventWaveCleared      EventKind = "wave_cleared"
	EventBossSpawned      EventKind = "boss_spawned"
	EventEnemyKilled      EventKind = "enemy_killed"
	EventLevelUp          EventKind = "level_up"
	EventPowerupCollected EventKind = "powerup"
	EventPurchased        EventKind = "purchased"
	EventPlayerDied       EventKind = "player_died"
)

// Event is emitted by the simulation instead of touching any UI.
// Value carries the kind-specific number: gold for purchases, kills for
// deaths, the new level for level-ups.
type Event struct {
	Kind  EventKind `json:"k" msgpack:"k"`
	Phase string    `json:"phase,omitempty" msgpack:"phase,omitempty"`
	Wave  int       `json:"wave,omitempty" msgpack:"wave,omitempty"`
	Value int       `json:"v,omitempty" msgpack:"v,omitempty"`
	Label string    `json:"l,omitempty" msgpack:"l,omitempty"`
}
