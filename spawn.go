package main

import (
	"math"
	"math/rand"
)

const (
	SafeSpawnDistance = 600.0
	SafeSpawnAttempts = 10
	BeamEdgeInset     = 20.0
	BossHPBase        = 1000.0
)

// spawnRule upgrades the rolled variant when wave > MinWave and Lo < r < Hi
type spawnRule struct {
	MinWave int
	Lo, Hi  float64
	Kind    EnemyKind
}

// spawnRules are evaluated in order; a later match overrides an earlier one
var spawnRules = []spawnRule{
	{MinWave: 1, Lo: 0.70, Hi: 1, Kind: Scout},
	{MinWave: 2, Lo: 0.85, Hi: 1, Kind: Sniper},
	{MinWave: 4, Lo: 0.90, Hi: 1, Kind: Teleporter},
	{MinWave: 3, Lo: 0.95, Hi: 1, Kind: Tank},
	{MinWave: 4, Lo: 0.92, Hi: 0.97, Kind: Ghost},
	{MinWave: 6, Lo: 0.88, Hi: 0.92, Kind: Beam},
}

// RollEnemyKind picks the regular variant for a roll r in [0, 1)
func RollEnemyKind(wave int, r float64) EnemyKind {
	kind := Drone
	for _, rule := range spawnRules {
		if wave > rule.MinWave && r > rule.Lo && r < rule.Hi {
			kind = rule.Kind
		}
	}
	return kind
}

// WaveTarget is the number of regular enemies a wave emits
func WaveTarget(wt WaveTuning, wave int) int {
	f := math.Floor(float64(wt.BaseCount) * math.Pow(wt.DifficultyMultiplier, float64(wave-1)))
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	n := int(f)
	if n <= 0 {
		return 15
	}
	return n
}

// EnemyHPScale is the spawn-time HP multiplier for a variant at a wave
func EnemyHPScale(kind EnemyKind, wave int) float64 {
	if kind == Boss {
		return 1 + float64(wave)*0.2
	}
	return 1 + float64(wave)*0.1
}

// PlaceEnemy picks a spawn position. Beams sit on a world edge; everything
// else tries to land beyond SafeSpawnDistance from the player and keeps the
// last sample when every attempt was too close.
func PlaceEnemy(kind EnemyKind, rng *rand.Rand, worldW, worldH, px, py float64) (x, y float64) {
	if kind == Beam {
		if rng.Float64() < 0.5 {
			x = BeamEdgeInset
			if rng.Float64() >= 0.5 {
				x = worldW - BeamEdgeInset
			}
			y = rng.Float64() * worldH
		} else {
			x = rng.Float64() * worldW
			y = BeamEdgeInset
			if rng.Float64() >= 0.5 {
				y = worldH - BeamEdgeInset
			}
		}
		return x, y
	}
	for i := 0; i < SafeSpawnAttempts; i++ {
		x = rng.Float64() * worldW
		y = rng.Float64() * worldH
		if Distance(x, y, px, py) > SafeSpawnDistance {
			break
		}
	}
	return x, y
}

// SpawnEnemy places and scales an enemy for the given wave
func SpawnEnemy(kind EnemyKind, wave int, rng *rand.Rand, worldW, worldH float64, p *Player) *Enemy {
	x, y := PlaceEnemy(kind, rng, worldW, worldH, p.X, p.Y)
	e := NewEnemy(kind, x, y, rng)
	if kind == Boss {
		e.MaxHP = BossHPBase
	}
	e.ScaleHP(EnemyHPScale(kind, wave))
	return e
}
