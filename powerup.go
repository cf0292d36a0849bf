package main

import (
	"math"
	"math/rand"
)

const (
	PowerUpRadius   = 12.0
	PowerUpLifetime = 15.0 // seconds
	PowerUpBobStep  = 0.1
	PowerUpBobAmp   = 3.0
	PowerUpHealHP   = 10.0
)

// PowerUpKind is what a pickup does when collected
type PowerUpKind int

const (
	PowerUpHeal PowerUpKind = iota
	PowerUpRage
	PowerUpCoin
)

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpHeal:
		return "HEAL"
	case PowerUpRage:
		return "RAGE"
	default:
		return "COIN"
	}
}

// PowerUp is a timed collectible dropped by dying enemies
type PowerUp struct {
	ID       string
	X, Y     float64
	Kind     PowerUpKind
	Radius   float64
	Life     float64 // seconds remaining
	BobPhase float64
	Alive    bool
}

// NewPowerUp creates a pickup at (x, y)
func NewPowerUp(x, y float64, kind PowerUpKind) *PowerUp {
	return &PowerUp{
		ID:     GenerateID(4),
		X:      x,
		Y:      y,
		Kind:   kind,
		Radius: PowerUpRadius,
		Life:   PowerUpLifetime,
		Alive:  true,
	}
}

// Update advances the bob and ticks down the lifetime (dt in seconds)
func (p *PowerUp) Update(dt float64) {
	if !p.Alive {
		return
	}
	p.BobPhase += PowerUpBobStep
	p.Life -= dt
	if p.Life <= 0 {
		p.Alive = false
	}
}

// BobOffset is the vertical draw offset for the current phase
func (p *PowerUp) BobOffset() float64 {
	return math.Sin(p.BobPhase) * PowerUpBobAmp
}

// RollDrop decides the kind of a drop. Heal is offered at most once per
// wave; healTaken reports whether this roll consumed it.
func RollDrop(rng *rand.Rand, healDropped bool) (kind PowerUpKind, healTaken bool) {
	if !healDropped && rng.Float64() < HealDropChance {
		return PowerUpHeal, true
	}
	if rng.Float64() < RageDropChance {
		return PowerUpRage, false
	}
	return PowerUpCoin, false
}

// CoinValue is the gold granted by a coin pickup, 1 to 3
func CoinValue(rng *rand.Rand) int {
	return int(math.Floor(RandRange(rng, 1, 4)))
}

func (p *PowerUp) ToState() PowerUpState {
	return PowerUpState{
		ID:   p.ID,
		X:    round1(p.X),
		Y:    round1(p.Y + p.BobOffset()),
		K:    p.Kind.String(),
		Life: round1(p.Life / PowerUpLifetime),
	}
}
