package main

import "math"

const (
	PlayerColor     = "#ff3e3e"
	DashDuration    = 12 // ticks
	DashCooldown    = 60 // ticks
	DashSpeedMul    = 3.5
	MinFireRate     = 5.0
	ArmourHPCeiling = 150.0
)

// Stat names accepted by Player.Upgrade
const (
	StatDamage    = "damage"
	StatSpeed     = "speed"
	StatFireRate  = "fireRate"
	StatMultiShot = "multiShot"
	StatMaxHP     = "maxHp"
	StatRegen     = "regen"
)

// Keys is the directional movement intent for one tick
type Keys struct {
	Up, Down, Left, Right bool
}

// Player is the input-driven avatar
type Player struct {
	X, Y            float64
	Radius          float64
	HP              float64
	MaxHP           float64
	Speed           float64
	Damage          float64
	FireRate        float64 // ticks between shots, floored at MinFireRate
	ProjectileSpeed float64
	MultiShot       int
	Regen           float64
	Color           string

	Cooldown     float64 // attack cooldown, ticks
	IsDashing    bool
	DashTime     int
	DashCooldown int
	IsMoving     bool
	IsDead       bool
}

// NewPlayer creates a player at (x, y) with base stats from the tuning table
func NewPlayer(x, y float64, pt PlayerTuning) *Player {
	return &Player{
		X:               x,
		Y:               y,
		Radius:          pt.Radius,
		HP:              pt.HP,
		MaxHP:           pt.HP,
		Speed:           pt.Speed,
		Damage:          pt.Damage,
		FireRate:        pt.FireRate,
		ProjectileSpeed: pt.ProjectileSpeed,
		Color:           PlayerColor,
	}
}

// ApplyMovement integrates one tick of movement from keys and runs down the
// dash and attack timers. The player is clamped inside the world minus its radius.
func (p *Player) ApplyMovement(keys Keys, worldW, worldH float64) {
	if p.DashCooldown > 0 {
		p.DashCooldown--
	}

	speed := p.Speed
	if p.IsDashing {
		speed *= DashSpeedMul
		p.DashTime--
		if p.DashTime <= 0 {
			p.IsDashing = false
		}
	}

	var dx, dy float64
	if keys.Up {
		dy = -1
	}
	if keys.Down {
		dy = 1
	}
	if keys.Left {
		dx = -1
	}
	if keys.Right {
		dx = 1
	}

	p.IsMoving = dx != 0 || dy != 0
	if p.IsMoving {
		l := math.Hypot(dx, dy)
		p.X += dx / l * speed
		p.Y += dy / l * speed
	}

	p.X = Clamp(p.X, p.Radius, worldW-p.Radius)
	p.Y = Clamp(p.Y, p.Radius, worldH-p.Radius)

	if p.Cooldown > 0 {
		p.Cooldown--
	}
}

// Dash starts a dash if the cooldown has elapsed. On cooldown it is a no-op returning false.
func (p *Player) Dash() bool {
	if p.DashCooldown > 0 {
		return false
	}
	p.IsDashing = true
	p.DashTime = DashDuration
	p.DashCooldown = DashCooldown
	return true
}

// DashReady reports whether Dash would succeed
func (p *Player) DashReady() bool {
	return p.DashCooldown <= 0
}

// TakeDamage reduces HP and returns true if this hit killed the player.
// HP may go negative; IsDead latches.
func (p *Player) TakeDamage(dmg float64) bool {
	p.HP -= dmg
	if p.HP <= 0 && !p.IsDead {
		p.IsDead = true
		return true
	}
	return false
}

// Heal restores HP up to MaxHP
func (p *Player) Heal(amount float64) {
	p.HP = math.Min(p.HP+amount, p.MaxHP)
}

// Upgrade applies a permanent stat change. Unknown stats are ignored.
func (p *Player) Upgrade(stat string, value float64) {
	switch stat {
	case StatFireRate:
		p.FireRate = math.Max(MinFireRate, p.FireRate-value)
	case StatDamage:
		p.Damage += value
	case StatSpeed:
		p.Speed += value
	case StatMultiShot:
		p.MultiShot += int(value)
	case StatMaxHP:
		p.MaxHP += value
		p.HP += value
	case StatRegen:
		p.Regen += value
	}
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		X:      round1(p.X),
		Y:      round1(p.Y),
		HP:     round1(p.HP),
		MaxHP:  round1(p.MaxHP),
		Dash:   p.IsDashing,
		DashCD: p.DashCooldown,
		Moving: p.IsMoving,
		Dead:   p.IsDead,
	}
}
