package main

import "math"

const (
	ProjectileRadius = 4.0

	PlayerShotColor = "#ffaaaa"
	RageShotColor   = "#ffaa00"
	SniperShotColor = "#00ff00"
	BossShotColor   = "#fff"
)

// Projectile is a linear-motion damage carrier owned by one faction
type Projectile struct {
	ID      string
	X, Y    float64
	VX, VY  float64
	Damage  float64
	Radius  float64
	Color   string
	IsEnemy bool
	Alive   bool
}

// NewProjectile creates a projectile heading along angle at speed
func NewProjectile(x, y, angle, damage, speed float64, color string, isEnemy bool) *Projectile {
	return &Projectile{
		ID:      GenerateID(3),
		X:       x,
		Y:       y,
		VX:      math.Cos(angle) * speed,
		VY:      math.Sin(angle) * speed,
		Damage:  damage,
		Radius:  ProjectileRadius,
		Color:   color,
		IsEnemy: isEnemy,
		Alive:   true,
	}
}

// Update moves the projectile one tick and culls it once outside the world
func (p *Projectile) Update(worldW, worldH float64) {
	if !p.Alive {
		return
	}
	p.X += p.VX
	p.Y += p.VY
	if p.X < 0 || p.X > worldW || p.Y < 0 || p.Y > worldH {
		p.Alive = false
	}
}

// ToState converts to protocol state
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID: p.ID,
		X:  round1(p.X),
		Y:  round1(p.Y),
		R:  round1(math.Atan2(p.VY, p.VX)),
		C:  p.Color,
		E:  p.IsEnemy,
	}
}
