package main

const (
	TickRate      = 60
	BroadcastRate = 30
	TickDT        = 1.0 / TickRate

	DefaultWorldWidth  = 2500.0
	DefaultWorldHeight = 2500.0
	MaxWorldSize       = 20000.0 // larger worlds fall back to the default

	DefaultViewWidth  = 800.0
	DefaultViewHeight = 600.0
	MinViewSize       = 100.0

	TargetRange     = 600.0 // player auto-aim reach
	MultiShotMul    = 0.7
	MultiShotSpread = 0.3 // radians per pair
	RageDuration    = 600 // ticks
	RageProjSpeed   = 18.0
	ContactDamage   = 1.0
	DropChance      = 0.05
	HealDropChance  = 0.3
	RageDropChance  = 0.3

	StartXPToNext = 100
	XPGrowth      = 1.2

	RestartDelay = 3 * TickRate // ticks between restart request and reset
)

// Tuning holds the numbers a deployment may override from arena.toml
type Tuning struct {
	WorldWidth  float64 `toml:"world_width"`
	WorldHeight float64 `toml:"world_height"`

	Wave WaveTuning `toml:"wave"`

	Player PlayerTuning `toml:"player"`
}

// WaveTuning controls the wave spawner
type WaveTuning struct {
	BaseCount            int     `toml:"base_count"`
	SpawnInterval        int     `toml:"spawn_interval"`
	DifficultyMultiplier float64 `toml:"difficulty_multiplier"`
}

// PlayerTuning holds the base stats of a fresh player
type PlayerTuning struct {
	Radius          float64 `toml:"radius"`
	HP              float64 `toml:"hp"`
	Speed           float64 `toml:"speed"`
	Damage          float64 `toml:"damage"`
	FireRate        float64 `toml:"fire_rate"`
	ProjectileSpeed float64 `toml:"projectile_speed"`
}

// DefaultTuning returns the stock arena numbers
func DefaultTuning() Tuning {
	return Tuning{
		WorldWidth:  DefaultWorldWidth,
		WorldHeight: DefaultWorldHeight,
		Wave: WaveTuning{
			BaseCount:            15,
			SpawnInterval:        50,
			DifficultyMultiplier: 1.07,
		},
		Player: PlayerTuning{
			Radius:          12,
			HP:              50,
			Speed:           4.4,
			Damage:          15,
			FireRate:        18,
			ProjectileSpeed: 13.2,
		},
	}
}

// Validate replaces nonsensical values with defaults so a bad config file
// degrades instead of breaking the simulation.
func (t *Tuning) Validate() {
	d := DefaultTuning()
	if t.WorldWidth <= 0 || t.WorldWidth > MaxWorldSize {
		t.WorldWidth = d.WorldWidth
	}
	if t.WorldHeight <= 0 || t.WorldHeight > MaxWorldSize {
		t.WorldHeight = d.WorldHeight
	}
	if t.Wave.BaseCount <= 0 {
		t.Wave.BaseCount = d.Wave.BaseCount
	}
	if t.Wave.SpawnInterval < 0 {
		t.Wave.SpawnInterval = d.Wave.SpawnInterval
	}
	if t.Wave.DifficultyMultiplier < 1 {
		t.Wave.DifficultyMultiplier = d.Wave.DifficultyMultiplier
	}
	p := &t.Player
	if p.Radius <= 0 {
		p.Radius = d.Player.Radius
	}
	if p.HP <= 0 {
		p.HP = d.Player.HP
	}
	if p.Speed <= 0 {
		p.Speed = d.Player.Speed
	}
	if p.Damage <= 0 {
		p.Damage = d.Player.Damage
	}
	if p.FireRate < MinFireRate {
		p.FireRate = MinFireRate
	}
	if p.ProjectileSpeed <= 0 {
		p.ProjectileSpeed = d.Player.ProjectileSpeed
	}
}
