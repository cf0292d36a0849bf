package main

import (
	"math"
	"math/rand"
	"strings"
)

// EnemyKind tags one of the eight enemy variants
type EnemyKind int

const (
	Drone EnemyKind = iota
	Scout
	Tank
	Sniper
	Teleporter
	Ghost
	Beam
	Boss
	numEnemyKinds
)

const (
	SniperCooldown   = 120
	SniperMaxRange   = 600.0
	TeleportInterval = 180
	TeleportJitter   = 200.0 // full width of the per-axis jitter
	ScoutWobbleStep  = 0.1
	ScoutWobbleAmp   = 0.5

	BeamIdleTicks   = 150
	BeamChargeTicks = 60
	BeamFireTicks   = 15
	BeamLength      = 10000.0
	BeamWidth       = 20.0
	BeamDamage      = 25.0

	BossSpin         = 0.02
	BossBaseShots    = 8
	BossMaxShots     = 24
	BossShotSpeed    = 5.0
	BossShotDamage   = 15.0
	BossCooldown     = 100
	BossLateCooldown = 85 // from wave 10
)

// EnemySpec is one row of the variant table
type EnemySpec struct {
	Key             string
	Name            string
	Desc            string
	Color           string
	Radius          float64
	HP              float64
	Speed           float64
	Score           int
	Gold            int
	Range           float64
	ProjectileSpeed float64
	ShotDamage      float64
	Phase           bool
}

var enemySpecs = [numEnemyKinds]EnemySpec{
	Drone:      {Key: "drone", Name: "Drone", Desc: "Fast and weak.", Color: "#00f0ff", Radius: 10, HP: 30, Speed: 2.2, Score: 10, Gold: 1},
	Scout:      {Key: "scout", Name: "Scout", Desc: "Very fast, very fragile, never flies straight.", Color: "#ffff00", Radius: 8, HP: 15, Speed: 5.5, Score: 20, Gold: 3},
	Tank:       {Key: "tank", Name: "Tank", Desc: "Slow but very tough.", Color: "#bf00ff", Radius: 18, HP: 160, Speed: 1.32, Score: 50, Gold: 2},
	Sniper:     {Key: "sniper", Name: "Sniper", Desc: "Stops at range and shoots.", Color: "#00ff00", Radius: 12, HP: 40, Speed: 1.65, Score: 30, Gold: 3, Range: 600, ProjectileSpeed: 6.6, ShotDamage: 10},
	Teleporter: {Key: "teleporter", Name: "Wraith", Desc: "Blinks toward you at random.", Color: "#ff00ff", Radius: 10, HP: 40, Speed: 1.1, Score: 40, Gold: 2},
	Ghost:      {Key: "ghost", Name: "Ghost", Desc: "Invulnerable while you move!", Color: "rgba(200, 200, 255, 0.4)", Radius: 12, HP: 60, Speed: 1.65, Score: 60, Gold: 4, Phase: true},
	Beam:       {Key: "beam", Name: "Laser", Desc: "Charges a deadly map-wide beam.", Color: "#ff0000", Radius: 14, HP: 50, Speed: 0.55, Score: 45, Gold: 5},
	Boss:       {Key: "boss", Name: "RSB-01", Desc: "The final boss.", Color: "#ffffff", Radius: 40, HP: 1000, Speed: 0.88, Score: 500, Gold: 50},
}

// legacyKeys maps the uppercase keys older clients send onto variants
var legacyKeys = map[string]EnemyKind{
	"TYPE1": Drone, "TYPE2": Scout, "TYPE3": Tank, "TYPE4": Sniper,
	"TYPE5": Teleporter, "TYPE6": Ghost, "TYPE7": Beam, "BOSS": Boss,
}

// Spec returns the variant table row. Out-of-range kinds read as Drone.
func (k EnemyKind) Spec() EnemySpec {
	if k < 0 || k >= numEnemyKinds {
		return enemySpecs[Drone]
	}
	return enemySpecs[k]
}

func (k EnemyKind) String() string { return k.Spec().Key }

// ParseEnemyKind resolves a variant key. Unknown keys fall back to Drone.
func ParseEnemyKind(key string) EnemyKind {
	if k, ok := legacyKeys[strings.ToUpper(key)]; ok {
		return k
	}
	for i, s := range enemySpecs {
		if strings.EqualFold(s.Key, key) {
			return EnemyKind(i)
		}
	}
	return Drone
}

// BestiaryEntry describes a variant for the monster list
type BestiaryEntry struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Desc  string  `json:"desc"`
	Color string  `json:"color"`
	HP    float64 `json:"hp"`
	Speed float64 `json:"speed"`
}

// Bestiary lists every variant in table order
func Bestiary() []BestiaryEntry {
	out := make([]BestiaryEntry, 0, numEnemyKinds)
	for _, s := range enemySpecs {
		out = append(out, BestiaryEntry{Key: s.Key, Name: s.Name, Desc: s.Desc, Color: s.Color, HP: s.HP, Speed: s.Speed})
	}
	return out
}

// EnemyWorld is what an enemy sees while advancing
type EnemyWorld struct {
	Width, Height float64
	Player        *Player
	Wave          int
	Rng           *rand.Rand
	Fire          func(*Projectile)
}

// brain is the variant-specific half of an enemy. step runs before the shared
// seek and returns false to hold position this tick.
type brain interface {
	step(e *Enemy, w *EnemyWorld, d, angle float64) (move bool, heading float64)
}

// Enemy is a hostile: shared fields plus one variant brain
type Enemy struct {
	ID     string
	Kind   EnemyKind
	X, Y   float64
	Radius float64
	Color  string
	HP     float64
	MaxHP  float64
	Speed  float64
	Score  int
	Gold   int
	Phase  bool
	Dead   bool

	brain brain
}

// NewEnemy creates an enemy of kind at (x, y) with unscaled HP
func NewEnemy(kind EnemyKind, x, y float64, rng *rand.Rand) *Enemy {
	if kind < 0 || kind >= numEnemyKinds {
		kind = Drone
	}
	s := enemySpecs[kind]
	e := &Enemy{
		ID:     GenerateID(4),
		Kind:   kind,
		X:      x,
		Y:      y,
		Radius: s.Radius,
		Color:  s.Color,
		HP:     s.HP,
		MaxHP:  s.HP,
		Speed:  s.Speed,
		Score:  s.Score,
		Gold:   s.Gold,
		Phase:  s.Phase,
	}
	startCD := 100 + rng.Float64()*60
	switch kind {
	case Scout:
		e.brain = &scoutBrain{}
	case Sniper:
		e.brain = &sniperBrain{cooldown: startCD, reach: s.Range, speed: s.ProjectileSpeed, damage: s.ShotDamage}
	case Teleporter:
		e.brain = &teleportBrain{}
	case Beam:
		e.brain = &BeamBrain{}
	case Boss:
		e.brain = &bossBrain{cooldown: startCD}
	default:
		e.brain = seekBrain{}
	}
	return e
}

// ScaleHP multiplies max and current HP, used once at spawn
func (e *Enemy) ScaleHP(mult float64) {
	e.MaxHP *= mult
	e.HP = e.MaxHP
}

// Advance runs one tick of the enemy's behaviour
func (e *Enemy) Advance(w *EnemyWorld) {
	p := w.Player
	d := Distance(e.X, e.Y, p.X, p.Y)
	angle := math.Atan2(p.Y-e.Y, p.X-e.X)

	move, heading := e.brain.step(e, w, d, angle)
	if move {
		e.X += math.Cos(heading) * e.Speed
		e.Y += math.Sin(heading) * e.Speed
	}
	e.X = Clamp(e.X, 0, w.Width)
	e.Y = Clamp(e.Y, 0, w.Height)
}

// Immune reports whether projectile hits are absorbed right now
func (e *Enemy) Immune(playerMoving bool) bool {
	return e.Phase && playerMoving
}

// TakeHit applies projectile damage and returns true the first time HP reaches zero
func (e *Enemy) TakeHit(dmg float64) bool {
	e.HP -= dmg
	if e.HP <= 0 && !e.Dead {
		e.Dead = true
		return true
	}
	return false
}

// Beam exposes the beam state for rendering; ok is false for other variants
func (e *Enemy) Beam() (b *BeamBrain, ok bool) {
	b, ok = e.brain.(*BeamBrain)
	return
}

// BossAngle is the volley rotation; zero for other variants
func (e *Enemy) BossAngle() float64 {
	if b, ok := e.brain.(*bossBrain); ok {
		return b.angle
	}
	return 0
}

func (e *Enemy) ToState(playerMoving bool) EnemyState {
	s := EnemyState{
		ID:     e.ID,
		K:      e.Kind.String(),
		X:      round1(e.X),
		Y:      round1(e.Y),
		R:      e.Radius,
		HP:     round1(math.Max(0, e.HP)),
		MaxHP:  round1(e.MaxHP),
		Immune: e.Immune(playerMoving),
		Angle:  round1(e.BossAngle()),
	}
	if b, ok := e.Beam(); ok && b.State != BeamIdle {
		s.Beam = int(b.State)
		s.TX = round1(b.TargetX)
		s.TY = round1(b.TargetY)
	}
	return s
}

// seekBrain moves straight at the player (Drone, Tank, Ghost)
type seekBrain struct{}

func (seekBrain) step(_ *Enemy, _ *EnemyWorld, _, angle float64) (bool, float64) {
	return true, angle
}

type scoutBrain struct {
	wobble float64
}

func (b *scoutBrain) step(_ *Enemy, _ *EnemyWorld, _, angle float64) (bool, float64) {
	b.wobble += ScoutWobbleStep
	return true, angle + math.Sin(b.wobble)*ScoutWobbleAmp
}

type sniperBrain struct {
	cooldown float64
	reach    float64
	speed    float64
	damage   float64
}

func (b *sniperBrain) step(e *Enemy, w *EnemyWorld, d, angle float64) (bool, float64) {
	move := true
	if d < b.reach && d < SniperMaxRange {
		move = false
		if b.cooldown <= 0 {
			w.Fire(NewProjectile(e.X, e.Y, angle, b.damage, b.speed, SniperShotColor, true))
			b.cooldown = SniperCooldown
		}
	}
	b.cooldown--
	return move, angle
}

type teleportBrain struct {
	timer int
}

func (b *teleportBrain) step(e *Enemy, w *EnemyWorld, _, angle float64) (bool, float64) {
	b.timer++
	if b.timer > TeleportInterval {
		p := w.Player
		e.X = (e.X+p.X)/2 + (w.Rng.Float64()-0.5)*TeleportJitter
		e.Y = (e.Y+p.Y)/2 + (w.Rng.Float64()-0.5)*TeleportJitter
		b.timer = 0
	}
	return false, angle
}

// BeamState is the laser charge cycle
type BeamState int

const (
	BeamIdle BeamState = iota
	BeamCharging
	BeamFiring
)

// BeamBrain holds the laser cycle and the ray locked at charge start
type BeamBrain struct {
	State            BeamState
	Timer            int
	TargetX, TargetY float64
}

func (b *BeamBrain) step(e *Enemy, w *EnemyWorld, _, angle float64) (bool, float64) {
	p := w.Player
	b.Timer++
	switch b.State {
	case BeamIdle:
		if b.Timer > BeamIdleTicks {
			b.State = BeamCharging
			b.Timer = 0
			b.TargetX = e.X + math.Cos(angle)*BeamLength
			b.TargetY = e.Y + math.Sin(angle)*BeamLength
		}
	case BeamCharging:
		if b.Timer > BeamChargeTicks {
			b.State = BeamFiring
			b.Timer = 0
			if CheckBeamHit(p.X, p.Y, e.X, e.Y, b.TargetX, b.TargetY, BeamWidth) {
				p.TakeDamage(BeamDamage)
			}
		}
	case BeamFiring:
		if b.Timer > BeamFireTicks {
			b.State = BeamIdle
			b.Timer = 0
		}
	}
	return false, angle
}

type bossBrain struct {
	cooldown float64
	angle    float64
}

// BossShots is the volley size for a wave
func BossShots(wave int) int {
	return min(BossMaxShots, BossBaseShots+wave/10)
}

func (b *bossBrain) step(e *Enemy, w *EnemyWorld, _, angle float64) (bool, float64) {
	b.cooldown--
	b.angle += BossSpin
	if b.cooldown <= 0 {
		shots := BossShots(w.Wave)
		for i := 0; i < shots; i++ {
			a := b.angle + 2*math.Pi*float64(i)/float64(shots)
			w.Fire(NewProjectile(e.X, e.Y, a, BossShotDamage, BossShotSpeed, BossShotColor, true))
		}
		b.cooldown = BossCooldown
		if w.Wave >= 10 {
			b.cooldown = BossLateCooldown
		}
	}
	return true, angle
}
