package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Phase is the run state machine
type Phase int

const (
	PhaseLogin Phase = iota
	PhaseMenu
	PhasePlaying
	PhaseShop
	PhasePaused
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLogin:
		return "LOGIN"
	case PhaseMenu:
		return "MENU"
	case PhasePlaying:
		return "PLAYING"
	case PhaseShop:
		return "SHOP"
	case PhasePaused:
		return "PAUSED"
	case PhaseGameOver:
		return "GAMEOVER"
	}
	return "UNKNOWN"
}

var (
	ErrShopClosed = errors.New("shop is closed")
)

const (
	deathParticles = 10
	hitParticles   = 2
	hurtParticles  = 3
)

// Game owns one run: every entity, the wave machine, the economy and the
// camera. It is not safe for concurrent use; Session serialises access.
type Game struct {
	tuning Tuning
	rng    *rand.Rand
	audio  AudioSink

	phase Phase
	epoch uint64
	tick  uint64

	player      *Player
	enemies     []*Enemy
	projectiles []*Projectile
	powerups    []*PowerUp
	particles   []*Particle
	texts       []*FloatingText
	banner      *WaveBanner
	camera      Camera
	keys        Keys
	shop        *Shop

	grid   *SpatialGrid
	hitBuf []EntityRef
	world  EnemyWorld

	wave           int
	waveTimer      int
	enemiesSpawned int
	enemiesToSpawn int

	gold      int
	kills     int
	waveKills int
	xp        int
	level     int
	xpToNext  int
	rageTimer int
	scoreTime float64

	healDroppedInWave bool
	hasDashed         bool
	scoreSaved        bool
	forcedShop        bool
	restartIn         int

	events []Event
}

// NewGame creates a game waiting at the login screen
func NewGame(t Tuning, rng *rand.Rand, audio AudioSink) *Game {
	t.Validate()
	if audio == nil {
		audio = NopAudio{}
	}
	g := &Game{
		tuning:   t,
		rng:      rng,
		audio:    audio,
		phase:    PhaseLogin,
		camera:   NewCamera(),
		shop:     NewShop(),
		grid:     NewSpatialGrid(t.WorldWidth, t.WorldHeight),
		wave:     1,
		level:    1,
		xpToNext: StartXPToNext,
	}
	g.world = EnemyWorld{
		Width:  t.WorldWidth,
		Height: t.WorldHeight,
		Rng:    rng,
		Fire:   func(p *Projectile) { g.projectiles = append(g.projectiles, p) },
	}
	return g
}

func (g *Game) Phase() Phase     { return g.phase }
func (g *Game) Epoch() uint64    { return g.epoch }
func (g *Game) Player() *Player  { return g.player }
func (g *Game) Wave() int        { return g.wave }
func (g *Game) Kills() int       { return g.kills }
func (g *Game) Gold() int        { return g.gold }
func (g *Game) Tuning() Tuning   { return g.tuning }
func (g *Game) Camera() Camera   { return g.camera }
func (g *Game) RestartIn() int   { return g.restartIn }

func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}

// DrainEvents returns the events emitted since the last call
func (g *Game) DrainEvents() []Event {
	ev := g.events
	g.events = nil
	return ev
}

func (g *Game) setPhase(p Phase) {
	if g.phase == p {
		return
	}
	g.phase = p
	g.emit(Event{Kind: EventStateChanged, Phase: p.String(), Wave: g.wave})
}

// SetKeys replaces the held movement keys
func (g *Game) SetKeys(k Keys) {
	g.keys = k
}

// Resize sets the viewport size used for camera and auto-targeting
func (g *Game) Resize(w, h float64) {
	g.camera.Resize(w, h)
	if g.player != nil {
		g.camera.Follow(g.player.X, g.player.Y, g.tuning.WorldWidth, g.tuning.WorldHeight)
	}
}

// EnterMenu leaves the login screen
func (g *Game) EnterMenu() bool {
	if g.phase != PhaseLogin {
		return false
	}
	g.setPhase(PhaseMenu)
	return true
}

// Start begins play from the menu. A missing or dead player gets a fresh run.
func (g *Game) Start() bool {
	if g.phase != PhaseMenu {
		return false
	}
	if g.player == nil || g.player.IsDead {
		g.Reset()
		return true
	}
	g.startWave()
	return true
}

// Reset discards the run and starts a new one at wave 1. The epoch bump
// invalidates any backend result still in flight for the old run.
func (g *Game) Reset() {
	g.epoch++
	t := g.tuning
	g.player = NewPlayer(t.WorldWidth/2, t.WorldHeight/2, t.Player)
	g.enemies = nil
	g.projectiles = nil
	g.powerups = nil
	g.particles = nil
	g.texts = nil
	g.banner = nil
	g.keys = Keys{}
	g.shop = NewShop()

	g.gold = 0
	g.kills = 0
	g.waveKills = 0
	g.scoreTime = 0
	g.rageTimer = 0
	g.hasDashed = false
	g.healDroppedInWave = false
	g.scoreSaved = false
	g.forcedShop = false
	g.restartIn = 0

	g.xp = 0
	g.level = 1
	g.xpToNext = StartXPToNext
	g.wave = 1

	g.camera.Follow(g.player.X, g.player.Y, t.WorldWidth, t.WorldHeight)
	g.startWave()
}

func (g *Game) startWave() {
	g.enemiesSpawned = 0
	g.enemiesToSpawn = WaveTarget(g.tuning.Wave, g.wave)
	g.waveKills = 0
	g.waveTimer = 0
	g.banner = NewWaveBanner(g.wave)
	g.setPhase(PhasePlaying)
	g.emit(Event{Kind: EventWaveStarted, Wave: g.wave})
	g.audio.Play(CueAmbience)
}

// RequestRestart arms the restart countdown from the game-over screen
func (g *Game) RequestRestart() bool {
	if g.phase != PhaseGameOver || g.restartIn > 0 {
		return false
	}
	g.restartIn = RestartDelay
	return true
}

// ToggleShop opens the shop during play or closes it
func (g *Game) ToggleShop() bool {
	switch g.phase {
	case PhasePlaying:
		g.setPhase(PhaseShop)
		g.audio.Play(CueClick)
		return true
	case PhaseShop:
		return g.CloseShop()
	}
	return false
}

// CloseShop returns to play. Leaving the mandatory post-boss shop starts the next wave's banner.
func (g *Game) CloseShop() bool {
	if g.phase != PhaseShop {
		return false
	}
	g.setPhase(PhasePlaying)
	if g.forcedShop {
		g.forcedShop = false
		g.banner = NewWaveBanner(g.wave)
		g.emit(Event{Kind: EventWaveStarted, Wave: g.wave})
	}
	return true
}

// Pause freezes the simulation behind a modal
func (g *Game) Pause() bool {
	switch g.phase {
	case PhasePlaying, PhaseMenu, PhaseGameOver:
		g.setPhase(PhasePaused)
		return true
	}
	return false
}

// Resume closes the modal: back to play if the player is alive, else the menu
func (g *Game) Resume() bool {
	if g.phase != PhasePaused {
		return false
	}
	if g.player != nil && !g.player.IsDead {
		g.setPhase(PhasePlaying)
	} else {
		g.setPhase(PhaseMenu)
	}
	return true
}

// Dash triggers the player's dash during play
func (g *Game) Dash() bool {
	if g.phase != PhasePlaying || g.player == nil {
		return false
	}
	if !g.player.Dash() {
		return false
	}
	g.hasDashed = true
	return true
}

// Buy purchases an upgrade while the shop is open
func (g *Game) Buy(id string) (int, error) {
	if g.phase != PhaseShop || g.player == nil {
		return 0, ErrShopClosed
	}
	cost, err := g.shop.Purchase(id, &g.gold, g.player)
	if err != nil {
		return 0, err
	}
	g.emit(Event{Kind: EventPurchased, Label: id, Value: cost, Wave: g.wave})
	g.audio.Play(CueClick)
	if id == "heal" {
		g.audio.Play(CueHeal)
	}
	return cost, nil
}

// Update runs one fixed tick
func (g *Game) Update() {
	g.tick++
	switch g.phase {
	case PhaseGameOver:
		g.updateEffects()
		if g.restartIn > 0 {
			g.restartIn--
			if g.restartIn == 0 {
				g.Reset()
			}
		}
		return
	case PhasePlaying:
	default:
		return
	}
	if g.player == nil {
		return
	}
	t := g.tuning

	g.scoreTime += TickDT
	if g.rageTimer > 0 {
		g.rageTimer--
	}
	if g.banner != nil {
		g.banner.Update()
		if !g.banner.Alive() {
			g.banner = nil
		}
	}

	g.waveTimer++
	if g.waveTimer > t.Wave.SpawnInterval && g.enemiesSpawned < g.enemiesToSpawn {
		g.spawnNext()
		g.enemiesSpawned++
		g.waveTimer = 0
	}

	if g.enemiesSpawned >= g.enemiesToSpawn && len(g.enemies) == 0 {
		if g.clearWave() {
			return
		}
	}

	g.player.ApplyMovement(g.keys, t.WorldWidth, t.WorldHeight)
	g.camera.Follow(g.player.X, g.player.Y, t.WorldWidth, t.WorldHeight)
	g.shoot()
	g.updatePowerups()
	g.updateProjectiles()
	g.updateEnemies()
	g.updateEffects()

	if g.player.IsDead {
		g.endRun()
	}
}

func (g *Game) bossAlive() bool {
	for _, e := range g.enemies {
		if e.Kind == Boss && !e.Dead {
			return true
		}
	}
	return false
}

func (g *Game) spawnNext() {
	t := g.tuning
	if g.wave%10 == 0 && g.enemiesSpawned == 0 && !g.bossAlive() {
		g.enemies = append(g.enemies, SpawnEnemy(Boss, g.wave, g.rng, t.WorldWidth, t.WorldHeight, g.player))
		g.enemiesToSpawn = 1
		g.spawnText(g.player.X, g.player.Y-100, "⚠️ BOSS ⚠️", "#ff0000")
		g.emit(Event{Kind: EventBossSpawned, Wave: g.wave})
		return
	}
	kind := RollEnemyKind(g.wave, g.rng.Float64())
	g.enemies = append(g.enemies, SpawnEnemy(kind, g.wave, g.rng, t.WorldWidth, t.WorldHeight, g.player))
}

// clearWave advances to the next wave. It returns true when a boss wave
// ended and the tick must stop at the mandatory shop.
func (g *Game) clearWave() bool {
	cleared := g.wave
	boss := cleared%10 == 0

	g.wave++
	g.healDroppedInWave = false
	g.enemiesSpawned = 0
	g.waveKills = 0
	g.enemiesToSpawn = WaveTarget(g.tuning.Wave, g.wave)
	g.waveTimer = 0
	g.emit(Event{Kind: EventWaveCleared, Wave: cleared})

	if boss {
		if g.player.Regen > 0 {
			g.player.Heal(g.player.Regen)
		}
		g.forcedShop = true
		g.setPhase(PhaseShop)
		return true
	}

	g.banner = NewWaveBanner(g.wave)
	g.emit(Event{Kind: EventWaveStarted, Wave: g.wave})
	if g.player.Regen > 0 {
		g.player.Heal(g.player.Regen * 0.2)
	}
	return false
}

// shoot fires at the nearest on-screen enemy within TargetRange
func (g *Game) shoot() {
	p := g.player
	if p.Cooldown > 0 {
		return
	}
	var target *Enemy
	minD := math.Inf(1)
	for _, e := range g.enemies {
		if e.Dead || !g.camera.Contains(e.X, e.Y) {
			continue
		}
		if d := Distance(p.X, p.Y, e.X, e.Y); d < minD {
			minD = d
			target = e
		}
	}
	if target == nil || minD >= TargetRange {
		return
	}

	angle := math.Atan2(target.Y-p.Y, target.X-p.X)
	speed := p.ProjectileSpeed
	color := PlayerShotColor
	rate := p.FireRate
	if g.rageTimer > 0 {
		speed = RageProjSpeed
		color = RageShotColor
		rate /= 2
	}
	g.projectiles = append(g.projectiles, NewProjectile(p.X, p.Y, angle, p.Damage, speed, color, false))
	for i := 1; i <= p.MultiShot; i++ {
		spread := MultiShotSpread * float64(i)
		dmg := p.Damage * MultiShotMul
		g.projectiles = append(g.projectiles,
			NewProjectile(p.X, p.Y, angle-spread, dmg, speed, color, false),
			NewProjectile(p.X, p.Y, angle+spread, dmg, speed, color, false))
	}
	p.Cooldown = rate
	g.audio.Play(CueShoot)
}

// updatePowerups ages pickups and collects the ones the player touches, in
// collection order
func (g *Game) updatePowerups() {
	p := g.player
	g.grid.Clear()
	for i, pu := range g.powerups {
		pu.Update(TickDT)
		if pu.Alive {
			g.grid.Insert(pu.X, pu.Y, EntityRef{Kind: 'p', Idx: i})
		}
	}
	var near []int
	for _, ref := range g.grid.Query(p.X, p.Y, p.Radius+PowerUpRadius) {
		if ref.Kind == 'p' {
			near = append(near, ref.Idx)
		}
	}
	sort.Ints(near)
	for _, i := range near {
		pu := g.powerups[i]
		if Overlaps(p.X, p.Y, p.Radius, pu.X, pu.Y, pu.Radius) {
			g.collect(pu)
			pu.Alive = false
		}
	}
	g.powerups = compact(g.powerups, func(pu *PowerUp) bool { return pu.Alive })
}

func (g *Game) collect(pu *PowerUp) {
	p := g.player
	switch pu.Kind {
	case PowerUpHeal:
		p.Heal(PowerUpHealHP)
		g.spawnText(p.X, p.Y, "+10 HP", "#00ff00")
		g.audio.Play(CueHeal)
	case PowerUpRage:
		g.rageTimer = RageDuration
		g.spawnText(p.X, p.Y, "RAGE MODE!", "#ff9900")
	case PowerUpCoin:
		v := CoinValue(g.rng)
		g.gold += v
		g.spawnText(p.X, p.Y, fmt.Sprintf("+%d GOLD", v), "#ffd700")
	}
	g.emit(Event{Kind: EventPowerupCollected, Label: pu.Kind.String(), Wave: g.wave})
}

// updateProjectiles moves every projectile and resolves hits. Enemies are
// binned once per tick; they do not move until the enemy pass.
func (g *Game) updateProjectiles() {
	t := g.tuning
	p := g.player

	g.grid.Clear()
	for i, e := range g.enemies {
		g.grid.InsertCircle(e.X, e.Y, e.Radius, EntityRef{Kind: 'e', Idx: i})
	}

	for i := len(g.projectiles) - 1; i >= 0; i-- {
		pr := g.projectiles[i]
		pr.Update(t.WorldWidth, t.WorldHeight)
		if !pr.Alive {
			continue
		}
		if pr.IsEnemy {
			if Overlaps(pr.X, pr.Y, pr.Radius, p.X, p.Y, p.Radius) {
				p.TakeDamage(pr.Damage)
				g.spawnText(p.X, p.Y-20, fmt.Sprintf("-%d", int(math.Round(pr.Damage))), "#ff0000")
				g.spawnParticles(p.X, p.Y, "#ff0000", hurtParticles)
				pr.Alive = false
			}
			continue
		}

		var idx int
		idx, g.hitBuf = g.grid.FirstHit(pr.X, pr.Y, pr.Radius, 'e', g.hitBuf, func(j int) bool {
			e := g.enemies[j]
			return Overlaps(pr.X, pr.Y, pr.Radius, e.X, e.Y, e.Radius)
		})
		if idx < 0 {
			continue
		}
		e := g.enemies[idx]
		pr.Alive = false
		if e.Immune(p.IsMoving) {
			continue
		}
		g.spawnParticles(e.X, e.Y, e.Color, hitParticles)
		if e.TakeHit(pr.Damage) {
			g.onEnemyKilled(e)
		}
	}
	g.projectiles = compact(g.projectiles, func(pr *Projectile) bool { return pr.Alive })
}

// onEnemyKilled grants XP and rolls the drop; gold waits for the cleanup pass
func (g *Game) onEnemyKilled(e *Enemy) {
	if g.rng.Float64() < DropChance {
		kind, healTaken := RollDrop(g.rng, g.healDroppedInWave)
		if healTaken {
			g.healDroppedInWave = true
		}
		g.powerups = append(g.powerups, NewPowerUp(e.X, e.Y, kind))
	}
	g.gainXP(e.Score)
	g.emit(Event{Kind: EventEnemyKilled, Label: e.Kind.String(), Value: e.Gold, Wave: g.wave})
	g.audio.Play(CueEnemyDeath)
}

func (g *Game) gainXP(amount int) {
	g.xp += amount
	if g.xp >= g.xpToNext {
		g.xp -= g.xpToNext
		g.level++
		g.xpToNext = int(math.Floor(float64(g.xpToNext) * XPGrowth))
		g.spawnText(g.player.X, g.player.Y-50, "LEVEL UP!", "#00f0ff")
		g.emit(Event{Kind: EventLevelUp, Value: g.level, Wave: g.wave})
	}
}

// updateEnemies removes last tick's corpses, then advances the living and
// applies contact damage. A corpse deals no damage.
func (g *Game) updateEnemies() {
	p := g.player
	g.world.Player = p
	g.world.Wave = g.wave
	for i := len(g.enemies) - 1; i >= 0; i-- {
		e := g.enemies[i]
		if e.Dead {
			g.gold += e.Gold
			g.kills++
			g.waveKills++
			g.spawnParticles(e.X, e.Y, e.Color, deathParticles)
			continue
		}
		e.Advance(&g.world)
		if Overlaps(e.X, e.Y, e.Radius, p.X, p.Y, p.Radius) {
			p.TakeDamage(ContactDamage)
		}
	}
	g.enemies = compact(g.enemies, func(e *Enemy) bool { return !e.Dead })
}

func (g *Game) updateEffects() {
	for _, pt := range g.particles {
		pt.Update()
	}
	g.particles = compact(g.particles, (*Particle).Alive)
	for _, ft := range g.texts {
		ft.Update()
	}
	g.texts = compact(g.texts, (*FloatingText).Alive)
}

func (g *Game) endRun() {
	g.setPhase(PhaseGameOver)
	if !g.scoreSaved {
		g.scoreSaved = true
		g.emit(Event{Kind: EventPlayerDied, Wave: g.wave, Value: g.kills})
	}
}

// Abort ends the run immediately, used when a tick failed
func (g *Game) Abort() {
	if g.player != nil && !g.player.IsDead {
		g.player.IsDead = true
	}
	if g.phase == PhasePlaying || g.phase == PhaseShop || g.phase == PhasePaused {
		g.endRun()
	}
}

func (g *Game) spawnParticles(x, y float64, color string, n int) {
	for i := 0; i < n; i++ {
		g.particles = append(g.particles, NewParticle(g.rng, x, y, color, ParticleSpeed, g.rng.Float64()*ParticleSize))
	}
}

func (g *Game) spawnText(x, y float64, text, color string) {
	g.texts = append(g.texts, NewFloatingText(x, y, text, color))
}

// Snapshot is the wire and HUD view of the current tick
func (g *Game) Snapshot() *Frame {
	f := &Frame{
		Tick:        g.tick,
		Epoch:       g.epoch,
		Phase:       g.phase.String(),
		Enemies:     make([]EnemyState, 0, len(g.enemies)),
		Projectiles: make([]ProjectileState, 0, len(g.projectiles)),
		PowerUps:    make([]PowerUpState, 0, len(g.powerups)),
		Particles:   make([]ParticleState, 0, len(g.particles)),
		Texts:       make([]TextState, 0, len(g.texts)),
		Camera:      g.camera.ToState(),
		WorldW:      g.tuning.WorldWidth,
		WorldH:      g.tuning.WorldHeight,
		HUD: HUDState{
			Wave:      g.wave,
			WaveKills: g.waveKills,
			Kills:     g.kills,
			ToSpawn:   g.enemiesToSpawn,
			Gold:      g.gold,
			Level:     g.level,
			XPPct:     round1(math.Min(100, float64(g.xp)/float64(g.xpToNext)*100)),
			RagePct:   round1(float64(g.rageTimer) / RageDuration * 100),
			HasDashed: g.hasDashed,
			Restart:   (g.restartIn + TickRate - 1) / TickRate,
		},
	}
	moving := false
	if g.player != nil {
		ps := g.player.ToState()
		f.Player = &ps
		moving = g.player.IsMoving
		f.HUD.DashReady = g.player.DashReady()
		f.HUD.CanBuy = g.shop.CanAffordAny(g.gold, g.player)
	}
	for _, e := range g.enemies {
		f.Enemies = append(f.Enemies, e.ToState(moving))
	}
	for _, p := range g.projectiles {
		f.Projectiles = append(f.Projectiles, p.ToState())
	}
	for _, p := range g.powerups {
		f.PowerUps = append(f.PowerUps, p.ToState())
	}
	for _, p := range g.particles {
		f.Particles = append(f.Particles, p.ToState())
	}
	for _, t := range g.texts {
		f.Texts = append(f.Texts, t.ToState())
	}
	if g.banner != nil && g.banner.Alive() {
		f.Banner = &BannerState{Text: g.banner.Text, Alpha: round1(g.banner.Alpha())}
	}
	return f
}

// Offers is the shop screen listing for the current gold
func (g *Game) Offers() []ShopOffer {
	if g.player == nil {
		return nil
	}
	return g.shop.Offers(g.gold, g.player)
}
