package main

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func newTestPlayer() *Player {
	return NewPlayer(500, 500, DefaultTuning().Player)
}

func TestNewPlayer(t *testing.T) {
	p := newTestPlayer()
	if p.HP != 50 || p.MaxHP != 50 {
		t.Errorf("expected HP 50/50, got %f/%f", p.HP, p.MaxHP)
	}
	if p.Radius != 12 || p.Speed != 4.4 || p.Damage != 15 || p.FireRate != 18 {
		t.Errorf("unexpected base stats: %+v", p)
	}
	if p.IsDead {
		t.Error("expected player to be alive")
	}
}

func TestPlayerMovementNormalised(t *testing.T) {
	p := newTestPlayer()
	p.ApplyMovement(Keys{Up: true, Right: true}, DefaultWorldWidth, DefaultWorldHeight)
	moved := Distance(500, 500, p.X, p.Y)
	if math.Abs(moved-4.4) > 1e-9 {
		t.Errorf("diagonal move should cover speed, got %f", moved)
	}
	if !p.IsMoving {
		t.Error("expected IsMoving")
	}
	p.ApplyMovement(Keys{}, DefaultWorldWidth, DefaultWorldHeight)
	if p.IsMoving {
		t.Error("no keys should clear IsMoving")
	}
}

func TestPlayerClampedToWorld(t *testing.T) {
	p := newTestPlayer()
	p.X, p.Y = 13, 13
	for i := 0; i < 10; i++ {
		p.ApplyMovement(Keys{Up: true, Left: true}, DefaultWorldWidth, DefaultWorldHeight)
	}
	if p.X != p.Radius || p.Y != p.Radius {
		t.Errorf("expected clamp at radius, got (%f, %f)", p.X, p.Y)
	}
}

func TestPlayerDashSpeed(t *testing.T) {
	p := newTestPlayer()
	if !p.Dash() {
		t.Fatal("first dash should succeed")
	}
	p.ApplyMovement(Keys{Right: true}, DefaultWorldWidth, DefaultWorldHeight)
	if math.Abs(p.X-(500+4.4*DashSpeedMul)) > 1e-9 {
		t.Errorf("dash should multiply speed, got X=%f", p.X)
	}
	for i := 0; i < DashDuration; i++ {
		p.ApplyMovement(Keys{}, DefaultWorldWidth, DefaultWorldHeight)
	}
	if p.IsDashing {
		t.Error("dash should end after its duration")
	}
}

func TestPlayerDashCooldown(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := newTestPlayer()
		if !p.Dash() {
			t.Fatal("first dash should succeed")
		}
		early := rapid.IntRange(0, DashCooldown-1).Draw(t, "early")
		for i := 0; i < early; i++ {
			p.ApplyMovement(Keys{}, DefaultWorldWidth, DefaultWorldHeight)
		}
		if p.Dash() {
			t.Fatalf("dash after %d ticks should fail", early)
		}
		for i := early; i < DashCooldown; i++ {
			p.ApplyMovement(Keys{}, DefaultWorldWidth, DefaultWorldHeight)
		}
		if !p.Dash() {
			t.Fatal("dash after the full cooldown should succeed")
		}
	})
}

func TestPlayerTakeDamage(t *testing.T) {
	p := newTestPlayer()

	if p.TakeDamage(30) {
		t.Error("should not have died from 30 damage")
	}
	if p.HP != 20 {
		t.Errorf("expected HP 20, got %f", p.HP)
	}
	if !p.TakeDamage(25) {
		t.Error("should have died from 25 more damage")
	}
	if p.HP != -5 {
		t.Errorf("HP may go negative, expected -5, got %f", p.HP)
	}
	if p.TakeDamage(1) {
		t.Error("death should only be reported once")
	}
	p.Heal(100)
	if !p.IsDead {
		t.Error("IsDead must latch")
	}
}

func TestPlayerHealClamped(t *testing.T) {
	p := newTestPlayer()
	p.TakeDamage(10)
	p.Heal(100)
	if p.HP != p.MaxHP {
		t.Errorf("heal should clamp at max, got %f", p.HP)
	}
}

func TestPlayerUpgrade(t *testing.T) {
	p := newTestPlayer()
	p.Upgrade(StatDamage, 2)
	p.Upgrade(StatSpeed, 1)
	p.Upgrade(StatMultiShot, 1)
	p.Upgrade(StatRegen, 5)
	p.TakeDamage(10)
	p.Upgrade(StatMaxHP, 5)
	if p.Damage != 17 || p.Speed != 5.4 || p.MultiShot != 1 || p.Regen != 5 {
		t.Errorf("unexpected stats after upgrade: %+v", p)
	}
	if p.MaxHP != 55 || p.HP != 45 {
		t.Errorf("maxHp upgrade should raise both, got %f/%f", p.HP, p.MaxHP)
	}
	for i := 0; i < 30; i++ {
		p.Upgrade(StatFireRate, 1)
	}
	if p.FireRate != MinFireRate {
		t.Errorf("fire rate should floor at %f, got %f", MinFireRate, p.FireRate)
	}
	p.Upgrade("warp", 1)
}
