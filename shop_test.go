package main

import (
	"errors"
	"testing"
)

func TestUpgradeCostCurve(t *testing.T) {
	dmg := shopCatalogMap["dmg"]
	want := []int{15, 24, 38, 61}
	for i, w := range want {
		if got := dmg.CostAt(i + 1); got != w {
			t.Errorf("dmg level %d: expected %d, got %d", i+1, w, got)
		}
	}
	if got := shopCatalogMap["multi"].CostAt(2); got != 20000 {
		t.Errorf("multi level 2: expected 20000, got %d", got)
	}
}

func TestPurchaseDebitsAndLevels(t *testing.T) {
	s := NewShop()
	p := newTestPlayer()
	gold := 30
	cost, err := s.Purchase("dmg", &gold, p)
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if cost != 15 || gold != 15 {
		t.Errorf("expected cost 15 and 15 gold left, got %d and %d", cost, gold)
	}
	if p.Damage != 17 {
		t.Errorf("expected damage 17, got %f", p.Damage)
	}
	if s.Levels["dmg"] != 2 {
		t.Errorf("expected level 2, got %d", s.Levels["dmg"])
	}
	if _, err := s.Purchase("dmg", &gold, p); !errors.Is(err, ErrInsufficientGold) {
		t.Errorf("expected ErrInsufficientGold, got %v", err)
	}
	if gold != 15 {
		t.Errorf("failed purchase must not charge, got %d gold", gold)
	}
}

func TestPurchaseConsumable(t *testing.T) {
	s := NewShop()
	p := newTestPlayer()
	p.TakeDamage(40)
	gold := 300
	for i := 0; i < 3; i++ {
		if _, err := s.Purchase("heal", &gold, p); err != nil {
			t.Fatalf("heal purchase %d failed: %v", i, err)
		}
	}
	if gold != 0 || s.Levels["heal"] != 1 {
		t.Errorf("consumable should keep level 1 and flat price, gold=%d level=%d", gold, s.Levels["heal"])
	}
	if p.HP != p.MaxHP {
		t.Errorf("expected full hp, got %f", p.HP)
	}
}

func TestPurchaseMultiOnce(t *testing.T) {
	s := NewShop()
	p := newTestPlayer()
	gold := 100000
	if _, err := s.Purchase("multi", &gold, p); err != nil {
		t.Fatalf("first multi purchase failed: %v", err)
	}
	if _, err := s.Purchase("multi", &gold, p); !errors.Is(err, ErrUpgradeMaxed) {
		t.Errorf("expected ErrUpgradeMaxed, got %v", err)
	}
	if p.MultiShot != 1 {
		t.Errorf("expected multiShot 1, got %d", p.MultiShot)
	}
}

func TestPurchaseArmourCap(t *testing.T) {
	s := NewShop()
	p := newTestPlayer()
	gold := 1 << 30
	for i := 0; i < 20; i++ {
		if _, err := s.Purchase("hp", &gold, p); err != nil {
			t.Fatalf("armour purchase %d failed: %v", i+1, err)
		}
	}
	if _, err := s.Purchase("hp", &gold, p); !errors.Is(err, ErrUpgradeMaxed) {
		t.Errorf("21st armour purchase should be maxed, got %v", err)
	}
	if p.MaxHP != ArmourHPCeiling {
		t.Errorf("armour should stop at %f max hp, got %f", ArmourHPCeiling, p.MaxHP)
	}
}

func TestPurchaseUnknown(t *testing.T) {
	s := NewShop()
	gold := 1000
	if _, err := s.Purchase("laser", &gold, newTestPlayer()); !errors.Is(err, ErrUnknownUpgrade) {
		t.Errorf("expected ErrUnknownUpgrade, got %v", err)
	}
	if gold != 1000 {
		t.Error("failed purchase must not charge")
	}
}

func TestCanAffordAny(t *testing.T) {
	s := NewShop()
	p := newTestPlayer()
	if s.CanAffordAny(14, p) {
		t.Error("14 gold buys nothing")
	}
	if !s.CanAffordAny(15, p) {
		t.Error("15 gold buys damage or armour")
	}
	offers := s.Offers(15, p)
	if len(offers) != len(ShopCatalog) || !offers[0].CanBuy || offers[1].CanBuy {
		t.Errorf("unexpected offers: %+v", offers)
	}
}
