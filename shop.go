package main

import (
	"errors"
	"math"
)

var (
	ErrUnknownUpgrade   = errors.New("unknown upgrade")
	ErrUpgradeMaxed     = errors.New("upgrade already maxed")
	ErrInsufficientGold = errors.New("not enough gold")
)

// Upgrade is one purchasable shop entry
type Upgrade struct {
	ID         string
	Name       string
	Desc       string
	Cost       float64
	CostMult   float64
	MaxLevel   int  // 0 = uncapped
	Consumable bool // repeatable, never levels up

	apply func(p *Player)
}

// CostAt is the price at a shop level (levels start at 1)
func (u *Upgrade) CostAt(level int) int {
	return int(math.Floor(u.Cost * math.Pow(u.CostMult, float64(level-1))))
}

// ShopCatalog is the fixed upgrade list in display order
var ShopCatalog = []*Upgrade{
	{ID: "dmg", Name: "Big Calibre", Desc: "+2 damage", Cost: 15, CostMult: 1.6,
		apply: func(p *Player) { p.Upgrade(StatDamage, 2) }},
	{ID: "rate", Name: "Rotary Cannon", Desc: "Faster fire rate", Cost: 25, CostMult: 1.7,
		apply: func(p *Player) { p.Upgrade(StatFireRate, 1) }},
	{ID: "hp", Name: "Armour", Desc: "+5 max HP", Cost: 15, CostMult: 1.15, MaxLevel: 20,
		apply: func(p *Player) {
			if p.MaxHP < ArmourHPCeiling {
				p.Upgrade(StatMaxHP, 5)
			}
		}},
	{ID: "heal", Name: "Med Pack", Desc: "Instant heal (+50 HP)", Cost: 100, CostMult: 1.0, Consumable: true,
		apply: func(p *Player) { p.Heal(50) }},
	{ID: "multi", Name: "Side Cannon", Desc: "Adds a pair of angled guns", Cost: 200, CostMult: 100, MaxLevel: 1,
		apply: func(p *Player) { p.Upgrade(StatMultiShot, 1) }},
}

// shopCatalogMap provides O(1) lookup by upgrade ID
var shopCatalogMap map[string]*Upgrade

func init() {
	shopCatalogMap = make(map[string]*Upgrade, len(ShopCatalog))
	for _, u := range ShopCatalog {
		shopCatalogMap[u.ID] = u
	}
}

// Shop tracks purchased levels for one run
type Shop struct {
	Levels map[string]int
}

// NewShop starts every upgrade at level 1
func NewShop() *Shop {
	s := &Shop{Levels: make(map[string]int, len(ShopCatalog))}
	for _, u := range ShopCatalog {
		s.Levels[u.ID] = 1
	}
	return s
}

func (s *Shop) level(id string) int {
	if l, ok := s.Levels[id]; ok {
		return l
	}
	return 1
}

// Maxed reports whether an upgrade can no longer be bought
func (s *Shop) Maxed(u *Upgrade, p *Player) bool {
	if u.Consumable {
		return false
	}
	if u.ID == "multi" && p.MultiShot >= 1 {
		return true
	}
	return u.MaxLevel > 0 && s.level(u.ID) > u.MaxLevel
}

// Price is the current cost of an upgrade
func (s *Shop) Price(u *Upgrade) int {
	return u.CostAt(s.level(u.ID))
}

// Purchase buys one level of id, debiting gold. It returns the amount charged.
func (s *Shop) Purchase(id string, gold *int, p *Player) (int, error) {
	u, ok := shopCatalogMap[id]
	if !ok {
		return 0, ErrUnknownUpgrade
	}
	if s.Maxed(u, p) {
		return 0, ErrUpgradeMaxed
	}
	cost := s.Price(u)
	if *gold < cost {
		return 0, ErrInsufficientGold
	}
	*gold -= cost
	u.apply(p)
	if !u.Consumable {
		s.Levels[id] = s.level(id) + 1
	}
	return cost, nil
}

// CanAffordAny reports whether at least one upgrade is buyable right now
func (s *Shop) CanAffordAny(gold int, p *Player) bool {
	for _, u := range ShopCatalog {
		if !s.Maxed(u, p) && gold >= s.Price(u) {
			return true
		}
	}
	return false
}

// Offers lists the catalog with current prices for the shop screen
func (s *Shop) Offers(gold int, p *Player) []ShopOffer {
	out := make([]ShopOffer, 0, len(ShopCatalog))
	for _, u := range ShopCatalog {
		maxed := s.Maxed(u, p)
		out = append(out, ShopOffer{
			ID:         u.ID,
			Name:       u.Name,
			Desc:       u.Desc,
			Level:      s.level(u.ID),
			Cost:       s.Price(u),
			Consumable: u.Consumable,
			Maxed:      maxed,
			CanBuy:     !maxed && gold >= s.Price(u),
		})
	}
	return out
}
