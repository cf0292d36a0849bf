package main

import (
	"fmt"
	"math/rand"
)

const (
	FadeRate      = 0.02 // alpha lost per tick by particles and texts
	ParticleSpeed = 5.0
	ParticleSize  = 3.0
	TextRise      = 1.0
	BannerLife    = 100
)

// Particle is a cosmetic spark with no gameplay effect
type Particle struct {
	X, Y   float64
	VX, VY float64
	Size   float64
	Color  string
	Alpha  float64
}

// NewParticle creates a particle with a random velocity in [-speed/2, speed/2) per axis
func NewParticle(rng *rand.Rand, x, y float64, color string, speed, size float64) *Particle {
	return &Particle{
		X:     x,
		Y:     y,
		VX:    (rng.Float64() - 0.5) * speed,
		VY:    (rng.Float64() - 0.5) * speed,
		Size:  size,
		Color: color,
		Alpha: 1,
	}
}

// Update moves and fades the particle
func (p *Particle) Update() {
	p.X += p.VX
	p.Y += p.VY
	p.Alpha -= FadeRate
}

// Alive reports whether the particle is still visible
func (p *Particle) Alive() bool { return p.Alpha > 0 }

func (p *Particle) ToState() ParticleState {
	return ParticleState{X: round1(p.X), Y: round1(p.Y), S: round1(p.Size), C: p.Color, A: round1(p.Alpha)}
}

// FloatingText is a damage number or notice drifting upward
type FloatingText struct {
	X, Y  float64
	Text  string
	Color string
	Alpha float64
}

// NewFloatingText creates a fully opaque text at (x, y)
func NewFloatingText(x, y float64, text, color string) *FloatingText {
	return &FloatingText{X: x, Y: y, Text: text, Color: color, Alpha: 1}
}

// Update drifts the text up and fades it
func (t *FloatingText) Update() {
	t.Y -= TextRise
	t.Alpha -= FadeRate
}

func (t *FloatingText) Alive() bool { return t.Alpha > 0 }

func (t *FloatingText) ToState() TextState {
	return TextState{X: round1(t.X), Y: round1(t.Y), T: t.Text, C: t.Color, A: round1(t.Alpha)}
}

// WaveBanner is the "WAVE n" overlay shown when a wave starts
type WaveBanner struct {
	Wave int
	Text string
	Life int
}

// NewWaveBanner creates a banner for the given wave
func NewWaveBanner(wave int) *WaveBanner {
	return &WaveBanner{Wave: wave, Text: fmt.Sprintf("WAVE %d", wave), Life: BannerLife}
}

// Update burns one tick of life
func (b *WaveBanner) Update() {
	if b.Life > 0 {
		b.Life--
	}
}

func (b *WaveBanner) Alive() bool { return b.Life > 0 }

// Alpha ramps in over the first 10 ticks and out over the last 20,
// scaled to the overlay's 0.4 opacity.
func (b *WaveBanner) Alpha() float64 {
	if b.Life <= 0 {
		return 0
	}
	a := 1.0
	if b.Life > BannerLife-10 {
		a = float64(BannerLife-b.Life) / 10
	} else if b.Life < 20 {
		a = float64(b.Life) / 20
	}
	return a * 0.4
}

// compact filters a slice in place, keeping elements for which keep is true
func compact[T any](s []T, keep func(T) bool) []T {
	out := s[:0]
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	var zero T
	for i := len(out); i < len(s); i++ {
		s[i] = zero
	}
	return out
}
