package main

import (
	"crypto/rand"
	"encoding/hex"
	"math"
	mrand "math/rand"

	"github.com/google/uuid"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// GenerateUUID returns a random v4 UUID string, used for run/session IDs
func GenerateUUID() string {
	return uuid.NewString()
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// DistToSegment returns the distance from point p to the segment v-w.
// A zero-length segment degrades to point distance.
func DistToSegment(px, py, vx, vy, wx, wy float64) float64 {
	l2 := (wx-vx)*(wx-vx) + (wy-vy)*(wy-vy)
	if l2 == 0 {
		return Distance(px, py, vx, vy)
	}
	t := ((px-vx)*(wx-vx) + (py-vy)*(wy-vy)) / l2
	t = Clamp(t, 0, 1)
	return Distance(px, py, vx+t*(wx-vx), vy+t*(wy-vy))
}

// RandRange returns a float in [min, max)
func RandRange(rng *mrand.Rand, min, max float64) float64 {
	return rng.Float64()*(max-min) + min
}

// round1 rounds to one decimal for compact state frames
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
