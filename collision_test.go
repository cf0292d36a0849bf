package main

import (
	"math"
	"testing"
)

func TestOverlapsIsStrict(t *testing.T) {
	if Overlaps(0, 0, 10, 20, 0, 10) {
		t.Error("touching circles should not count as a hit")
	}
	if !Overlaps(0, 0, 10, 19.9, 0, 10) {
		t.Error("overlapping circles should hit")
	}
	if !Overlaps(5, 5, 1, 5, 5, 1) {
		t.Error("same position should hit")
	}
}

func TestDistToSegment(t *testing.T) {
	// Perpendicular foot inside the segment
	if d := DistToSegment(5, 3, 0, 0, 10, 0); math.Abs(d-3) > 1e-9 {
		t.Errorf("expected 3, got %f", d)
	}
	// Past the end clamps to the endpoint
	if d := DistToSegment(13, 4, 0, 0, 10, 0); math.Abs(d-5) > 1e-9 {
		t.Errorf("expected 5, got %f", d)
	}
	// Degenerate segment
	if d := DistToSegment(3, 4, 0, 0, 0, 0); math.Abs(d-5) > 1e-9 {
		t.Errorf("expected 5, got %f", d)
	}
}

func TestCheckBeamHit(t *testing.T) {
	if !CheckBeamHit(500, 19, 0, 0, 10000, 0, 20) {
		t.Error("point 19 units off the ray should be hit")
	}
	if CheckBeamHit(500, 20, 0, 0, 10000, 0, 20) {
		t.Error("point exactly 20 units off the ray should be missed")
	}
}
