package main

// Overlaps is the gameplay hit test: centres strictly closer than the radius sum.
// Touching circles do not collide.
func Overlaps(x1, y1, r1, x2, y2, r2 float64) bool {
	return Distance(x1, y1, x2, y2) < r1+r2
}

// CheckBeamHit reports whether a point lies within width of the segment a-b
func CheckBeamHit(px, py, ax, ay, bx, by, width float64) bool {
	return DistToSegment(px, py, ax, ay, bx, by) < width
}
