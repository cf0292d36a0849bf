package main

import "testing"

func TestCameraFollowCentres(t *testing.T) {
	c := NewCamera()
	c.Follow(1250, 1250, DefaultWorldWidth, DefaultWorldHeight)
	if c.X != 850 || c.Y != 950 {
		t.Errorf("expected (850, 950), got (%f, %f)", c.X, c.Y)
	}
}

func TestCameraFollowClamps(t *testing.T) {
	c := NewCamera()
	c.Follow(10, 10, DefaultWorldWidth, DefaultWorldHeight)
	if c.X != 0 || c.Y != 0 {
		t.Errorf("expected clamp at origin, got (%f, %f)", c.X, c.Y)
	}
	c.Follow(2490, 2490, DefaultWorldWidth, DefaultWorldHeight)
	if c.X != 1700 || c.Y != 1900 {
		t.Errorf("expected clamp at far corner, got (%f, %f)", c.X, c.Y)
	}
}

func TestCameraResizeFallback(t *testing.T) {
	c := NewCamera()
	c.Resize(50, 1024)
	if c.Width != DefaultViewWidth || c.Height != 1024 {
		t.Errorf("expected 800x1024, got %fx%f", c.Width, c.Height)
	}
}

func TestCameraContainsInclusive(t *testing.T) {
	c := NewCamera()
	c.Follow(1250, 1250, DefaultWorldWidth, DefaultWorldHeight)
	if !c.Contains(c.X, c.Y) || !c.Contains(c.X+c.Width, c.Y+c.Height) {
		t.Error("edges should be inside the viewport")
	}
	if c.Contains(c.X-0.1, c.Y) {
		t.Error("point left of the viewport should be outside")
	}
}

func TestWorldToScreenAndMinimap(t *testing.T) {
	c := Camera{X: 100, Y: 200, Width: 800, Height: 600}
	sx, sy := c.WorldToScreen(150, 260)
	if sx != 50 || sy != 60 {
		t.Errorf("expected (50, 60), got (%f, %f)", sx, sy)
	}
	mx, my := MinimapPoint(1250, 2500, DefaultWorldWidth, DefaultWorldHeight, 150, 150)
	if mx != 75 || my != 150 {
		t.Errorf("expected (75, 150), got (%f, %f)", mx, my)
	}
	mx, my = MinimapPoint(1250, 1250, DefaultWorldWidth, DefaultWorldHeight, 16, 8)
	if mx != 8 || my != 4 {
		t.Errorf("expected (8, 4), got (%f, %f)", mx, my)
	}
	if mx, my := MinimapPoint(10, 10, 0, 0, 16, 8); mx != 0 || my != 0 {
		t.Errorf("empty world mapped to (%f, %f)", mx, my)
	}
}
