package main

// Camera is the viewport offset into the world
type Camera struct {
	X, Y          float64
	Width, Height float64
}

// NewCamera creates a camera with the default viewport
func NewCamera() Camera {
	return Camera{Width: DefaultViewWidth, Height: DefaultViewHeight}
}

// Resize sets the viewport. Degenerate sizes fall back to the default.
func (c *Camera) Resize(w, h float64) {
	if w < MinViewSize {
		w = DefaultViewWidth
	}
	if h < MinViewSize {
		h = DefaultViewHeight
	}
	c.Width, c.Height = w, h
}

// Follow centres the viewport on (x, y), clamped so it never shows outside the world
func (c *Camera) Follow(x, y, worldW, worldH float64) {
	c.X = x - c.Width/2
	c.Y = y - c.Height/2
	c.X = Clamp(c.X, 0, worldW-c.Width)
	c.Y = Clamp(c.Y, 0, worldH-c.Height)
	// viewport wider than the world pins to the origin
	if c.X < 0 {
		c.X = 0
	}
	if c.Y < 0 {
		c.Y = 0
	}
}

// Contains reports whether a world point is inside the viewport, edges included
func (c *Camera) Contains(x, y float64) bool {
	return x >= c.X && x <= c.X+c.Width && y >= c.Y && y <= c.Y+c.Height
}

// WorldToScreen maps a world point into viewport coordinates
func (c *Camera) WorldToScreen(x, y float64) (float64, float64) {
	return x - c.X, y - c.Y
}

// MinimapPoint maps a world point onto a mapW×mapH minimap
func MinimapPoint(x, y, worldW, worldH, mapW, mapH float64) (float64, float64) {
	if worldW <= 0 || worldH <= 0 {
		return 0, 0
	}
	return x / worldW * mapW, y / worldH * mapH
}

func (c *Camera) ToState() CameraState {
	return CameraState{X: round1(c.X), Y: round1(c.Y), W: c.Width, H: c.Height}
}
