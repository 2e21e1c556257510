package geometry

const (
	MinScale = 0.5
	MaxScale = 5.0
)

// Camera is the GM's pan/zoom transform: stage coordinates are scaled by
// Scale and offset by Position to produce viewport pixels.
type Camera struct {
	Scale    float64
	Position Vec
}

func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// ToStage maps a viewport pixel position into stage space. A degenerate
// scale is treated as identity rather than dividing by zero.
func (c Camera) ToStage(p Vec) Vec {
	s := c.Scale
	if s <= 0 {
		s = 1
	}
	return Vec{
		X: (p.X - c.Position.X) / s,
		Y: (p.Y - c.Position.Y) / s,
	}
}

// ToViewport is the inverse of ToStage.
func (c Camera) ToViewport(p Vec) Vec {
	s := c.Scale
	if s <= 0 {
		s = 1
	}
	return Vec{
		X: p.X*s + c.Position.X,
		Y: p.Y*s + c.Position.Y,
	}
}

// ZoomAt rescales the camera toward the given viewport pointer position so
// that the stage point under the pointer stays put. The resulting scale is
// clamped to [MinScale, MaxScale].
func (c Camera) ZoomAt(pointer Vec, factor float64) Camera {
	anchor := c.ToStage(pointer)
	scale := ClampScale(c.Scale * factor)
	return Camera{
		Scale: scale,
		Position: Vec{
			X: pointer.X - anchor.X*scale,
			Y: pointer.Y - anchor.Y*scale,
		},
	}
}
