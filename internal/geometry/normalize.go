package geometry

// NormalizePoint maps a raw viewport pointer position to map-content-relative
// coordinates in [0,1]x[0,1]: first through the camera into stage space, then
// relative to the content cover rect. A zero-sized rect normalizes to the
// origin instead of dividing by zero.
func NormalizePoint(pointer Vec, cam Camera, content Rect) Vec {
	stage := cam.ToStage(pointer)
	var n Vec
	if content.W > 0 {
		n.X = (stage.X - content.X) / content.W
	}
	if content.H > 0 {
		n.Y = (stage.Y - content.Y) / content.H
	}
	return n
}

// DenormalizePoint maps a normalized content point back into stage space
// using the receiver's own content rect. Receivers with different viewport
// aspect ratios get different pixel positions but the same position relative
// to the map content; that is the point of normalization.
func DenormalizePoint(n Vec, content Rect) Vec {
	return Vec{
		X: content.X + n.X*content.W,
		Y: content.Y + n.Y*content.H,
	}
}

// NormalizeSize expresses a brush diameter as a fraction of the content rect
// width, so stroke thickness follows the content rather than the viewport.
func NormalizeSize(px float64, content Rect) float64 {
	if content.W <= 0 {
		return 0
	}
	return px / content.W
}

func DenormalizeSize(n float64, content Rect) float64 {
	return n * content.W
}
