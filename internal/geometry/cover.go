package geometry

// CoverRect places content inside a viewport so that it fills the viewport
// completely with no letterboxing, preserving aspect ratio and cropping the
// overflow symmetrically on both axes. Unknown or zero content dimensions
// degrade to the full viewport with zero offset, so callers never divide by
// zero while a natural size is still resolving.
func CoverRect(viewport, content Size) Rect {
	if content.W <= 0 || content.H <= 0 {
		return Rect{X: 0, Y: 0, W: viewport.W, H: viewport.H}
	}
	scale := max(viewport.W/content.W, viewport.H/content.H)
	w := content.W * scale
	h := content.H * scale
	return Rect{
		X: (viewport.W - w) / 2,
		Y: (viewport.H - h) / 2,
		W: w,
		H: h,
	}
}

// FitScale is the second stage of player framing: it scales the GM's whole
// frame into the player's window, again as a cover fit (no distortion,
// cropping allowed). Degenerate GM dimensions yield the identity scale.
func FitScale(player, gm Size) float64 {
	if gm.W <= 0 || gm.H <= 0 {
		return 1
	}
	return max(player.W/gm.W, player.H/gm.H)
}
