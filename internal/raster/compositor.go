package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/fogtable/fogtable/internal/fog"
	"github.com/fogtable/fogtable/internal/geometry"
)

// Options frame one render: the receiver's viewport, the content's natural
// size (zero while media metadata is still loading, which falls back to the
// viewport itself), and whether the output is the GM's authoring view or the
// player's opaque view. InProgress is a transient stroke appended after the
// log's strokes and never persisted.
type Options struct {
	Viewport   geometry.Size
	Content    geometry.Size
	GM         bool
	InProgress *fog.Action
}

const gmOpacity = 0.5

// Mask rasterizes the effective fog coverage of a log into an alpha mask the
// size of the viewport. All strokes share the single mask, which gives the
// isolated-group semantics the composite needs: a brush paints coverage, an
// eraser cuts a hole through the base fill and every earlier brush stroke.
func Mask(l fog.Log, opts Options) *image.Alpha {
	w := int(opts.Viewport.W + 0.5)
	h := int(opts.Viewport.H + 0.5)
	if w <= 0 || h <= 0 {
		return image.NewAlpha(image.Rect(0, 0, 0, 0))
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	rect := geometry.CoverRect(opts.Viewport, opts.Content)

	frame := fog.Render(l)
	if frame.BaseFill {
		fillRect(mask, rect)
	}

	strokes := frame.Strokes
	if opts.InProgress != nil && opts.InProgress.IsStroke() {
		strokes = append(append([]fog.Action{}, strokes...), *opts.InProgress)
	}
	for _, s := range strokes {
		var value uint8
		if s.Tool == fog.ToolBrush {
			value = 0xff
		}
		paintStroke(mask, s, rect, opts.Viewport, value)
	}
	return mask
}

// Overlay composites the fog layer for one frame. The GM sees it at partial
// opacity so the map stays visible while authoring; the player view is solid
// black with no transparency leakage.
func Overlay(l fog.Log, opts Options) *image.RGBA {
	mask := Mask(l, opts)
	b := mask.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			if opts.GM {
				a = uint8(float64(a) * gmOpacity)
			}
			out.SetRGBA(x, y, color.RGBA{A: a})
		}
	}
	return out
}

func fillRect(mask *image.Alpha, r geometry.Rect) {
	b := mask.Bounds()
	x0 := clampInt(int(r.X), b.Min.X, b.Max.X)
	y0 := clampInt(int(r.Y), b.Min.Y, b.Max.Y)
	x1 := clampInt(int(r.X+r.W+0.5), b.Min.X, b.Max.X)
	y1 := clampInt(int(r.Y+r.H+0.5), b.Min.Y, b.Max.Y)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			mask.SetAlpha(x, y, color.Alpha{A: 0xff})
		}
	}
}

// paintStroke stamps the brush along the polyline. Normalized actions place
// points and size against the content rect; legacy pixel actions are scaled
// from the sender's viewport onto the rect, matching the original renderer.
func paintStroke(mask *image.Alpha, a fog.Action, rect geometry.Rect, viewport geometry.Size, value uint8) {
	n := a.PointCount()
	if n == 0 {
		return
	}

	toStage := func(i int) geometry.Vec {
		px, py := a.Points[2*i], a.Points[2*i+1]
		if a.Normalized {
			return geometry.DenormalizePoint(geometry.Vec{X: px, Y: py}, rect)
		}
		if viewport.W > 0 && viewport.H > 0 {
			return geometry.Vec{
				X: rect.X + (px/viewport.W)*rect.W,
				Y: rect.Y + (py/viewport.H)*rect.H,
			}
		}
		return geometry.Vec{X: px, Y: py}
	}

	var width float64
	if a.Normalized {
		width = geometry.DenormalizeSize(a.Size, rect)
	} else {
		size := a.Size
		if size == 0 {
			size = 50
		}
		if viewport.W > 0 {
			width = size * (rect.W / viewport.W)
		} else {
			width = size
		}
	}
	radius := width / 2
	if radius < 0.5 {
		radius = 0.5
	}

	prev := toStage(0)
	stamp(mask, prev, radius, a.Shape, value)
	for i := 1; i < n; i++ {
		cur := toStage(i)
		stampSegment(mask, prev, cur, radius, a.Shape, value)
		prev = cur
	}
}

func stampSegment(mask *image.Alpha, from, to geometry.Vec, radius float64, shape fog.Shape, value uint8) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dist := dx*dx + dy*dy
	step := radius / 2
	if step < 1 {
		step = 1
	}
	steps := 1
	if dist > 0 {
		steps = int(math.Sqrt(dist)/step) + 1
	}
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stamp(mask, geometry.Vec{X: from.X + dx*t, Y: from.Y + dy*t}, radius, shape, value)
	}
}

func stamp(mask *image.Alpha, center geometry.Vec, radius float64, shape fog.Shape, value uint8) {
	b := mask.Bounds()
	x0 := clampInt(int(center.X-radius), b.Min.X, b.Max.X)
	x1 := clampInt(int(center.X+radius+1), b.Min.X, b.Max.X)
	y0 := clampInt(int(center.Y-radius), b.Min.Y, b.Max.Y)
	y1 := clampInt(int(center.Y+radius+1), b.Min.Y, b.Max.Y)
	r2 := radius * radius
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if shape != fog.ShapeSquare {
				ddx := float64(x) + 0.5 - center.X
				ddy := float64(y) + 0.5 - center.Y
				if ddx*ddx+ddy*ddy > r2 {
					continue
				}
			}
			mask.SetAlpha(x, y, color.Alpha{A: value})
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
