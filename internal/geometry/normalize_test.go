package geometry

import (
	"math"
	"testing"
)

func TestNormalizePoint_RoundTripsThroughCameraAndRect(t *testing.T) {
	cam := Camera{Scale: 2, Position: Vec{X: 120, Y: -40}}
	content := CoverRect(Size{W: 800, H: 600}, Size{W: 1000, H: 500})
	pointer := Vec{X: 333, Y: 218}

	n := NormalizePoint(pointer, cam, content)
	back := cam.ToViewport(DenormalizePoint(n, content))
	if math.Abs(back.X-pointer.X) > 1e-9 || math.Abs(back.Y-pointer.Y) > 1e-9 {
		t.Fatalf("round trip drifted: %v -> %v", pointer, back)
	}
}

func TestNormalizePoint_CenterOfContentIsHalfHalf(t *testing.T) {
	content := CoverRect(Size{W: 800, H: 800}, Size{W: 1000, H: 500})
	center := Vec{X: content.X + content.W/2, Y: content.Y + content.H/2}
	n := NormalizePoint(center, Camera{Scale: 1}, content)
	if math.Abs(n.X-0.5) > 1e-9 || math.Abs(n.Y-0.5) > 1e-9 {
		t.Fatalf("content center must normalize to (0.5,0.5), got %+v", n)
	}
}

// The same normalized point and size must land at the content center with a
// content-proportional radius on any receiver, whatever its viewport.
func TestNormalizedActionKeepsFidelityAcrossViewports(t *testing.T) {
	contentSize := Size{W: 1000, H: 500}
	viewports := []Size{{W: 800, H: 800}, {W: 1920, H: 1080}}

	for _, vp := range viewports {
		rect := CoverRect(vp, contentSize)
		p := DenormalizePoint(Vec{X: 0.5, Y: 0.5}, rect)
		wantX := rect.X + rect.W/2
		wantY := rect.Y + rect.H/2
		if math.Abs(p.X-wantX) > 1e-9 || math.Abs(p.Y-wantY) > 1e-9 {
			t.Fatalf("viewport %+v: stroke center (%g,%g), want content center (%g,%g)", vp, p.X, p.Y, wantX, wantY)
		}
		if size := DenormalizeSize(0.05, rect); math.Abs(size-0.05*rect.W) > 1e-9 {
			t.Fatalf("viewport %+v: stroke size %g, want 5%% of content width %g", vp, size, 0.05*rect.W)
		}
	}
}

func TestNormalizePoint_ZeroRectDegradesToOrigin(t *testing.T) {
	n := NormalizePoint(Vec{X: 50, Y: 50}, Camera{Scale: 1}, Rect{})
	if n.X != 0 || n.Y != 0 {
		t.Fatalf("zero content rect must normalize to origin, got %+v", n)
	}
}

func TestNormalizeSize(t *testing.T) {
	rect := Rect{W: 1600, H: 800}
	if got := NormalizeSize(50, rect); math.Abs(got-0.03125) > 1e-9 {
		t.Fatalf("expected 0.03125, got %g", got)
	}
	if got := NormalizeSize(50, Rect{}); got != 0 {
		t.Fatalf("zero-width rect must normalize size to 0, got %g", got)
	}
}

func TestZoomAt_KeepsPointerAnchoredAndClamps(t *testing.T) {
	cam := Camera{Scale: 1, Position: Vec{X: 10, Y: 20}}
	pointer := Vec{X: 400, Y: 300}
	anchor := cam.ToStage(pointer)

	zoomed := cam.ZoomAt(pointer, 1.1)
	if math.Abs(zoomed.Scale-1.1) > 1e-9 {
		t.Fatalf("expected scale 1.1, got %g", zoomed.Scale)
	}
	after := zoomed.ToStage(pointer)
	if math.Abs(after.X-anchor.X) > 1e-9 || math.Abs(after.Y-anchor.Y) > 1e-9 {
		t.Fatalf("stage point under pointer moved: %v -> %v", anchor, after)
	}

	for range 40 {
		cam = cam.ZoomAt(pointer, 1.5)
	}
	if cam.Scale != MaxScale {
		t.Fatalf("zoom must clamp at %g, got %g", MaxScale, cam.Scale)
	}
	for range 40 {
		cam = cam.ZoomAt(pointer, 1/1.5)
	}
	if cam.Scale != MinScale {
		t.Fatalf("zoom must clamp at %g, got %g", MinScale, cam.Scale)
	}
}

func TestToStage_ZeroScaleIsIdentityGuard(t *testing.T) {
	cam := Camera{Scale: 0, Position: Vec{X: 5, Y: 5}}
	p := cam.ToStage(Vec{X: 15, Y: 25})
	if p.X != 10 || p.Y != 20 {
		t.Fatalf("zero scale must behave as 1, got %+v", p)
	}
}
