package geometry

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCoverRect_WideContentInSquareViewport(t *testing.T) {
	r := CoverRect(Size{W: 800, H: 800}, Size{W: 1000, H: 500})
	if !almost(r.W, 1600) || !almost(r.H, 800) {
		t.Fatalf("expected 1600x800, got %gx%g", r.W, r.H)
	}
	if !almost(r.X, -400) || !almost(r.Y, 0) {
		t.Fatalf("expected offset (-400,0), got (%g,%g)", r.X, r.Y)
	}
}

func TestCoverRect_TallContentCropsVertically(t *testing.T) {
	r := CoverRect(Size{W: 1000, H: 500}, Size{W: 500, H: 1000})
	if !almost(r.W, 1000) || !almost(r.H, 2000) {
		t.Fatalf("expected 1000x2000, got %gx%g", r.W, r.H)
	}
	if !almost(r.X, 0) || !almost(r.Y, -750) {
		t.Fatalf("expected offset (0,-750), got (%g,%g)", r.X, r.Y)
	}
}

func TestCoverRect_UnknownContentFallsBackToViewport(t *testing.T) {
	r := CoverRect(Size{W: 640, H: 480}, Size{})
	if !almost(r.X, 0) || !almost(r.Y, 0) || !almost(r.W, 640) || !almost(r.H, 480) {
		t.Fatalf("degenerate content must yield the full viewport, got %+v", r)
	}
}

func TestFitScale(t *testing.T) {
	if s := FitScale(Size{W: 1920, H: 1080}, Size{W: 960, H: 540}); !almost(s, 2) {
		t.Fatalf("expected 2, got %g", s)
	}
	// Mismatched aspect: cover fit takes the larger ratio.
	if s := FitScale(Size{W: 1000, H: 1000}, Size{W: 2000, H: 500}); !almost(s, 2) {
		t.Fatalf("expected 2, got %g", s)
	}
	if s := FitScale(Size{W: 800, H: 600}, Size{}); !almost(s, 1) {
		t.Fatalf("degenerate GM frame must give identity, got %g", s)
	}
}
