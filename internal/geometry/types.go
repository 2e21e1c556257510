package geometry

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	W float64
	H float64
}

type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}
