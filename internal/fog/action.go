package fog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
	ToolFill   Tool = "fill"
	ToolClear  Tool = "clear"
)

type Shape string

const (
	ShapeRound  Shape = "round"
	ShapeSquare Shape = "square"
)

// Action is a single fog-of-war paint operation. Brush and eraser actions
// carry geometry; fill and clear carry none and act as reset boundaries for
// the log. Points is a flat x0,y0,x1,y1,... sequence; when Normalized is set
// the points and size are fractions of the map content rect instead of pixels.
type Action struct {
	Tool       Tool      `json:"tool"`
	Points     []float64 `json:"points,omitempty"`
	Size       float64   `json:"size,omitempty"`
	Shape      Shape     `json:"shape,omitempty"`
	ID         string    `json:"id"`
	Normalized bool      `json:"normalized,omitempty"`
}

func NewBrush(points []float64, size float64, shape Shape) Action {
	return newStroke(ToolBrush, points, size, shape)
}

func NewEraser(points []float64, size float64, shape Shape) Action {
	return newStroke(ToolEraser, points, size, shape)
}

func newStroke(tool Tool, points []float64, size float64, shape Shape) Action {
	if shape == "" {
		shape = ShapeRound
	}
	return Action{
		Tool:       tool,
		Points:     points,
		Size:       size,
		Shape:      shape,
		ID:         uuid.NewString(),
		Normalized: true,
	}
}

func NewFill() Action {
	return Action{Tool: ToolFill, ID: uuid.NewString()}
}

func NewClear() Action {
	return Action{Tool: ToolClear, ID: uuid.NewString()}
}

// IsBoundary reports whether the action resets the effective fog state.
func (a Action) IsBoundary() bool {
	return a.Tool == ToolFill || a.Tool == ToolClear
}

func (a Action) IsStroke() bool {
	return a.Tool == ToolBrush || a.Tool == ToolEraser
}

// PointCount is the number of coordinate pairs carried by the action.
func (a Action) PointCount() int {
	return len(a.Points) / 2
}

var ErrMissingID = errors.New("fog action is missing an id")

// Validate guards the ingestion boundary. Rendering never validates; it
// degrades on missing fields instead.
func (a Action) Validate() error {
	if a.ID == "" {
		return ErrMissingID
	}
	switch a.Tool {
	case ToolBrush, ToolEraser:
		if len(a.Points)%2 != 0 {
			return fmt.Errorf("fog action %s: odd point sequence length %d", a.ID, len(a.Points))
		}
	case ToolFill, ToolClear:
		if len(a.Points) > 0 || a.Size != 0 {
			return fmt.Errorf("fog action %s: boundary %q must not carry geometry", a.ID, a.Tool)
		}
	default:
		return fmt.Errorf("fog action %s: unknown tool %q", a.ID, a.Tool)
	}
	return nil
}
