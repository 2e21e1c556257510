package fog

// Log is the ordered fog action history of one map, append-only from the
// GM's point of view.
type Log []Action

// Append returns a new log with the action added; the input log is not
// mutated.
func Append(l Log, a Action) Log {
	out := make(Log, len(l), len(l)+1)
	copy(out, l)
	return append(out, a)
}

// Frame is the effective fog state of a log: an optional full-coverage base
// fill followed by the strokes painted since the last boundary, in order.
type Frame struct {
	BaseFill bool
	Strokes  []Action
}

// boundaryIndex returns the index of the most recent fill/clear action, or
// -1 when the log has no boundary.
func boundaryIndex(l Log) int {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].IsBoundary() {
			return i
		}
	}
	return -1
}

// Render reduces a log to its effective fog state. Only the suffix starting
// at the most recent fill/clear matters: fill seeds an opaque layer, clear an
// empty one, and everything before that boundary is dead history. An empty
// log renders fully clear. Render never fails; malformed actions degrade to
// empty strokes.
func Render(l Log) Frame {
	b := boundaryIndex(l)
	frame := Frame{BaseFill: b >= 0 && l[b].Tool == ToolFill}
	for _, a := range l[b+1:] {
		if a.IsStroke() {
			frame.Strokes = append(frame.Strokes, a)
		}
	}
	return frame
}

// Compact drops the dead history before the most recent boundary. The result
// renders identically to the input.
func Compact(l Log) Log {
	b := boundaryIndex(l)
	if b <= 0 {
		return l
	}
	out := make(Log, len(l)-b)
	copy(out, l[b:])
	return out
}
