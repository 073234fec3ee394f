package runeterm

// CursorShape selects the terminal's visual cursor rendering.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Cursor tracks the host's desired cursor position, shape and visibility.
// It is not used by Renderer.ComputeDiff itself (which only positions the
// cursor transiently while emitting runs), and Screen does not hold one: a
// host keeps its own and passes its fields to Screen.BufferCursor.
type Cursor struct {
	Row, Col int
	Shape    CursorShape
	Visible  bool
}

// DefaultCursor returns a visible block cursor at the origin.
func DefaultCursor() Cursor {
	return Cursor{Shape: CursorBlock, Visible: true}
}
