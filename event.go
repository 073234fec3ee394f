package runeterm

// KeyKind distinguishes a Kitty-protocol press/repeat/release. It is only
// meaningful when Kitty event-type reporting is enabled; otherwise every
// key event is reported with KeyPress.
type KeyKind uint8

const (
	KeyPress KeyKind = iota
	KeyRepeat
	KeyRelease
)

// KeyCode identifies a key: either a named key or a Unicode scalar. Named
// keys occupy the low range; KeyChar is the escape hatch for everything
// else, with the scalar stored in Modifiers-free Key.Rune.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyShift
	KeyControl
	KeyAlt
	KeyMeta
	KeyCapsLock
	KeyNumLock
	KeyScrollLock
	KeyChar // a single Unicode scalar; see Key.Rune
)

// Modifiers is the four-boolean modifier set spec.md §3 requires.
type Modifiers struct {
	Shift, Ctrl, Alt, Meta bool
}

// Any reports whether at least one modifier is set.
func (m Modifiers) Any() bool { return m.Shift || m.Ctrl || m.Alt || m.Meta }

// MouseKind enumerates the distinct mouse interactions the decoder
// produces.
type MouseKind uint8

const (
	MouseDown MouseKind = iota
	MouseUp
	MouseDrag
	MouseMove
	MouseScroll
)

// MouseButton enumerates the physical/virtual buttons a Mouse event can
// report.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// EventKind tags the variant carried by Event.
type EventKind uint8

const (
	EventKey EventKind = iota
	EventMouse
	EventPaste
	EventFocus
	EventClipboard
	EventResize
	EventUnknown
)

// KeyEvent is the Key{} variant payload.
type KeyEvent struct {
	Code      KeyCode
	Rune      rune // valid when Code == KeyChar
	Modifiers Modifiers
	Kind      KeyKind // only meaningful when Kitty event reporting is active
	Repeat    bool
	Raw       []byte
}

// MouseEvent is the Mouse{} variant payload. X, Y are 1-based.
type MouseEvent struct {
	Kind      MouseKind
	Button    MouseButton
	X, Y      int
	Modifiers Modifiers
	Raw       []byte
}

// PasteEvent is the Paste{} variant payload.
type PasteEvent struct {
	Content string
}

// FocusEvent is the Focus{} variant payload.
type FocusEvent struct {
	Gained bool
}

// ClipboardEvent is the Clipboard{} variant payload, produced by decoding
// an OSC 52 report from the terminal.
type ClipboardEvent struct {
	Content string
}

// ResizeEvent is the Resize{} variant payload.
type ResizeEvent struct {
	Rows, Cols int
}

// Event is the tagged union spec.md §3 describes. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Event struct {
	Kind      EventKind
	Key       KeyEvent
	Mouse     MouseEvent
	Paste     PasteEvent
	Focus     FocusEvent
	Clipboard ClipboardEvent
	Resize    ResizeEvent
	Unknown   []byte // only set when Kind == EventUnknown (Options.Debug)
}
