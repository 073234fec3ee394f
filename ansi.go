package runeterm

import "strconv"

// attrLUT[a] holds the full "ESC [ 0 ; codes... m" sequence for attribute
// bitmap a, precomputed once at init so building a run's style delta never
// allocates beyond what the caller's bytes.Buffer already owns.
var attrLUT [256]string

func init() {
	codes := map[Attr]string{
		AttrBold:          "1",
		AttrDim:           "2",
		AttrItalic:        "3",
		AttrUnderline:     "4",
		AttrReverse:       "7",
		AttrStrikethrough: "9",
	}
	order := []Attr{AttrBold, AttrDim, AttrItalic, AttrUnderline, AttrReverse, AttrStrikethrough}
	for a := 0; a < 256; a++ {
		seq := "\x1b[0"
		for _, bit := range order {
			if Attr(a).Has(bit) {
				seq += ";" + codes[bit]
			}
		}
		seq += "m"
		attrLUT[a] = seq
	}
}

// AttrSequence returns the precomputed escape sequence resetting to, then
// applying, attribute bitmap a.
func AttrSequence(a Attr) string { return attrLUT[a] }

// MoveTo returns the 1-based cursor-move escape sequence for (row, col).
func MoveTo(row, col int) string {
	return "\x1b[" + itoa(row) + ";" + itoa(col) + "H"
}

// MoveUp/MoveDown/MoveLeft/MoveRight return the relative cursor-move escape
// for n cells, or the empty string when n <= 0.
func MoveUp(n int) string    { return moveDir(n, 'A') }
func MoveDown(n int) string  { return moveDir(n, 'B') }
func MoveRight(n int) string { return moveDir(n, 'C') }
func MoveLeft(n int) string  { return moveDir(n, 'D') }

func moveDir(n int, final byte) string {
	if n <= 0 {
		return ""
	}
	return "\x1b[" + itoa(n) + string(final)
}

// ColorSequence returns the SGR color-only escape for c, as foreground
// (isBg=false) or background (isBg=true). Returns "" for the default color
// (callers handle the "49"/"39" reset separately, see colorDelta) and for
// any value that decodes to neither palette nor truecolor.
func ColorSequence(c Color, isBg bool) string {
	base := "38"
	if isBg {
		base = "48"
	}
	if idx, ok := c.IsPalette(); ok {
		return "\x1b[" + base + ";5;" + itoa(int(idx)) + "m"
	}
	if r, g, b, ok := c.IsTruecolor(); ok {
		return "\x1b[" + base + ";2;" + itoa(int(r)) + ";" + itoa(int(g)) + ";" + itoa(int(b)) + "m"
	}
	return ""
}

// BuildSequence returns the full "ESC [ ... m" sequence combining attr, fg
// and bg. If attr is zero and both colors are default, it returns the
// explicit full-reset sequence "ESC [ 0 m" rather than "" — callers that
// want to skip emitting anything check for "no change" themselves; this
// function always yields a complete, self-sufficient sequence.
func BuildSequence(attr Attr, fg, bg Color) string {
	seq := "\x1b[0"
	if attr.Has(AttrBold) {
		seq += ";1"
	}
	if attr.Has(AttrDim) {
		seq += ";2"
	}
	if attr.Has(AttrItalic) {
		seq += ";3"
	}
	if attr.Has(AttrUnderline) {
		seq += ";4"
	}
	if attr.Has(AttrReverse) {
		seq += ";7"
	}
	if attr.Has(AttrStrikethrough) {
		seq += ";9"
	}
	if idx, ok := fg.IsPalette(); ok {
		seq += ";38;5;" + itoa(int(idx))
	} else if r, g, b, ok := fg.IsTruecolor(); ok {
		seq += ";38;2;" + itoa(int(r)) + ";" + itoa(int(g)) + ";" + itoa(int(b))
	}
	if idx, ok := bg.IsPalette(); ok {
		seq += ";48;5;" + itoa(int(idx))
	} else if r, g, b, ok := bg.IsTruecolor(); ok {
		seq += ";48;2;" + itoa(int(r)) + ";" + itoa(int(g)) + ";" + itoa(int(b))
	}
	seq += "m"
	return seq
}

const (
	seqResetAttrs    = "\x1b[0m"
	seqBgReset       = "49"
	seqHideCursor    = "\x1b[?25l"
	seqShowCursor    = "\x1b[?25h"
	seqClearScreen   = "\x1b[2J"
	seqSyncBegin     = "\x1b[?2026h"
	seqSyncEnd       = "\x1b[?2026l"
	seqMouseSGROn    = "\x1b[?1006h"
	seqMouseSGROff   = "\x1b[?1006l"
	seqMouseTrackOn  = "\x1b[?1000h"
	seqMouseTrackOff = "\x1b[?1000l"
	seqMouseAnyOn    = "\x1b[?1003h"
	seqMouseAnyOff   = "\x1b[?1003l"
	seqPasteOn       = "\x1b[?2004h"
	seqPasteOff      = "\x1b[?2004l"
	seqFocusOn       = "\x1b[?1004h"
	seqFocusOff      = "\x1b[?1004l"
	seqAltScreenOn   = "\x1b[?1049h"
	seqAltScreenOff  = "\x1b[?1049l"
)

func kittyPush(flags int) string { return "\x1b[>" + itoa(flags) + "u" }
func kittyPop() string           { return "\x1b[<u" }

func itoa(n int) string { return strconv.Itoa(n) }
