package runeterm

import (
	"bytes"

	"github.com/mattn/go-runewidth"
)

// ansiState tracks what the terminal currently shows during a frame: the
// last-emitted (attr, fg, bg) triple, plus whether any non-default
// background has been set yet this frame (used to decide when a "49"
// background reset is required).
type ansiState struct {
	attr      Attr
	fg, bg    Color
	hasSetBg  bool
	cursorRow int
	cursorCol int
	positioned bool
}

// FlushStats reports how much work the last ComputeDiff call did, so a host
// (or a test) can assert "idle frame emits nothing" without string-matching
// escape output.
type FlushStats struct {
	DirtyRows   int
	ChangedRows int
}

// Renderer owns a front/back pair of Grids and computes the minimal escape
// stream to reconcile them. Renderer is not re-entrant.
type Renderer struct {
	front *Grid
	back  *Grid
	cache *colorCache
	buf   bytes.Buffer
	stats FlushStats
}

// NewRenderer creates a renderer with rows x cols front and back grids.
func NewRenderer(rows, cols int) *Renderer {
	return &Renderer{
		front: NewGrid(rows, cols),
		back:  NewGrid(rows, cols),
		cache: newColorCache(),
	}
}

// Back returns the back buffer for the host to draw into.
func (r *Renderer) Back() *Grid { return r.back }

// Front returns the front buffer (what's believed to be on screen).
func (r *Renderer) Front() *Grid { return r.front }

// Resize reallocates both buffers; contents are not preserved, matching
// Grid.Resize, and both buffers are marked fully dirty.
func (r *Renderer) Resize(rows, cols int) {
	r.front.Resize(rows, cols)
	r.back.Resize(rows, cols)
}

// Stats returns statistics from the most recent ComputeDiff call.
func (r *Renderer) Stats() FlushStats { return r.stats }

// ComputeDiff produces the escape sequence reconciling front with back,
// updates front to match back for every covered cell, and clears dirty
// flags. See spec.md §4.C for the normative algorithm this implements.
func (r *Renderer) ComputeDiff() []byte {
	r.buf.Reset()
	state := ansiState{fg: DefaultColor, bg: DefaultColor, cursorRow: -1, cursorCol: -1}

	dirtyRows, changedRows := 0, 0
	rows, cols := r.back.Size()

	for row := 0; row < rows; row++ {
		if !r.back.RowDirty(row) {
			continue
		}
		dirtyRows++
		rowChanged := r.emitRow(row, cols, &state)
		if rowChanged {
			changedRows++
		}
	}

	r.back.ClearDirtyFlags()
	r.stats = FlushStats{DirtyRows: dirtyRows, ChangedRows: changedRows}

	if r.buf.Len() == 0 {
		return nil
	}

	r.buf.WriteString(seqResetAttrs)

	out := make([]byte, r.buf.Len()+len(seqSyncBegin)+len(seqSyncEnd))
	n := copy(out, seqSyncBegin)
	n += copy(out[n:], r.buf.Bytes())
	copy(out[n:], seqSyncEnd)
	return out
}

// emitRow walks one dirty row left-to-right, grouping cells into style runs
// and emitting only the runs that actually changed.
func (r *Renderer) emitRow(row, cols int, state *ansiState) bool {
	changed := false
	col := 0
	for col < cols {
		runStart := col
		style := r.back.Get(row, col)
		col++
		for col < cols && r.back.Get(row, col).SameStyle(style) {
			col++
		}
		runEnd := col // [runStart, runEnd)

		if r.runDiffers(row, runStart, runEnd) {
			r.emitRun(row, runStart, runEnd, style, state)
			changed = true
		}
	}
	return changed
}

// runDiffers reports whether any cell in [lo, hi) of row differs between
// back and front.
func (r *Renderer) runDiffers(row, lo, hi int) bool {
	for c := lo; c < hi; c++ {
		if r.back.Get(row, c) != r.front.Get(row, c) {
			return true
		}
	}
	return false
}

func (r *Renderer) emitRun(row, lo, hi int, style Cell, state *ansiState) {
	if !state.positioned || state.cursorRow != row || state.cursorCol != lo {
		r.buf.WriteString(MoveTo(row+1, lo+1))
	}

	attr := style.AttrBits()
	fg := style.FG()
	bg := style.BG()
	attrChanged := attr != state.attr
	colorChanged := fg != state.fg || bg != state.bg

	switch {
	case attrChanged && !colorChanged:
		r.buf.WriteString(AttrSequence(attr))
	case colorChanged && !attrChanged:
		needsBg49 := bg.IsDefault() && state.hasSetBg && !state.bg.IsDefault()
		r.buf.WriteString(r.cache.colorDelta(fg, bg, needsBg49))
	case attrChanged && colorChanged:
		r.buf.WriteString(BuildSequence(attr, fg, bg))
	}

	wide := false
	for c := lo; c < hi; c++ {
		cell := r.back.Get(row, c)
		ch := cell.Char()
		r.buf.WriteRune(ch)
		r.front.SetCell(row, c, cell)
		if runewidth.RuneWidth(ch) == 2 {
			wide = true
		}
	}

	state.attr = attr
	state.fg = fg
	state.bg = bg
	if !bg.IsDefault() {
		state.hasSetBg = true
	}
	if wide {
		// A double-width rune advances the physical cursor one column
		// further than our one-cell-per-column logical model accounts
		// for; rather than track grapheme width, force an explicit
		// reposition before the next run.
		state.positioned = false
	} else {
		state.cursorRow = row
		state.cursorCol = hi
		state.positioned = true
	}
}
