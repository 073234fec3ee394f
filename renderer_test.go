package runeterm

import (
	"bytes"
	"testing"
)

func TestComputeDiffIdleFrameIsEmpty(t *testing.T) {
	r := NewRenderer(5, 10)
	// First flush draws the (empty) initial frame.
	r.ComputeDiff()

	out := r.ComputeDiff()
	if out != nil {
		t.Errorf("second ComputeDiff with no mutation = %q, want nil", out)
	}
	stats := r.Stats()
	if stats.DirtyRows != 0 {
		t.Errorf("idle frame DirtyRows = %d, want 0", stats.DirtyRows)
	}
}

func TestComputeDiffDrawsChangedCell(t *testing.T) {
	r := NewRenderer(3, 3)
	r.ComputeDiff() // settle initial frame

	r.Back().Set(1, 1, 'X', AttrBold, Palette(2), DefaultColor)
	out := r.ComputeDiff()
	if out == nil {
		t.Fatal("expected non-nil output after a cell changed")
	}
	if !bytes.Contains(out, []byte("X")) {
		t.Errorf("output %q should contain the drawn rune", out)
	}
	if r.Stats().ChangedRows != 1 {
		t.Errorf("ChangedRows = %d, want 1", r.Stats().ChangedRows)
	}

	// Front should now match back: flushing again with no new mutation is
	// idle again.
	if out := r.ComputeDiff(); out != nil {
		t.Errorf("ComputeDiff after settling = %q, want nil", out)
	}
}

func TestComputeDiffWrapsSyncMarkers(t *testing.T) {
	r := NewRenderer(2, 2)
	r.ComputeDiff()
	r.Back().Set(0, 0, 'A', 0, DefaultColor, DefaultColor)

	out := r.ComputeDiff()
	if !bytes.HasPrefix(out, []byte(seqSyncBegin)) {
		t.Errorf("output should start with sync-begin, got %q", out)
	}
	if !bytes.HasSuffix(out, []byte(seqSyncEnd)) {
		t.Errorf("output should end with sync-end, got %q", out)
	}
}

func TestComputeDiffRunsAdjacentSameStyleCells(t *testing.T) {
	r := NewRenderer(1, 5)
	r.ComputeDiff()

	for c := 0; c < 5; c++ {
		r.Back().Set(0, c, rune('a'+c), AttrBold, Palette(1), DefaultColor)
	}
	out := r.ComputeDiff()

	// A single shared style across the whole row should only need one
	// style-setting escape sequence, not five.
	if n := bytes.Count(out, []byte("38;5;1")); n != 1 {
		t.Errorf("expected exactly one color escape for the run, got %d in %q", n, out)
	}
}

func TestRendererResizeMarksFullyDirty(t *testing.T) {
	r := NewRenderer(2, 2)
	r.ComputeDiff()
	r.Resize(4, 4)

	rows, cols := r.Back().Size()
	if rows != 4 || cols != 4 {
		t.Fatalf("Back().Size() after Resize = %d,%d", rows, cols)
	}

	// Front and back are both freshly empty post-resize, so a diff with no
	// new drawing is legitimately empty even though every row is flagged.
	if out := r.ComputeDiff(); out != nil {
		t.Errorf("ComputeDiff immediately after Resize with no redraw = %q, want nil", out)
	}

	r.Back().Set(3, 3, 'Z', 0, DefaultColor, DefaultColor)
	if out := r.ComputeDiff(); out == nil {
		t.Error("ComputeDiff after drawing into the resized grid should not be empty")
	}
}
