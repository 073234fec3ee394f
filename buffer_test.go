package runeterm

import "testing"

func TestNewGrid(t *testing.T) {
	g := NewGrid(24, 80)
	rows, cols := g.Size()
	if rows != 24 || cols != 80 {
		t.Fatalf("Size() = %d,%d, want 24,80", rows, cols)
	}
	if !g.Get(0, 0).Equal(Empty()) {
		t.Error("fresh grid should be all empty cells")
	}
	if !g.RowDirty(0) || !g.RowDirty(23) {
		t.Error("a fresh grid should have every row dirty")
	}
}

func TestGridOutOfBounds(t *testing.T) {
	g := NewGrid(5, 5)
	if !g.Get(-1, 0).Equal(Empty()) || !g.Get(0, 100).Equal(Empty()) {
		t.Error("out-of-range Get should return the empty cell")
	}
	g.Set(-1, -1, 'x', 0, DefaultColor, DefaultColor) // must not panic
}

func TestGridSetDedupMarksDirtyOnlyOnChange(t *testing.T) {
	g := NewGrid(3, 3)
	g.ClearDirtyFlags()

	if g.RowDirty(1) {
		t.Fatal("row should start clean after ClearDirtyFlags")
	}

	g.Set(1, 1, ' ', 0, DefaultColor, DefaultColor) // identical to existing empty cell
	if g.RowDirty(1) {
		t.Error("setting a cell to its current value should not mark the row dirty")
	}

	g.Set(1, 1, 'x', 0, DefaultColor, DefaultColor)
	if !g.RowDirty(1) {
		t.Error("setting a cell to a new value should mark the row dirty")
	}
	if g.RowDirty(0) {
		t.Error("unrelated rows should stay clean")
	}
}

func TestGridClearMarksAllDirty(t *testing.T) {
	g := NewGrid(2, 2)
	g.ClearDirtyFlags()
	g.Clear()
	if !g.RowDirty(0) || !g.RowDirty(1) {
		t.Error("Clear should mark every row dirty")
	}
	if g.Get(0, 0).Char() != ' ' {
		t.Error("Clear should reset cells to the empty cell")
	}
}

func TestGridResizeDoesNotPreserveContent(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, 'A', 0, DefaultColor, DefaultColor)
	g.Resize(3, 3)

	rows, cols := g.Size()
	if rows != 3 || cols != 3 {
		t.Fatalf("Size() after Resize = %d,%d", rows, cols)
	}
	if g.Get(0, 0).Char() != ' ' {
		t.Error("Resize must not preserve prior content")
	}
	if !g.RowDirty(2) {
		t.Error("Resize should mark every row of the new grid dirty")
	}
}
