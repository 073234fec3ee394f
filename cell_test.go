package runeterm

import "testing"

func TestColor(t *testing.T) {
	t.Run("DefaultColor", func(t *testing.T) {
		if !DefaultColor.IsDefault() {
			t.Error("DefaultColor should report IsDefault")
		}
	})

	t.Run("Palette round-trip", func(t *testing.T) {
		for _, p := range []uint8{0, 1, 15, 128, 255} {
			c := Palette(p)
			got, ok := c.IsPalette()
			if !ok {
				t.Fatalf("Palette(%d).IsPalette() = false", p)
			}
			if got != p {
				t.Errorf("Palette(%d) round-tripped to %d", p, got)
			}
			if c.IsDefault() {
				t.Errorf("Palette(%d) should not be default", p)
			}
		}
	})

	t.Run("Truecolor round-trip loses low bits", func(t *testing.T) {
		tests := []struct{ r, g, b uint8 }{
			{0, 0, 0},
			{255, 255, 255},
			{255, 0, 0},
			{8, 252, 8},
		}
		for _, tt := range tests {
			c := Truecolor(tt.r, tt.g, tt.b)
			r, g, b, ok := c.IsTruecolor()
			if !ok {
				t.Fatalf("Truecolor(%d,%d,%d).IsTruecolor() = false", tt.r, tt.g, tt.b)
			}
			// 5/6/5 packing is lossy; a round trip must stay within one
			// quantization step of the channel's resolution.
			if absDiff(r, tt.r) > 8 || absDiff(g, tt.g) > 4 || absDiff(b, tt.b) > 8 {
				t.Errorf("Truecolor(%d,%d,%d) round-tripped to (%d,%d,%d)", tt.r, tt.g, tt.b, r, g, b)
			}
		}
	})

	t.Run("HexColor", func(t *testing.T) {
		c := HexColor("#ff0000")
		r, g, b, ok := c.IsTruecolor()
		if !ok || r < 248 || g > 8 || b > 8 {
			t.Errorf("HexColor(#ff0000) = (%d,%d,%d,%v), want roughly red", r, g, b, ok)
		}
		if !HexColor("not a color").IsDefault() {
			t.Error("invalid hex should fall back to default")
		}
	})
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestAttr(t *testing.T) {
	a := AttrBold | AttrUnderline
	if !a.Has(AttrBold) || !a.Has(AttrUnderline) {
		t.Fatal("Has should report set bits")
	}
	if a.Has(AttrItalic) {
		t.Fatal("Has should not report unset bits")
	}
}

func TestCellPack(t *testing.T) {
	c := Pack('€', AttrBold|AttrReverse, Palette(4), Truecolor(10, 20, 30))

	if c.Char() != '€' {
		t.Errorf("Char() = %q, want €", c.Char())
	}
	if c.AttrBits() != AttrBold|AttrReverse {
		t.Errorf("AttrBits() = %v, want Bold|Reverse", c.AttrBits())
	}
	if p, ok := c.FG().IsPalette(); !ok || p != 4 {
		t.Errorf("FG() = %v, want palette 4", c.FG())
	}
	if _, ok := c.BG().IsTruecolor(); !ok {
		t.Errorf("BG() should be truecolor")
	}
}

func TestCellEqualAndSameStyle(t *testing.T) {
	a := Pack('x', AttrBold, Palette(1), DefaultColor)
	b := Pack('x', AttrBold, Palette(1), DefaultColor)
	c := Pack('y', AttrBold, Palette(1), DefaultColor)

	if !a.Equal(b) {
		t.Error("identical cells should be Equal")
	}
	if a.Equal(c) {
		t.Error("cells with different runes should not be Equal")
	}
	if !a.SameStyle(c) {
		t.Error("cells differing only in rune should be SameStyle")
	}
}

func TestClearRange(t *testing.T) {
	buf := make([]Cell, 10)
	for i := range buf {
		buf[i] = Pack('x', AttrBold, DefaultColor, DefaultColor)
	}
	ClearRange(buf, 2, 5)
	for i, c := range buf {
		isEmpty := c.Equal(Empty())
		wantEmpty := i >= 2 && i < 5
		if isEmpty != wantEmpty {
			t.Errorf("cell %d: empty=%v, want %v", i, isEmpty, wantEmpty)
		}
	}
}
