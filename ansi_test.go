package runeterm

import "testing"

func TestAttrSequence(t *testing.T) {
	if got := AttrSequence(0); got != "\x1b[0m" {
		t.Errorf("AttrSequence(0) = %q, want reset-only", got)
	}
	got := AttrSequence(AttrBold | AttrUnderline)
	want := "\x1b[0;1;4m"
	if got != want {
		t.Errorf("AttrSequence(Bold|Underline) = %q, want %q", got, want)
	}
}

func TestMoveTo(t *testing.T) {
	if got := MoveTo(1, 1); got != "\x1b[1;1H" {
		t.Errorf("MoveTo(1,1) = %q", got)
	}
	if got := MoveTo(24, 80); got != "\x1b[24;80H" {
		t.Errorf("MoveTo(24,80) = %q", got)
	}
}

func TestMoveDirZeroOrNegative(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		if got := MoveUp(n); got != "" {
			t.Errorf("MoveUp(%d) = %q, want empty", n, got)
		}
	}
	if got := MoveDown(3); got != "\x1b[3B" {
		t.Errorf("MoveDown(3) = %q", got)
	}
	if got := MoveLeft(5); got != "\x1b[5D" {
		t.Errorf("MoveLeft(5) = %q", got)
	}
	if got := MoveRight(2); got != "\x1b[2C" {
		t.Errorf("MoveRight(2) = %q", got)
	}
}

func TestColorSequence(t *testing.T) {
	if got := ColorSequence(DefaultColor, false); got != "" {
		t.Errorf("ColorSequence(default) = %q, want empty", got)
	}
	if got := ColorSequence(Palette(5), false); got != "\x1b[38;5;5m" {
		t.Errorf("ColorSequence(palette 5, fg) = %q", got)
	}
	if got := ColorSequence(Palette(5), true); got != "\x1b[48;5;5m" {
		t.Errorf("ColorSequence(palette 5, bg) = %q", got)
	}
}

func TestBuildSequenceAllDefault(t *testing.T) {
	if got := BuildSequence(0, DefaultColor, DefaultColor); got != "\x1b[0m" {
		t.Errorf("BuildSequence(all default) = %q, want full reset", got)
	}
}

func TestBuildSequenceCombines(t *testing.T) {
	got := BuildSequence(AttrBold, Palette(1), DefaultColor)
	want := "\x1b[0;1;38;5;1m"
	if got != want {
		t.Errorf("BuildSequence = %q, want %q", got, want)
	}
}

func TestKittyPushPop(t *testing.T) {
	if got := kittyPush(3); got != "\x1b[>3u" {
		t.Errorf("kittyPush(3) = %q", got)
	}
	if got := kittyPop(); got != "\x1b[<u" {
		t.Errorf("kittyPop() = %q", got)
	}
}
