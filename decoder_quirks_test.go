package runeterm

import "testing"

func TestQuirkLinuxConsoleBackspace(t *testing.T) {
	d := NewDecoder(Options{Quirks: true, Terminal: TerminalLinuxConsole})
	d.Feed([]byte{0x08})
	evs := drain(d)
	if len(evs) != 1 || evs[0].Key.Code != KeyBackspace {
		t.Fatalf("evs = %+v, want Backspace", evs)
	}
}

func TestQuirkAltBackspaceITerm(t *testing.T) {
	d := NewDecoder(Options{Quirks: true, Terminal: TerminalITerm})
	d.Feed([]byte{0x1B, 0x7F})
	evs := drain(d)
	if len(evs) != 1 || evs[0].Key.Code != KeyBackspace || !evs[0].Key.Modifiers.Alt {
		t.Fatalf("evs = %+v, want Alt+Backspace", evs)
	}
}

func TestQuirkEscBEscFWordJump(t *testing.T) {
	d := NewDecoder(Options{Quirks: true})
	d.Feed([]byte("\x1bb\x1bf"))
	evs := drain(d)
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	if evs[0].Key.Code != KeyLeft || !evs[0].Key.Modifiers.Alt {
		t.Errorf("evs[0] = %+v, want Alt+Left", evs[0])
	}
	if evs[1].Key.Code != KeyRight || !evs[1].Key.Modifiers.Alt {
		t.Errorf("evs[1] = %+v, want Alt+Right", evs[1])
	}
}

func TestKittyModifierShadow(t *testing.T) {
	d := NewDecoder(Options{KittyKeyboard: true, Quirks: true})
	// Physical Ctrl key goes down (kitty codepoint 57442 = left control)...
	d.Feed([]byte("\x1b[57442;1:1u"))
	drain(d)
	// ...then a plain 'a' keydown is reported with no modifier param.
	d.Feed([]byte("\x1b[97u"))
	evs := drain(d)
	if len(evs) != 1 || !evs[0].Key.Modifiers.Ctrl {
		t.Fatalf("evs = %+v, want shadow-corrected Ctrl+a", evs)
	}

	// Ctrl released: subsequent keys should no longer carry the shadow.
	d.Feed([]byte("\x1b[57442;1:3u"))
	drain(d)
	d.Feed([]byte("\x1b[98u"))
	evs = drain(d)
	if len(evs) != 1 || evs[0].Key.Modifiers.Ctrl {
		t.Fatalf("evs = %+v, want no Ctrl after release", evs)
	}
}
