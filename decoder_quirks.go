package runeterm

// Per-terminal compensation. Most terminals agree on the xterm encodings
// decoder.go implements directly; this file holds the handful of
// documented departures, keyed by the TerminalType the capability
// controller already detects (capability.go) so a host only has to
// configure Options.Terminal once.

// quirkControlByte lets a terminal remap a raw C0 control byte before the
// generic table in emitControl runs. Returns ok=false to fall through.
func quirkControlByte(term TerminalType, b byte) (Event, bool) {
	switch term {
	case TerminalLinuxConsole:
		if b == 0x08 {
			// The Linux virtual console's erase character is ^H, but it is
			// the Backspace key, not Ctrl+H.
			return Event{Kind: EventKey, Key: KeyEvent{Code: KeyBackspace}}, true
		}
	}
	return Event{}, false
}

// quirkAltBackspace reports whether ESC followed by DEL should be read as
// Alt+Backspace. iTerm2 and several other terminals send this for
// Option+Backspace / Meta+Backspace instead of a CSI sequence.
func quirkAltBackspace(term TerminalType, quirks bool) bool {
	if !quirks {
		return false
	}
	switch term {
	case TerminalITerm, TerminalXtermLike, TerminalUnknown:
		return true
	}
	return false
}
