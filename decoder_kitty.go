package runeterm

// Kitty keyboard protocol: CSI unicode[:shifted[:base]] ; modifiers[:event_type] ; text u
// Grounded on the progressive-enhancement flag semantics described across
// the pack's terminal front-ends; the wire shape matches kitty's own
// keyboard-protocol spec (CSI ... u), which none of the pack libraries
// implement directly, so this is written from the protocol definition.

// kittyModifierKeyCodes maps the bare modifier keys' own kitty codepoints
// (kitty's private-use-area "functional key" numbers) to the bit they track
// in the physical-modifier shadow. A terminal that reports Right Alt's own
// keydown still carries these codepoints, letting us track modifier state
// independent of what the modifier field on other keys claims.
var kittyModifierKeyCodes = map[int32]int{
	57441: 0, 57447: 0, // left/right shift
	57442: 1, 57448: 1, // left/right control
	57443: 2, 57449: 2, // left/right alt
	57444: 3, 57446: 3, 57450: 3, 57452: 3, // left/right super and meta
}

func (d *Decoder) applyShadow(m Modifiers) Modifiers {
	if d.modShadow[0] {
		m.Shift = true
	}
	if d.modShadow[1] {
		m.Ctrl = true
	}
	if d.modShadow[2] {
		m.Alt = true
	}
	if d.modShadow[3] {
		m.Meta = true
	}
	return m
}

// dispatchKittyU handles the CSI ... u final byte.
func (d *Decoder) dispatchKittyU(raw []byte) {
	codepoint := d.paramOr(0, 0)
	modParam := d.paramOr(1, 1)
	eventType := d.subParamOr(1, d.paramOr(2, 1))

	kind := keyKindFromEventType(eventType)
	mods := decodeModifiers(modParam)

	if bit, ok := kittyModifierKeyCodes[codepoint]; ok {
		d.modShadow[bit] = kind != KeyRelease
	}

	if d.opts.Quirks {
		mods = d.applyShadow(mods)
	}

	code, r := kittyCodepointToKey(codepoint)
	d.emit(Event{Kind: EventKey, Key: KeyEvent{
		Code: code, Rune: r, Modifiers: mods, Kind: kind,
		Repeat: kind == KeyRepeat, Raw: raw,
	}})
}

// kittyCodepointToKey maps a kitty-reported codepoint to a KeyCode. Most
// codepoints are plain Unicode scalars (KeyChar); functional keys use
// kitty's standard CSI-u legacy-compatible codepoints in the 0-31/127 range
// plus named keys the terminal maps to ordinary ASCII equivalents.
func kittyCodepointToKey(cp int32) (KeyCode, rune) {
	switch cp {
	case 13:
		return KeyEnter, 0
	case 9:
		return KeyTab, 0
	case 27:
		return KeyEscape, 0
	case 127:
		return KeyBackspace, 0
	}
	if _, ok := kittyModifierKeyCodes[cp]; ok {
		return KeyNone, 0
	}
	return KeyChar, rune(cp)
}
