package runeterm

// SGR mouse (CSI < Cb ; Cx ; Cy M/m) and X10 mouse (CSI M Cb Cx Cy) decoding.
// Grounded on the button-bit layout used across the pack's terminal
// front-ends (james4k/webtty's csi.go and bubbletea's mouse.go agree on the
// xterm encoding: bits 0-1 select the button, bit 2 is shift, bit 3 is alt,
// bit 4 is ctrl, bit 5 marks motion, bits 6-7 extend the button for wheel
// events).

const (
	mouseBitShift   = 0x04
	mouseBitAlt     = 0x08
	mouseBitCtrl    = 0x10
	mouseBitMotion  = 0x20
	mouseBitWheel   = 0x40
	mouseButtonMask = 0x03
)

func decodeMouseButtonByte(cb int32) (MouseButton, MouseKind, Modifiers) {
	mods := Modifiers{
		Shift: cb&mouseBitShift != 0,
		Alt:   cb&mouseBitAlt != 0,
		Ctrl:  cb&mouseBitCtrl != 0,
	}

	if cb&mouseBitWheel != 0 {
		switch cb & mouseButtonMask {
		case 0:
			return MouseWheelUp, MouseScroll, mods
		case 1:
			return MouseWheelDown, MouseScroll, mods
		case 2:
			return MouseWheelLeft, MouseScroll, mods
		default:
			return MouseWheelRight, MouseScroll, mods
		}
	}

	button := MouseButton(MouseNone)
	switch cb & mouseButtonMask {
	case 0:
		button = MouseLeft
	case 1:
		button = MouseMiddle
	case 2:
		button = MouseRight
	case 3:
		button = MouseNone // release marker in X10 encoding
	}

	kind := MouseDown
	if cb&mouseBitMotion != 0 {
		if button == MouseNone {
			kind = MouseMove
		} else {
			kind = MouseDrag
		}
	}
	return button, kind, mods
}

// dispatchSGRMouse handles CSI < Cb ; Cx ; Cy M (press/drag) or m (release).
func (d *Decoder) dispatchSGRMouse(final byte, raw []byte) {
	cb := d.paramOr(0, 0)
	x := int(d.paramOr(1, 1))
	y := int(d.paramOr(2, 1))

	button, kind, mods := decodeMouseButtonByte(cb)
	if final == 'm' && kind != MouseScroll {
		kind = MouseUp
	}

	d.emit(Event{Kind: EventMouse, Mouse: MouseEvent{
		Kind: kind, Button: button, X: x, Y: y, Modifiers: mods, Raw: raw,
	}})
}

// dispatchX10Mouse handles the legacy CSI M Cb Cx Cy encoding, where each of
// the three trailing bytes is offset by +32 (and clamped at 255, so
// coordinates above 223 cannot be represented).
func (d *Decoder) dispatchX10Mouse(btnByte byte, x, y int, raw []byte) {
	cb := int32(btnByte) - 32
	button, kind, mods := decodeMouseButtonByte(cb)

	if button == MouseNone && kind != MouseScroll && kind != MouseMove {
		kind = MouseUp
		if d.lastMouseButton >= 0 {
			button = MouseButton(d.lastMouseButton)
		}
	} else if kind != MouseScroll {
		d.lastMouseButton = int(button)
	}

	d.emit(Event{Kind: EventMouse, Mouse: MouseEvent{
		Kind: kind, Button: button, X: x, Y: y, Modifiers: mods, Raw: raw,
	}})
}
