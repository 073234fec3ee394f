package runeterm

import (
	"encoding/base64"
	"unicode/utf8"
)

// parserState is the decoder's 9-state machine, per spec.md §3/§4.D.
// Grounded on the Ground/Escape/CsiEntry/CsiParam/CsiIntermediate/
// OscString state shape of regenrek-vibetunnel's AnsiParser
// (pkg/terminal/ansi_parser.go), extended with SS3/DCS/Paste.
type parserState uint8

const (
	stateIdle parserState = iota
	stateEscape
	stateCSI
	stateCSIParam
	stateCSIIntermediate
	stateSS3
	stateOSC
	stateDCS
	statePaste
)

const (
	maxParams      = 16
	maxParamValue  = 0x00FFFFFF
	maxRawBuf      = 256
	maxOSCBuf      = 10000
	maxPasteBuf    = 1 << 20
	pasteTerm      = "\x1b[201~"
)

// Options configures a Decoder.
type Options struct {
	// KittyKeyboard, when true, suppresses plain printable-byte Key events
	// in Idle state: the Kitty `u`-terminated tail is expected to deliver
	// the keystroke instead.
	KittyKeyboard bool
	// Quirks enables per-terminal compensation (control-byte remaps, the
	// physical-modifier shadow correction, ESC-b/ESC-f remapping).
	Quirks bool
	// Debug, when true, surfaces unrecognized input (a malformed ESC
	// continuation, an unknown CSI or SS3 final, an unknown tilde code, an
	// OSC other than a clipboard report, an unmapped control byte) as
	// EventUnknown instead of silently dropping it (spec.md §9 open
	// question (a); off by default).
	Debug bool
	// Terminal optionally names the detected terminal so decoder_quirks.go
	// can select a per-terminal compensation table.
	Terminal TerminalType
}

// Decoder is a byte-driven state machine that turns a raw terminal input
// stream into a queue of typed Events. Decoder is not re-entrant and owns
// its queue and parser state exclusively (spec.md §5).
type Decoder struct {
	opts  Options
	state parserState

	queue []Event

	rawSeq []byte // bytes of the sequence currently being parsed, capped at maxRawBuf

	params    [maxParams]int32
	subParams [maxParams]int32 // colon-separated sub-param, -1 if absent
	paramsLen int
	curParam  int32
	curHasVal bool
	curSub    int32
	curHasSub bool

	marker       byte // CSI private marker, one of '<' '=' '>' '?', 0 if none
	intermediate byte // single intermediate byte (0x20-0x2F); 0 if none
	subActive    bool // currently accumulating a colon sub-param

	oscBuf      []byte
	oscEscSeen  bool
	pasteBuf    []byte
	dcsEscSeen  bool

	x10Remaining int
	x10Raw       []byte

	lastMouseButton int
	modShadow       [4]bool // shift, ctrl, alt, meta

	utf8Buf  [4]byte
	utf8Len  int
	utf8Need int
}

// NewDecoder creates a Decoder with the given options.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts, lastMouseButton: -1}
}

// HasEvents reports whether Next would return an event.
func (d *Decoder) HasEvents() bool { return len(d.queue) > 0 }

// Next pops the oldest queued event. ok is false when the queue is empty.
func (d *Decoder) Next() (Event, bool) {
	if len(d.queue) == 0 {
		return Event{}, false
	}
	ev := d.queue[0]
	d.queue = d.queue[1:]
	return ev, true
}

// Clear discards the completed-event queue only; partial parser state (a
// half-parsed CSI sequence, an in-progress paste) is preserved.
func (d *Decoder) Clear() { d.queue = d.queue[:0] }

// Feed consumes an arbitrary byte chunk, enqueuing zero or more events.
// Feeding bytes one at a time or as a single chunk is observationally
// identical (spec.md §8).
func (d *Decoder) Feed(b []byte) {
	for _, c := range b {
		d.feedByte(c)
	}
}

func (d *Decoder) emit(ev Event) { d.queue = append(d.queue, ev) }

func (d *Decoder) appendRaw(b byte) {
	if len(d.rawSeq) < maxRawBuf {
		d.rawSeq = append(d.rawSeq, b)
	}
}

func (d *Decoder) takeRaw() []byte {
	out := d.rawSeq
	d.rawSeq = nil
	return out
}

func (d *Decoder) resetToIdle() {
	d.state = stateIdle
	d.paramsLen = 0
	d.curParam = 0
	d.curHasVal = false
	d.curSub = 0
	d.curHasSub = false
	d.marker = 0
	d.intermediate = 0
	d.rawSeq = nil
}

func (d *Decoder) feedByte(b byte) {
	if d.x10Remaining > 0 {
		d.feedX10(b)
		return
	}

	switch d.state {
	case stateIdle:
		d.feedIdle(b)
	case stateEscape:
		d.feedEscape(b)
	case stateCSI, stateCSIParam, stateCSIIntermediate:
		d.feedCSI(b)
	case stateSS3:
		d.feedSS3(b)
	case stateOSC:
		d.feedOSC(b)
	case stateDCS:
		d.feedDCS(b)
	case statePaste:
		d.feedPaste(b)
	}
}

func (d *Decoder) feedIdle(b byte) {
	if d.utf8Need > 0 {
		d.feedUtf8Continuation(b)
		return
	}

	switch {
	case b == 0x1B:
		d.rawSeq = nil
		d.appendRaw(b)
		d.state = stateEscape
	case b < 0x20 || b == 0x7F:
		d.rawSeq = nil
		d.appendRaw(b)
		d.emitControl(b)
		d.rawSeq = nil
	case b < 0x80:
		d.rawSeq = nil
		d.appendRaw(b)
		if d.opts.KittyKeyboard {
			// The Kitty tail delivers this keystroke with modifiers/kind.
			d.rawSeq = nil
			return
		}
		d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyChar, Rune: rune(b), Raw: d.takeRaw()}})
	default:
		d.startUtf8(b)
	}
}

func (d *Decoder) startUtf8(b byte) {
	d.rawSeq = nil
	d.appendRaw(b)
	d.utf8Buf[0] = b
	d.utf8Len = 1
	switch {
	case b&0xE0 == 0xC0:
		d.utf8Need = 1
	case b&0xF0 == 0xE0:
		d.utf8Need = 2
	case b&0xF8 == 0xF0:
		d.utf8Need = 3
	default:
		d.utf8Need = 0
		d.finishUtf8()
	}
}

func (d *Decoder) feedUtf8Continuation(b byte) {
	d.appendRaw(b)
	if d.utf8Len < 4 {
		d.utf8Buf[d.utf8Len] = b
		d.utf8Len++
	}
	d.utf8Need--
	if d.utf8Need == 0 {
		d.finishUtf8()
	}
}

func (d *Decoder) finishUtf8() {
	r, size := utf8.DecodeRune(d.utf8Buf[:d.utf8Len])
	raw := d.takeRaw()
	d.utf8Len = 0
	if r == utf8.RuneError && size <= 1 {
		return
	}
	if d.opts.KittyKeyboard {
		return
	}
	d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyChar, Rune: r, Raw: raw}})
}

// emitControl maps C0 control bytes (outside Tab/Enter/Escape/Backspace,
// which get their own named codes) to a Ctrl+letter KeyEvent.
func (d *Decoder) emitControl(b byte) {
	if d.opts.Quirks {
		if ev, ok := quirkControlByte(d.opts.Terminal, b); ok {
			d.emit(ev)
			return
		}
	}
	raw := d.takeRaw()
	switch b {
	case 0x09:
		d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyTab, Raw: raw}})
	case 0x0D:
		d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyEnter, Raw: raw}})
	case 0x7F:
		d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyBackspace, Raw: raw}})
	case 0x00:
		d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyChar, Rune: ' ', Modifiers: Modifiers{Ctrl: true}, Raw: raw}})
	default:
		if b >= 1 && b <= 26 {
			d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyChar, Rune: rune('a' + b - 1), Modifiers: Modifiers{Ctrl: true}, Raw: raw}})
			return
		}
		if b >= 28 && b <= 31 {
			d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyChar, Rune: rune('4' + b - 28), Modifiers: Modifiers{Ctrl: true}, Raw: raw}})
			return
		}
		d.maybeUnknown(raw)
	}
}

func (d *Decoder) feedEscape(b byte) {
	d.appendRaw(b)
	switch b {
	case '[':
		d.enterCSI()
	case 'O':
		d.state = stateSS3
	case 'P':
		d.state = stateDCS
		d.oscBuf = d.oscBuf[:0]
		d.dcsEscSeen = false
	case ']':
		d.state = stateOSC
		d.oscBuf = d.oscBuf[:0]
		d.oscEscSeen = false
	default:
		if b == 0x7F && quirkAltBackspace(d.opts.Terminal, d.opts.Quirks) {
			d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyBackspace, Modifiers: Modifiers{Alt: true}, Raw: d.takeRaw()}})
			d.resetToIdle()
			return
		}
		if b >= 0x20 && b <= 0x7E {
			raw := d.takeRaw()
			if d.opts.Quirks && b == 'b' {
				d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyLeft, Modifiers: Modifiers{Alt: true}, Raw: raw}})
			} else if d.opts.Quirks && b == 'f' {
				d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyRight, Modifiers: Modifiers{Alt: true}, Raw: raw}})
			} else {
				d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyChar, Rune: rune(b), Modifiers: Modifiers{Alt: true}, Raw: raw}})
			}
		} else {
			d.maybeUnknown(d.takeRaw())
		}
		d.resetToIdle()
	}
	// An ESC with nothing following it simply stays in stateEscape: no
	// event fires until more bytes arrive, satisfying the "incomplete
	// sequence yields no events" property.
}

func (d *Decoder) enterCSI() {
	d.state = stateCSI
	d.paramsLen = 0
	d.curParam = 0
	d.curHasVal = false
	d.curSub = 0
	d.curHasSub = false
	d.subActive = false
	d.marker = 0
	d.intermediate = 0
	for i := range d.subParams {
		d.subParams[i] = -1
	}
}

func (d *Decoder) pushParam() {
	if d.paramsLen >= maxParams {
		return
	}
	if d.curHasVal {
		d.params[d.paramsLen] = d.curParam
	} else {
		d.params[d.paramsLen] = -1
	}
	if d.curHasSub {
		d.subParams[d.paramsLen] = d.curSub
	} else {
		d.subParams[d.paramsLen] = -1
	}
	d.paramsLen++
	d.curParam = 0
	d.curHasVal = false
	d.curSub = 0
	d.curHasSub = false
}

func (d *Decoder) feedCSI(b byte) {
	d.appendRaw(b)

	if d.state == stateCSI && d.marker == 0 && b >= '<' && b <= '?' {
		d.marker = b
		d.state = stateCSIParam
		return
	}
	if d.state == stateCSI {
		d.state = stateCSIParam
	}

	switch {
	case b >= '0' && b <= '9':
		if d.paramsLen < maxParams {
			d.curHasVal = true
			if d.curSubActive() {
				d.curSub = d.curSub*10 + int32(b-'0')
				if d.curSub > maxParamValue {
					d.curSub = maxParamValue
				}
			} else {
				d.curParam = d.curParam*10 + int32(b-'0')
				if d.curParam > maxParamValue {
					d.curParam = maxParamValue
				}
			}
		}
	case b == ':':
		d.curHasSub = true
		d.subActive = true
	case b == ';':
		d.subActive = false
		d.pushParam()
	case b >= 0x20 && b <= 0x2F:
		d.intermediate = b
		d.state = stateCSIIntermediate
	case b >= 0x40 && b <= 0x7E:
		if d.paramsLen > 0 || d.curHasVal || d.curHasSub {
			d.pushParam()
		}
		d.dispatchCSI(b)
	default:
		d.resetToIdle()
	}
}

func (d *Decoder) curSubActive() bool { return d.subActive }

func (d *Decoder) feedDCS(b byte) {
	d.appendRaw(b)
	if d.dcsEscSeen {
		d.dcsEscSeen = false
		if b == '\\' {
			d.resetToIdle()
			return
		}
		// Not a real ST; abandon DCS and reprocess this byte as Idle.
		d.resetToIdle()
		d.feedByte(b)
		return
	}
	if b == 0x1B {
		d.dcsEscSeen = true
		return
	}
	if b == 0x07 {
		d.resetToIdle()
		return
	}
	if len(d.oscBuf) < maxOSCBuf {
		d.oscBuf = append(d.oscBuf, b)
	} else {
		d.resetToIdle()
	}
}

func (d *Decoder) maybeUnknown(raw []byte) {
	if d.opts.Debug {
		d.emit(Event{Kind: EventUnknown, Unknown: raw})
	}
}

func (d *Decoder) paramOr(idx int, def int32) int32 {
	if idx < 0 || idx >= d.paramsLen || d.params[idx] < 0 {
		return def
	}
	return d.params[idx]
}

func (d *Decoder) subParamOr(idx int, def int32) int32 {
	if idx < 0 || idx >= d.paramsLen || d.subParams[idx] < 0 {
		return def
	}
	return d.subParams[idx]
}

// decodeModifiers turns a CSI/kitty modifier parameter (1 + bitmask) into
// Modifiers. A value of 0 or 1 means "no modifiers".
func decodeModifiers(m int32) Modifiers {
	if m <= 1 {
		return Modifiers{}
	}
	bits := m - 1
	return Modifiers{
		Shift: bits&1 != 0,
		Alt:   bits&2 != 0,
		Ctrl:  bits&4 != 0,
		Meta:  bits&8 != 0,
	}
}

var tildeKeyTable = map[int32]KeyCode{
	1: KeyHome, 2: KeyInsert, 3: KeyDelete, 4: KeyEnd,
	5: KeyPageUp, 6: KeyPageDown, 7: KeyHome, 8: KeyEnd,
	11: KeyF1, 12: KeyF2, 13: KeyF3, 14: KeyF4, 15: KeyF5,
	17: KeyF6, 18: KeyF7, 19: KeyF8, 20: KeyF9, 21: KeyF10,
	23: KeyF11, 24: KeyF12,
}

var csiLetterKeyTable = map[byte]KeyCode{
	'A': KeyUp, 'B': KeyDown, 'C': KeyRight, 'D': KeyLeft,
	'H': KeyHome, 'F': KeyEnd,
	'P': KeyF1, 'Q': KeyF2, 'R': KeyF3, 'S': KeyF4,
}

func keyKindFromEventType(et int32) KeyKind {
	switch et {
	case 2:
		return KeyRepeat
	case 3:
		return KeyRelease
	default:
		return KeyPress
	}
}

func (d *Decoder) dispatchCSI(final byte) {
	d.state = stateIdle
	raw := d.takeRaw()
	marker := d.marker

	switch {
	case marker == '<' && (final == 'M' || final == 'm'):
		d.dispatchSGRMouse(final, raw)
		return
	case marker == 0 && final == 'M' && d.paramsLen == 0:
		d.x10Remaining = 3
		d.x10Raw = raw
		return
	}

	switch final {
	case '~':
		code := d.paramOr(0, 0)
		if code == 200 {
			d.state = statePaste
			d.pasteBuf = d.pasteBuf[:0]
			return
		}
		if code == 201 {
			return // bare paste terminator with no preceding 200, ignore
		}
		if kc, ok := tildeKeyTable[code]; ok {
			mods := decodeModifiers(d.paramOr(1, 1))
			et := d.subParamOr(1, d.paramOr(2, 1))
			d.emit(Event{Kind: EventKey, Key: KeyEvent{
				Code: kc, Modifiers: mods, Kind: keyKindFromEventType(et),
				Repeat: keyKindFromEventType(et) == KeyRepeat, Raw: raw,
			}})
			return
		}
		d.maybeUnknown(raw)
	case 'u':
		d.dispatchKittyU(raw)
	case 'I':
		d.emit(Event{Kind: EventFocus, Focus: FocusEvent{Gained: true}})
	case 'O':
		d.emit(Event{Kind: EventFocus, Focus: FocusEvent{Gained: false}})
	case 'Z':
		d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: KeyTab, Modifiers: Modifiers{Shift: true}, Raw: raw}})
	case 'A', 'B', 'C', 'D', 'H', 'F', 'P', 'Q', 'R', 'S':
		kc := csiLetterKeyTable[final]
		mods := decodeModifiers(d.paramOr(1, 1))
		d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: kc, Modifiers: mods, Raw: raw}})
	default:
		d.maybeUnknown(raw)
	}
}

func (d *Decoder) feedSS3(b byte) {
	d.appendRaw(b)
	raw := d.takeRaw()
	d.state = stateIdle
	if kc, ok := csiLetterKeyTable[b]; ok {
		d.emit(Event{Kind: EventKey, Key: KeyEvent{Code: kc, Raw: raw}})
		return
	}
	d.maybeUnknown(raw)
}

func (d *Decoder) feedOSC(b byte) {
	d.appendRaw(b)
	if d.oscEscSeen {
		d.oscEscSeen = false
		if b == '\\' {
			d.finishOSC()
			return
		}
		d.finishOSC()
		d.feedByte(b)
		return
	}
	switch {
	case b == 0x07:
		d.finishOSC()
	case b == 0x1B:
		d.oscEscSeen = true
	default:
		if len(d.oscBuf) < maxOSCBuf {
			d.oscBuf = append(d.oscBuf, b)
		} else {
			d.resetToIdle()
		}
	}
}

func (d *Decoder) finishOSC() {
	raw := d.takeRaw()
	d.state = stateIdle
	payload := d.oscBuf
	d.oscBuf = nil

	// "52;c;<base64>" is the clipboard report this decoder understands.
	semi := indexByte(payload, ';')
	if semi < 0 || string(payload[:semi]) != "52" {
		d.maybeUnknown(raw)
		return
	}
	rest := payload[semi+1:]
	semi2 := indexByte(rest, ';')
	if semi2 < 0 {
		d.maybeUnknown(raw)
		return
	}
	data, ok := decodeBase64(rest[semi2+1:])
	if !ok {
		d.maybeUnknown(raw)
		return
	}
	d.emit(Event{Kind: EventClipboard, Clipboard: ClipboardEvent{Content: string(data)}})
}

func (d *Decoder) feedPaste(b byte) {
	if len(d.pasteBuf) < maxPasteBuf {
		d.pasteBuf = append(d.pasteBuf, b)
	} else {
		// Pathological paste: abandon rather than grow unboundedly.
		d.pasteBuf = nil
		d.state = stateIdle
		return
	}
	n := len(d.pasteBuf)
	tl := len(pasteTerm)
	if n >= tl && string(d.pasteBuf[n-tl:]) == pasteTerm {
		content := string(d.pasteBuf[:n-tl])
		d.pasteBuf = nil
		d.state = stateIdle
		d.emit(Event{Kind: EventPaste, Paste: PasteEvent{Content: content}})
	}
}

func (d *Decoder) feedX10(b byte) {
	d.x10Raw = append(d.x10Raw, b)
	d.x10Remaining--
	if d.x10Remaining > 0 {
		return
	}
	n := len(d.x10Raw)
	btnByte := d.x10Raw[n-3]
	x := int(d.x10Raw[n-2]) - 32
	y := int(d.x10Raw[n-1]) - 32
	d.dispatchX10Mouse(btnByte, x, y, d.x10Raw)
	d.x10Raw = nil
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

// decodeBase64 decodes an OSC 52 payload. go-osc52 only builds the write
// sequence; the terminal->app report direction needs a decoder, which the
// pack has no library for, so this uses the standard library.
func decodeBase64(b []byte) ([]byte, bool) {
	if len(b) == 1 && b[0] == '?' {
		return nil, false
	}
	out, err := base64.StdEncoding.DecodeString(string(b))
	if err != nil {
		return nil, false
	}
	return out, true
}

