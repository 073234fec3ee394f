package runeterm

import (
	"fmt"
	"strings"
	"time"

	"github.com/xo/terminfo"
)

// TerminalType identifies the terminal emulator/multiplexer family a
// Controller detected. Detection is best-effort and only ever downgrades
// feature support; it never turns a capability a terminal lacks into one
// the decoder/renderer will attempt to use.
type TerminalType int

const (
	TerminalUnknown TerminalType = iota
	TerminalXtermLike
	TerminalITerm
	TerminalKitty
	TerminalGhostty
	TerminalAlacritty
	TerminalWezTerm
	TerminalAppleTerminal
	TerminalVSCode
	TerminalLinuxConsole
	TerminalTmux
	TerminalSSH
)

func (t TerminalType) String() string {
	switch t {
	case TerminalXtermLike:
		return "xterm-like"
	case TerminalITerm:
		return "iterm"
	case TerminalKitty:
		return "kitty"
	case TerminalGhostty:
		return "ghostty"
	case TerminalAlacritty:
		return "alacritty"
	case TerminalWezTerm:
		return "wezterm"
	case TerminalAppleTerminal:
		return "apple-terminal"
	case TerminalVSCode:
		return "vscode"
	case TerminalLinuxConsole:
		return "linux-console"
	case TerminalTmux:
		return "tmux"
	case TerminalSSH:
		return "ssh"
	default:
		return "unknown"
	}
}

// Feature enumerates the protocol extensions the capability controller
// tracks.
type Feature uint8

const (
	FeatureMouse Feature = iota
	FeatureKitty
	FeaturePaste
	FeatureFocus
	FeatureClipboard
)

// FeatureLevel is how well a terminal is believed to support a Feature.
type FeatureLevel uint8

const (
	FeatureNone FeatureLevel = iota
	FeaturePartial
	FeatureFull
)

type capabilityRow struct {
	mouse, kitty, paste, focus, clipboard FeatureLevel
}

func (r capabilityRow) get(f Feature) FeatureLevel {
	switch f {
	case FeatureMouse:
		return r.mouse
	case FeatureKitty:
		return r.kitty
	case FeaturePaste:
		return r.paste
	case FeatureFocus:
		return r.focus
	case FeatureClipboard:
		return r.clipboard
	default:
		return FeatureNone
	}
}

// capabilityMatrix is the base feature-support table per terminal type,
// for the five features this controller tracks. Tmux and SSH have no row
// of their own: resolveCaps derives them from the xterm-like row with the
// wrapper downgrades applied.
var capabilityMatrix = map[TerminalType]capabilityRow{
	TerminalXtermLike:     {FeatureFull, FeatureNone, FeatureFull, FeatureFull, FeaturePartial},
	TerminalITerm:         {FeaturePartial, FeatureNone, FeatureFull, FeatureFull, FeatureFull},
	TerminalKitty:         {FeatureFull, FeatureFull, FeatureFull, FeatureFull, FeatureFull},
	TerminalGhostty:       {FeatureFull, FeatureFull, FeatureFull, FeatureFull, FeatureFull},
	TerminalAlacritty:     {FeatureFull, FeatureNone, FeatureFull, FeatureFull, FeaturePartial},
	TerminalWezTerm:       {FeatureFull, FeatureFull, FeatureFull, FeatureFull, FeatureFull},
	TerminalAppleTerminal: {FeaturePartial, FeatureNone, FeatureNone, FeatureFull, FeatureNone},
	TerminalVSCode:        {FeatureFull, FeatureNone, FeatureFull, FeatureFull, FeaturePartial},
	TerminalLinuxConsole:  {FeaturePartial, FeatureNone, FeatureNone, FeatureNone, FeatureNone},
	TerminalUnknown:       {FeaturePartial, FeatureNone, FeaturePartial, FeaturePartial, FeatureNone},
}

// Detect identifies the terminal type from environment variables, following
// the priority order TERM_PROGRAM -> TERM substring -> Tmux -> SSH ->
// xterm/rxvt/vt TERM prefix -> Unknown. getenv is injected so tests don't
// depend on process environment.
func Detect(getenv func(string) string) TerminalType {
	if tp := getenv("TERM_PROGRAM"); tp != "" {
		switch {
		case strings.Contains(tp, "iTerm"):
			return TerminalITerm
		case strings.Contains(tp, "Apple_Terminal"):
			return TerminalAppleTerminal
		case strings.Contains(tp, "WezTerm"):
			return TerminalWezTerm
		case strings.Contains(tp, "ghostty"):
			return TerminalGhostty
		case strings.Contains(tp, "vscode"):
			return TerminalVSCode
		}
	}

	term := getenv("TERM")
	switch {
	case strings.Contains(term, "kitty"):
		return TerminalKitty
	case strings.Contains(term, "alacritty"):
		return TerminalAlacritty
	case strings.Contains(term, "linux"):
		return TerminalLinuxConsole
	}

	if getenv("TMUX") != "" || strings.Contains(term, "screen") || strings.Contains(term, "tmux") {
		return TerminalTmux
	}

	if getenv("SSH_TTY") != "" || getenv("SSH_CONNECTION") != "" {
		return TerminalSSH
	}

	if strings.HasPrefix(term, "xterm") || strings.HasPrefix(term, "rxvt") || strings.HasPrefix(term, "vt") {
		return TerminalXtermLike
	}

	return TerminalUnknown
}

// Controller tracks detected terminal capabilities and produces the
// enable/disable escape sequences for each protocol extension. Detection is
// cached at construction (and at each ClearCache call) rather than
// recomputed per lookup, since getenv/terminfo access isn't free and the
// environment a process runs in doesn't change between reads.
type Controller struct {
	getenv func(string) string

	term TerminalType
	caps capabilityRow

	kittyProbeTimeout time.Duration
}

// NewController detects the terminal via getenv and computes its feature
// matrix, applying the Tmux/SSH wrapper downgrades.
func NewController(getenv func(string) string) *Controller {
	c := &Controller{getenv: getenv, kittyProbeTimeout: 100 * time.Millisecond}
	c.ClearCache()
	return c
}

// ClearCache re-runs terminal detection and recomputes the cached feature
// matrix. A host calls this after an event that can change what the
// terminal reports (e.g. re-exec under a different TERM, or attaching to a
// tmux session mid-run) to invalidate the capability cache Supports/Enable/
// Disable read from.
func (c *Controller) ClearCache() {
	term := Detect(c.getenv)
	caps := resolveCaps(term)

	if term == TerminalUnknown {
		// A TERM the terminfo database recognizes is probably a reasonably
		// standards-compliant xterm descendant, even if it didn't match
		// any TERM_PROGRAM/TERM pattern above; un-downgrade it.
		if _, err := terminfo.Load(c.getenv("TERM")); err == nil {
			caps = capabilityMatrix[TerminalXtermLike]
		}
	}

	c.term = term
	c.caps = caps
}

func resolveCaps(term TerminalType) capabilityRow {
	switch term {
	case TerminalTmux:
		row := capabilityMatrix[TerminalXtermLike]
		row.kitty = FeatureNone
		row.focus = FeatureNone
		if row.clipboard > FeaturePartial {
			row.clipboard = FeaturePartial
		}
		return row
	case TerminalSSH:
		row := capabilityMatrix[TerminalXtermLike]
		row.focus = FeatureNone
		if row.clipboard > FeaturePartial {
			row.clipboard = FeaturePartial
		}
		return row
	default:
		if row, ok := capabilityMatrix[term]; ok {
			return row
		}
		return capabilityMatrix[TerminalUnknown]
	}
}

// Terminal returns the detected terminal type.
func (c *Controller) Terminal() TerminalType { return c.term }

// Supports reports the support level for a feature.
func (c *Controller) Supports(f Feature) FeatureLevel { return c.caps.get(f) }

// Enable returns the escape sequence that turns a feature on. If required
// is true and the terminal's support level is FeatureNone, Enable returns
// an error instead of a sequence that would silently do nothing; this is
// the capability controller's one fallible path.
func (c *Controller) Enable(f Feature, required bool) (string, error) {
	level := c.caps.get(f)
	if level == FeatureNone && required {
		return "", fmt.Errorf("runeterm: %s does not support feature %d", c.term, f)
	}
	if level == FeatureNone {
		return "", nil
	}

	switch f {
	case FeatureMouse:
		return seqMouseSGROn + seqMouseTrackOn, nil
	case FeatureKitty:
		return kittyPush(kittyFlagsDisambiguate | kittyFlagsEventTypes | kittyFlagsAllKeysAsEscape), nil
	case FeaturePaste:
		return seqPasteOn, nil
	case FeatureFocus:
		return seqFocusOn, nil
	case FeatureClipboard:
		return "", nil // clipboard needs no enable sequence; reads/writes are per-call OSC 52
	default:
		return "", nil
	}
}

// Disable returns the escape sequence that turns a feature back off.
func (c *Controller) Disable(f Feature) string {
	switch f {
	case FeatureMouse:
		return seqMouseTrackOff + seqMouseSGROff
	case FeatureKitty:
		return kittyPop()
	case FeaturePaste:
		return seqPasteOff
	case FeatureFocus:
		return seqFocusOff
	default:
		return ""
	}
}

const (
	kittyFlagsDisambiguate    = 1
	kittyFlagsEventTypes      = 2
	kittyFlagsAllKeysAsEscape = 4
)

// KittyProbeSequence is the query a host writes to ask whether the Kitty
// keyboard protocol is actually supported (as opposed to merely claimed by
// TERM/TERM_PROGRAM): the bare "ESC [ ? u" query, to which a
// Kitty-protocol terminal replies with its current flag state.
func (c *Controller) KittyProbeSequence() string {
	return "\x1b[?u"
}

// KittyProbeTimeout is how long a host should wait for a probe reply
// before concluding the terminal doesn't support the protocol.
func (c *Controller) KittyProbeTimeout() time.Duration { return c.kittyProbeTimeout }

// ParseKittyProbeResponse inspects a raw reply to KittyProbeSequence.
// Kitty-protocol terminals answer with "ESC [ ? <flags> u"; anything else
// (including no reply, which the host represents as a nil/empty slice
// after its timeout elapses) means the protocol isn't supported.
func ParseKittyProbeResponse(resp []byte) bool {
	if len(resp) < 5 {
		return false
	}
	for _, b := range resp[3 : len(resp)-1] {
		if (b < '0' || b > '9') && b != ';' {
			return false
		}
	}
	return resp[0] == 0x1B && resp[1] == '[' && resp[2] == '?' && resp[len(resp)-1] == 'u'
}
