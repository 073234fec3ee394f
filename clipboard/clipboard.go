// Package clipboard builds the OSC 52 escape sequence used to push text
// into the host terminal's clipboard. It never shells out to an OS utility
// (pbcopy, xclip, PowerShell): that integration lives outside this module,
// written by whatever host embeds runeterm.
package clipboard

import (
	"github.com/aymanbagabas/go-osc52/v2"
)

// Selection picks which X11-style selection buffer a Write targets.
// Terminals that don't distinguish selections treat Primary the same as
// Clipboard.
type Selection int

const (
	Clipboard Selection = iota
	Primary
)

// Wrapping tells WriteSequence whether the OSC 52 payload needs to be
// wrapped for a multiplexer passthrough, since tmux/screen otherwise
// swallow the raw escape sequence before it reaches the real terminal.
type Wrapping int

const (
	NoWrap Wrapping = iota
	WrapTmux
	WrapScreen
)

// WriteSequence returns the escape sequence a host should write to stdout
// to place text on the terminal clipboard. It performs no I/O itself.
func WriteSequence(text string, sel Selection, wrap Wrapping) string {
	seq := osc52.New(text)
	if sel == Primary {
		seq = seq.Primary()
	} else {
		seq = seq.Clipboard()
	}
	switch wrap {
	case WrapTmux:
		seq = seq.Tmux()
	case WrapScreen:
		seq = seq.Screen()
	}
	return seq.String()
}
