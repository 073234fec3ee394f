// Command runeterm-demo exercises the render, decode and capability layers
// together: it draws a small animated grid, echoes decoded key/mouse/paste
// events to a status line, detects the terminal through the capability
// controller before touching raw mode, and enables mouse reporting through
// it once raw mode is on.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kungfusheep/runeterm"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

var mouse = flag.Bool("mouse", true, "enable SGR mouse reporting if the terminal supports it")

func main() {
	flag.Parse()

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "runeterm-demo: stdout is not a terminal")
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	screen, err := runeterm.NewScreen(os.Stdout, fd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "runeterm-demo:", err)
		os.Exit(1)
	}

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		cols, rows = 80, 24
	}

	ctrl := runeterm.NewController(os.Getenv)
	decoder := runeterm.NewDecoder(runeterm.Options{
		Terminal: ctrl.Terminal(),
		Quirks:   true,
	})

	if err := screen.EnterRawMode(); err != nil {
		fmt.Fprintln(os.Stderr, "runeterm-demo:", err)
		os.Exit(1)
	}
	defer screen.ExitRawMode()

	if *mouse {
		if seq, err := ctrl.Enable(runeterm.FeatureMouse, false); err == nil {
			fmt.Fprint(os.Stdout, seq)
			defer fmt.Fprint(os.Stdout, ctrl.Disable(runeterm.FeatureMouse))
		}
	}

	resized := screen.WatchResize()
	defer screen.StopResize()

	input := make(chan []byte, 64)
	go readLoop(os.Stdin, input)

	status := fmt.Sprintf("terminal=%s (%dx%d)  mouse-level=%d  q to quit", ctrl.Terminal(), cols, rows, ctrl.Supports(runeterm.FeatureMouse))
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	frame := 0
	running := true
	for running {
		select {
		case b := <-input:
			decoder.Feed(b)
			for decoder.HasEvents() {
				ev, _ := decoder.Next()
				if quit, s := handleEvent(ev); quit {
					running = false
				} else if s != "" {
					status = s
				}
			}
		case sz := <-resized:
			status = fmt.Sprintf("resized to %dx%d", sz.Cols, sz.Rows)
		case <-tick.C:
			frame++
		}

		drawFrame(screen.Renderer(), frame, status)
		screen.Flush()
	}
}

func readLoop(r *os.File, out chan<- []byte) {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- chunk
		}
		if err != nil {
			close(out)
			return
		}
	}
}

// handleEvent reports whether the demo should quit, and a status line to
// show for the event (empty to leave the status line unchanged).
func handleEvent(ev runeterm.Event) (quit bool, status string) {
	switch ev.Kind {
	case runeterm.EventKey:
		k := ev.Key
		if k.Code == runeterm.KeyChar && (k.Rune == 'q' || k.Rune == 'Q') {
			return true, ""
		}
		if k.Code == runeterm.KeyEscape {
			return true, ""
		}
		if k.Code == runeterm.KeyChar {
			return false, fmt.Sprintf("key: %q mods=%+v", k.Rune, k.Modifiers)
		}
		return false, fmt.Sprintf("key: code=%d mods=%+v", k.Code, k.Modifiers)
	case runeterm.EventMouse:
		m := ev.Mouse
		return false, fmt.Sprintf("mouse: button=%d kind=%d at (%d,%d)", m.Button, m.Kind, m.X, m.Y)
	case runeterm.EventPaste:
		return false, fmt.Sprintf("paste: %d bytes", len(ev.Paste.Content))
	case runeterm.EventFocus:
		return false, fmt.Sprintf("focus gained=%v", ev.Focus.Gained)
	}
	return false, ""
}

var palette = []runeterm.Color{
	runeterm.Palette(1), runeterm.Palette(2), runeterm.Palette(3),
	runeterm.Palette(4), runeterm.Palette(5), runeterm.Palette(6),
}

func drawFrame(r *runeterm.Renderer, frame int, status string) {
	back := r.Back()
	rows, cols := back.Size()
	back.Clear()

	for c := 0; c < cols; c++ {
		color := palette[(c+frame)%len(palette)]
		ch := rune('~')
		if (c+frame/4)%7 == 0 {
			ch = '*'
		}
		back.Set(0, c, ch, 0, color, runeterm.DefaultColor)
	}

	title := "runeterm-demo"
	for i, ch := range title {
		if i >= cols {
			break
		}
		back.Set(1, i, ch, runeterm.AttrBold, runeterm.DefaultColor, runeterm.DefaultColor)
	}

	if rows > 2 {
		for i, ch := range status {
			if i >= cols {
				break
			}
			back.Set(rows-1, i, ch, 0, runeterm.DefaultColor, runeterm.DefaultColor)
		}
	}
}
