package runeterm

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// Size is a terminal size in character cells.
type Size struct {
	Rows, Cols int
}

// Screen is the thin host-glue layer: it owns the OS-facing bits a program
// needs around a Renderer (raw/inline mode, SIGWINCH, writing the computed
// diff to the terminal) without owning any diffing itself. The diff
// algorithm lives entirely in Renderer/Grid so it stays unit-testable
// without a real tty. Grounded on the teacher's Screen (screen.go), split
// so "screen" and "renderer" are no longer the same type.
type Screen struct {
	renderer *Renderer

	w  io.Writer
	fd int

	origTermios *unix.Termios
	inRawMode   bool

	inlineMode bool
	inlineRows int

	resizeCh chan Size
	sigCh    chan os.Signal

	mu sync.Mutex
}

// NewScreen creates a Screen backed by fd (typically os.Stdout's
// descriptor) sized to the terminal's current dimensions.
func NewScreen(w io.Writer, fd int) (*Screen, error) {
	size, err := getTerminalSize(fd)
	if err != nil {
		return nil, err
	}
	return &Screen{
		renderer: NewRenderer(size.Rows, size.Cols),
		w:        w,
		fd:       fd,
	}, nil
}

// Renderer exposes the underlying Renderer for the host to draw into
// (Back().SetCell(...)) and flush from.
func (s *Screen) Renderer() *Renderer { return s.renderer }

func getTerminalSize(fd int) (Size, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, fmt.Errorf("runeterm: get terminal size: %w", err)
	}
	return Size{Rows: int(ws.Row), Cols: int(ws.Col)}, nil
}

// EnterRawMode puts the terminal into raw mode and switches to the
// alternate screen, hiding the cursor and enabling bracketed paste.
func (s *Screen) EnterRawMode() error {
	if s.inRawMode {
		return nil
	}
	orig, err := unix.IoctlGetTermios(s.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("runeterm: get termios: %w", err)
	}
	raw := *orig

	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(s.fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("runeterm: set termios: %w", err)
	}

	s.origTermios = orig
	s.inRawMode = true

	io.WriteString(s.w, seqAltScreenOn+seqClearScreen+"\x1b[H"+seqHideCursor+seqPasteOn)
	return nil
}

// ExitRawMode restores the terminal to its pre-EnterRawMode state.
func (s *Screen) ExitRawMode() error {
	if !s.inRawMode {
		return nil
	}
	io.WriteString(s.w, seqPasteOff+seqShowCursor+seqAltScreenOff)

	if err := unix.IoctlSetTermios(s.fd, ioctlSetTermios, s.origTermios); err != nil {
		return fmt.Errorf("runeterm: restore termios: %w", err)
	}
	s.inRawMode = false
	s.origTermios = nil
	return nil
}

// EnterInlineMode reserves the next `rows` lines of the existing scrollback
// by writing newlines and moving the cursor back up, and records inline
// mode so ExitInlineMode can release them. Flush has no inline path:
// ComputeDiff positions every run with absolute MoveTo, so frames are still
// drawn from the top-left of the visible screen, not inside the reserved
// lines.
func (s *Screen) EnterInlineMode(rows int) {
	s.inlineMode = true
	s.inlineRows = rows
	for i := 0; i < rows; i++ {
		io.WriteString(s.w, "\n")
	}
	io.WriteString(s.w, MoveUp(rows))
}

// ExitInlineMode leaves inline mode. If clear is true, the lines the
// renderer used are erased; otherwise the cursor is left just past them.
func (s *Screen) ExitInlineMode(clear bool) {
	if !s.inlineMode {
		return
	}
	if clear {
		io.WriteString(s.w, MoveTo(1, 1))
		for i := 0; i < s.inlineRows; i++ {
			io.WriteString(s.w, "\x1b[2K")
			if i < s.inlineRows-1 {
				io.WriteString(s.w, MoveDown(1))
			}
		}
		io.WriteString(s.w, MoveTo(1, 1))
	} else {
		io.WriteString(s.w, MoveDown(s.inlineRows))
	}
	s.inlineMode = false
	s.inlineRows = 0
}

// WatchResize starts a SIGWINCH handler that resizes the renderer and
// delivers the new Size on the returned channel (capacity 1; a pending
// resize is replaced by a newer one rather than blocking the signal
// handler). Stop with StopResize.
func (s *Screen) WatchResize() <-chan Size {
	s.resizeCh = make(chan Size, 1)
	s.sigCh = make(chan os.Signal, 1)
	signal.Notify(s.sigCh, syscall.SIGWINCH)

	go func() {
		for range s.sigCh {
			size, err := getTerminalSize(s.fd)
			if err != nil {
				continue
			}
			s.mu.Lock()
			s.renderer.Resize(size.Rows, size.Cols)
			s.mu.Unlock()

			select {
			case s.resizeCh <- size:
			default:
				select {
				case <-s.resizeCh:
				default:
				}
				s.resizeCh <- size
			}
		}
	}()
	return s.resizeCh
}

// StopResize stops the SIGWINCH handler started by WatchResize.
func (s *Screen) StopResize() {
	if s.sigCh != nil {
		signal.Stop(s.sigCh)
		close(s.sigCh)
		s.sigCh = nil
	}
}

// Flush computes the diff and writes it to the screen's writer in a single
// Write call. It returns the number of bytes written.
func (s *Screen) Flush() (int, error) {
	s.mu.Lock()
	out := s.renderer.ComputeDiff()
	s.mu.Unlock()
	if len(out) == 0 {
		return 0, nil
	}
	return s.w.Write(out)
}

// FlushFull forces a full redraw: every cell is marked dirty first, so
// ComputeDiff emits the whole back buffer rather than just what changed.
func (s *Screen) FlushFull() (int, error) {
	s.mu.Lock()
	s.renderer.Back().MarkAllDirty()
	// A word0 with bits 21-23 set is never produced by Pack, so every front
	// cell differs from its back cell and every run is re-emitted.
	front := s.renderer.Front()
	rows, cols := front.Size()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			front.SetCell(r, c, Cell{word0: ^uint32(0)})
		}
	}
	out := s.renderer.ComputeDiff()
	s.mu.Unlock()
	if len(out) == 0 {
		return 0, nil
	}
	return s.w.Write(out)
}

// Stats reports the most recent Flush/FlushFull's dirty/changed row counts.
func (s *Screen) Stats() FlushStats { return s.renderer.Stats() }

// Clear clears both grids and erases the physical screen.
func (s *Screen) Clear() {
	s.mu.Lock()
	s.renderer.Back().Clear()
	s.renderer.Front().Clear()
	s.mu.Unlock()
	io.WriteString(s.w, seqClearScreen+"\x1b[H")
}

// BufferCursor writes the cursor position (0-based row/col), visibility and
// shape sequence to the screen's writer immediately; it is not held back
// and merged into the next Flush. Writing it after every Flush keeps the
// cursor pinned to where the host's content model thinks it should be
// rather than wherever the last emitted run happened to leave it.
func (s *Screen) BufferCursor(row, col int, visible bool, shape CursorShape) (int, error) {
	seq := MoveTo(row+1, col+1)
	if visible {
		seq += seqShowCursor
	} else {
		seq += seqHideCursor
	}
	seq += cursorShapeSequence(shape)
	return s.w.Write([]byte(seq))
}

func cursorShapeSequence(shape CursorShape) string {
	switch shape {
	case CursorBlock:
		return "\x1b[2 q"
	case CursorUnderline:
		return "\x1b[4 q"
	case CursorBar:
		return "\x1b[6 q"
	default:
		return "\x1b[0 q"
	}
}
