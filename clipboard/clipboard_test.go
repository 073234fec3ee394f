package clipboard

import (
	"strings"
	"testing"
)

func TestWriteSequenceContainsBase64Payload(t *testing.T) {
	seq := WriteSequence("hello", Clipboard, NoWrap)
	if !strings.HasPrefix(seq, "\x1b]52;c;") {
		t.Fatalf("sequence %q should start with the OSC 52 clipboard header", seq)
	}
	if !strings.Contains(seq, "aGVsbG8=") { // base64("hello")
		t.Errorf("sequence %q should contain the base64-encoded payload", seq)
	}
}

func TestWriteSequencePrimarySelection(t *testing.T) {
	seq := WriteSequence("x", Primary, NoWrap)
	if !strings.Contains(seq, ";p;") {
		t.Errorf("primary-selection sequence %q should target selection 'p'", seq)
	}
}

func TestWriteSequenceTmuxWrap(t *testing.T) {
	plain := WriteSequence("x", Clipboard, NoWrap)
	wrapped := WriteSequence("x", Clipboard, WrapTmux)
	if wrapped == plain {
		t.Error("tmux-wrapped sequence should differ from the unwrapped one")
	}
	if !strings.HasPrefix(wrapped, "\x1bPtmux;") {
		t.Errorf("tmux-wrapped sequence %q should use the DCS tmux passthrough envelope", wrapped)
	}
}
