package clipboard

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func stub(t *testing.T, write func(string) error) *bytes.Buffer {
	t.Helper()
	w, o := systemWrite, openTTY
	var tty bytes.Buffer
	systemWrite = write
	openTTY = func() (io.WriteCloser, error) { return nopCloser{&tty}, nil }
	t.Cleanup(func() { systemWrite, openTTY = w, o })
	return &tty
}

func TestWriteFallsBackToOSC52(t *testing.T) {
	tty := stub(t, func(string) error { return errors.New("no xclip") })
	m, err := Write("\x1b[31mSELECT 1;\x1b[0m")
	if err != nil || m != MethodOSC52 {
		t.Fatalf("got %v %v", m, err)
	}
	if tty.String() != OSC52("SELECT 1;") {
		t.Fatalf("payload %q", tty.String())
	}
}

func TestWriteSystem(t *testing.T) {
	var got string
	tty := stub(t, func(s string) error { got = s; return nil })
	m, err := Write("cell")
	if m == MethodSystem {
		if err != nil || got != "cell" || tty.Len() != 0 {
			t.Fatalf("system write: %v %q", err, got)
		}
		return
	}
	// no clipboard utility on this machine: the OSC52 path must have run
	if err != nil || tty.Len() == 0 {
		t.Fatalf("fallback: %v", err)
	}
}

func TestOSC52(t *testing.T) {
	if got := OSC52("hi"); got != "\x1b]52;c;aGk=\x07" {
		t.Fatalf("got %q", got)
	}
}
