// Package clipboard writes to the system clipboard, falling back to the
// OSC52 terminal escape when no clipboard utility is available.
package clipboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/atotto/clipboard"

	"tablesense/internal/util/logx"
)

// Method tells how a Write reached the clipboard.
type Method string

const (
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
)

var (
	// overridable in tests
	systemWrite = clipboard.WriteAll
	systemRead  = clipboard.ReadAll
	openTTY     = func() (io.WriteCloser, error) { return os.OpenFile("/dev/tty", os.O_WRONLY, 0) }
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

// StripANSI removes colour escapes so highlighted text copies as plain text.
func StripANSI(s string) string { return ansiRE.ReplaceAllString(s, "") }

// Write copies s, trying the system clipboard first.
func Write(s string) (Method, error) {
	s = StripANSI(s)
	if !clipboard.Unsupported {
		err := systemWrite(s)
		if err == nil {
			return MethodSystem, nil
		}
		logx.Debugf("clipboard: system write failed: %v", err)
	}
	if err := writeOSC52(s); err != nil {
		return "", fmt.Errorf("clipboard: %w", err)
	}
	return MethodOSC52, nil
}

// Read returns the system clipboard contents. OSC52 cannot be read back.
func Read() (string, error) {
	if clipboard.Unsupported {
		return "", errors.New("clipboard: no clipboard utility available")
	}
	return systemRead()
}

// OSC52 returns the escape sequence that asks the terminal to set its
// clipboard to s.
func OSC52(s string) string {
	return fmt.Sprintf("\x1b]52;c;%s\x07", base64.StdEncoding.EncodeToString([]byte(s)))
}

func writeOSC52(s string) error {
	payload := OSC52(s)
	// write to the tty to avoid clobbering the app's stdout buffer
	if f, err := openTTY(); err == nil {
		defer f.Close()
		_, err = io.WriteString(f, payload)
		return err
	}
	_, err := fmt.Fprint(os.Stdout, payload)
	return err
}
