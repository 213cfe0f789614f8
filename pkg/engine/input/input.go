package input

import (
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// DecodeKeys splits a chunk read from a raw-mode terminal into key codes.
// Arrow keys arrive as CSI (ESC [) or SS3 (ESC O) sequences; a lone ESC is
// the escape key. Unknown sequences are discarded.
func DecodeKeys(buf []byte) []string {
	var codes []string
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == 0x1b {
			if i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
				if code := arrowCode(buf[i+2]); code != "" {
					codes = append(codes, code)
				} else if buf[i+2] == '2' && i+4 < len(buf) && buf[i+3] == '4' && buf[i+4] == '~' {
					codes = append(codes, "f12")
					i += 2
				}
				i += 2
				continue
			}
			codes = append(codes, "escape")
			continue
		}
		if code := byteCode(b); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

func arrowCode(b byte) string {
	switch b {
	case 'A':
		return "arrow_up"
	case 'B':
		return "arrow_down"
	case 'C':
		return "arrow_right"
	case 'D':
		return "arrow_left"
	}
	return ""
}

func byteCode(b byte) string {
	switch {
	case b == 3:
		return "ctrl_c"
	case b == '\r' || b == '\n':
		return "enter"
	case b == ' ':
		return "space"
	case b >= 'A' && b <= 'Z':
		return string(rune(b - 'A' + 'a'))
	case b > ' ' && b < 127:
		return string(rune(b))
	}
	return ""
}

// KeyReader reads keys from a raw-mode terminal on its own goroutine.
type KeyReader struct {
	in       *os.File
	oldState *term.State
	events   chan RawInput
	done     chan struct{}
}

// NewKeyReader puts in into raw mode and starts reading. Close restores it.
func NewKeyReader(in *os.File) (*KeyReader, error) {
	oldState, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot set terminal to raw mode")
	}
	r := &KeyReader{
		in:       in,
		oldState: oldState,
		events:   make(chan RawInput, 64),
		done:     make(chan struct{}),
	}
	go r.loop()
	return r, nil
}

// Events delivers one press per decoded key. The channel is closed when
// input ends.
func (r *KeyReader) Events() <-chan RawInput {
	return r.events
}

func (r *KeyReader) loop() {
	defer close(r.events)
	buf := make([]byte, 64)
	for {
		n, err := r.in.Read(buf)
		now := time.Now()
		for _, code := range DecodeKeys(buf[:n]) {
			select {
			case r.events <- RawInput{Device: DeviceTerminal, Code: code, Edge: EdgePress, Timestamp: now}:
			case <-r.done:
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				glog.Errorf("Cannot read stdin: %v", err)
			}
			return
		}
	}
}

// Close restores the terminal state.
func (r *KeyReader) Close() error {
	select {
	case <-r.done:
		return nil
	default:
		close(r.done)
	}
	return term.Restore(int(r.in.Fd()), r.oldState)
}
