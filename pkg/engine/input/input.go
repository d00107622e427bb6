package input

import (
	"bufio"
	"errors"
	"io"
)

// ErrInterrupt is returned by ReadKey when the player presses Ctrl+C.
var ErrInterrupt = errors.New("interrupted")

// KeyReader decodes single key presses from a terminal in raw mode.
type KeyReader struct {
	r *bufio.Reader
}

// NewKeyReader wraps r, typically os.Stdin after the terminal was put in
// raw mode.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks for the next key and returns its binding code
// ("arrow_up", "enter", "space", "escape", "tab", "q", ...). Unknown escape
// sequences are skipped.
func (k *KeyReader) ReadKey() (string, error) {
	for {
		b, err := k.r.ReadByte()
		if err != nil {
			return "", err
		}

		switch {
		case b == 3:
			return "", ErrInterrupt
		case b == '\r' || b == '\n':
			return "enter", nil
		case b == ' ':
			return "space", nil
		case b == '\t':
			return "tab", nil
		case b == 0x1b:
			code, err := k.readEscape()
			if err != nil {
				return "", err
			}
			if code != "" {
				return code, nil
			}
		case b >= 32 && b < 127:
			return string(b), nil
		}
	}
}

// readEscape decodes what follows an ESC byte. A lone ESC (nothing
// buffered behind it) is the escape key itself.
func (k *KeyReader) readEscape() (string, error) {
	if k.r.Buffered() == 0 {
		return "escape", nil
	}
	b2, err := k.r.ReadByte()
	if err != nil {
		return "", err
	}

	// Handle both CSI sequences (ESC [) and SS3 sequences (ESC O)
	if b2 != '[' && b2 != 'O' {
		if b2 == 0x1b {
			return "escape", nil
		}
		return "", nil
	}

	b3, err := k.r.ReadByte()
	if err != nil {
		return "", err
	}
	switch b3 {
	case 'A':
		return "arrow_up", nil
	case 'B':
		return "arrow_down", nil
	case 'C':
		return "arrow_right", nil
	case 'D':
		return "arrow_left", nil
	case 'Q':
		return "f2", nil
	case '1', '2':
		// ESC [ 1 2 ~ is F2 on some terminals; drain the rest of the sequence.
		seq := []byte{b3}
		for {
			b, err := k.r.ReadByte()
			if err != nil {
				return "", err
			}
			if b == '~' {
				break
			}
			seq = append(seq, b)
		}
		if string(seq) == "12" {
			return "f2", nil
		}
	}
	return "", nil
}
