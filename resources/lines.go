package resources

import (
	"bufio"
	"io"
	"strings"
)

// LineScanner splits a decoded text stream into lines, keeping each
// line's terminator. With universal newlines, `\r\n` and a lone `\r` both
// end a line and are rewritten to `\n`. Otherwise only `\n` ends a line
// and any `\r` stays part of the text.
//
// Unlike bufio.Scanner there is no maximum line length.
type LineScanner struct {
	reader    *bufio.Reader
	universal bool
	pending   string
	eof       bool
	line      string
	readErr   error
	err       error
}

func NewLineScanner(r io.Reader, universal bool) *LineScanner {
	buffered, ok := r.(*bufio.Reader)
	if !ok {
		buffered = bufio.NewReaderSize(r, READBUF_SZ)
	}
	return &LineScanner{reader: buffered, universal: universal}
}

// Scan advances to the next line, returning false at the end of input or
// on a read error. Lines completed before a read error are still returned;
// the unterminated text in front of the error is not.
func (scanner *LineScanner) Scan() bool {
	if scanner.err != nil {
		return false
	}
	if scanner.pending == "" {
		if scanner.eof {
			scanner.err = scanner.readErr
			return false
		}
		chunk, err := scanner.reader.ReadString('\n')
		if err != nil {
			scanner.eof = true
			if err != io.EOF {
				scanner.readErr = err
			}
		}
		if chunk == "" {
			scanner.err = scanner.readErr
			return false
		}
		scanner.pending = chunk
	}

	// `pending` holds at most one `\n`, at its end.
	chunk := scanner.pending
	crIdx := -1
	if scanner.universal {
		crIdx = strings.IndexByte(chunk, '\r')
	}
	if scanner.readErr != nil && crIdx < 0 &&
		!strings.HasSuffix(chunk, "\n") {
		scanner.pending = ""
		scanner.err = scanner.readErr
		return false
	}
	switch {
	case crIdx < 0:
		scanner.line, scanner.pending = chunk, ""
	case crIdx+1 < len(chunk) && chunk[crIdx+1] == '\n':
		scanner.line = chunk[:crIdx] + "\n"
		scanner.pending = chunk[crIdx+2:]
	default:
		scanner.line = chunk[:crIdx] + "\n"
		scanner.pending = chunk[crIdx+1:]
	}
	return true
}

// Text returns the line read by the last successful Scan.
func (scanner *LineScanner) Text() string {
	return scanner.line
}

// Err returns the first non-EOF read error.
func (scanner *LineScanner) Err() error {
	return scanner.err
}
