// Package capture drains an input stream into the workspace file.
//
// Two modes exist. Binary copies every byte to end of stream. Text reads
// line by line and stops at a logical EOF marker line, which is never
// written.
package capture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/natefinch/atomic"
)

// ErrInvalidText indicates text mode saw a line that is not valid UTF-8.
var ErrInvalidText = errors.New("input is not valid UTF-8 text")

// Mode selects how input is interpreted. It is either Binary or Text.
type Mode interface {
	source(r io.Reader) io.Reader
	String() string
}

// Binary copies input verbatim.
type Binary struct{}

func (Binary) source(r io.Reader) io.Reader { return r }

func (Binary) String() string { return "binary" }

// Text copies input line by line until a line equal to Marker.
type Text struct {
	Marker string
}

func (t Text) source(r io.Reader) io.Reader {
	return &lineReader{src: bufio.NewReader(r), marker: []byte(t.Marker)}
}

func (Text) String() string { return "text" }

// ModeFor returns Text when marker is set and Binary otherwise.
func ModeFor(marker *string) Mode {
	if marker == nil {
		return Binary{}
	}
	return Text{Marker: *marker}
}

// Fill writes the input read from r to path according to m and returns the
// number of bytes persisted. The data is synced to disk and renamed into
// place before Fill returns, so path never names a partial file.
func Fill(path string, r io.Reader, m Mode) (int64, error) {
	if m == nil {
		m = Binary{}
	}
	counter := &countingReader{r: m.source(r)}
	if err := atomic.WriteFile(path, counter); err != nil {
		// atomic flattens the cause; prefer the read error when there is one.
		if counter.err != nil {
			err = counter.err
		}
		return counter.n, fmt.Errorf("capture %s input: %w", m, err)
	}
	return counter.n, nil
}

// countingReader tallies bytes and remembers the first read failure.
type countingReader struct {
	r   io.Reader
	n   int64
	err error
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if err != nil && !errors.Is(err, io.EOF) && c.err == nil {
		c.err = err
	}
	return n, err
}

// lineReader yields the lines of src up to, but excluding, the marker line.
type lineReader struct {
	src     *bufio.Reader
	marker  []byte
	pending []byte
	line    int
	done    bool
}

func (l *lineReader) Read(p []byte) (int, error) {
	for len(l.pending) == 0 {
		if l.done {
			return 0, io.EOF
		}
		if err := l.next(); err != nil {
			return 0, err
		}
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}

func (l *lineReader) next() error {
	line, err := l.src.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if errors.Is(err, io.EOF) {
		l.done = true
	}
	if len(line) == 0 {
		return nil
	}
	l.line++
	if bytes.Equal(bytes.TrimSuffix(line, []byte{'\n'}), l.marker) {
		l.done = true
		return nil
	}
	if !utf8.Valid(line) {
		return fmt.Errorf("line %d: %w", l.line, ErrInvalidText)
	}
	l.pending = line
	return nil
}
