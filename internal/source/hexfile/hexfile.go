// Package hexfile loads frames from a text file of hex encoded frames.
//
// Each frame is a group of lines of hex digits. Whitespace inside a line is
// ignored and a blank line ends the group. Every line of a group must hold
// an even number of digits.
package hexfile

import (
	"bufio"
	"encoding/hex"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"firestige.xyz/overwatch/internal/core"
)

// Source replays the frames of a hex file in file order.
type Source struct {
	frames [][]byte
	next   int
	closed bool
}

// Open parses the whole file up front. A malformed line fails the load.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open hex file %s", path)
	}
	defer f.Close()

	frames, err := Parse(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "hex file %s", path)
	}
	return &Source{frames: frames}, nil
}

// Parse splits r into frames. Runs of blank lines never produce empty frames.
func Parse(r io.Reader) ([][]byte, error) {
	var (
		frames [][]byte
		frame  []byte
		lineNo int
	)
	flush := func() {
		if len(frame) > 0 {
			frames = append(frames, frame)
			frame = nil
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := stripSpace(sc.Text())
		if line == "" {
			flush()
			continue
		}
		data, err := hex.DecodeString(line)
		if err != nil {
			return nil, errors.Wrapf(core.ErrBadHex, "line %d: %v", lineNo, err)
		}
		frame = append(frame, data...)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read line %d", lineNo+1)
	}
	flush()
	return frames, nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ReadFrame returns the next frame, or io.EOF after the last one.
func (s *Source) ReadFrame() ([]byte, error) {
	if s.closed {
		return nil, core.ErrSourceClosed
	}
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

// Len reports the number of frames loaded.
func (s *Source) Len() int { return len(s.frames) }

func (s *Source) Close() error {
	s.frames = nil
	s.closed = true
	return nil
}
