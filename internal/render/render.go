// Package render turns decoded header chains into diagnostic text, one
// line per header in wire order.
package render

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"firestige.xyz/overwatch/internal/core"
)

const (
	frameSeparator = "=====|"
	encapSeparator = "-----|"
	hexPrefix      = "-----| "
	hexContinue    = "     | "
)

// Renderer writes rendered frames to an output stream.
type Renderer struct {
	w     io.Writer
	style Style
	hex   bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyle sets the line style. The default is Plain.
func WithStyle(st Style) Option {
	return func(r *Renderer) { r.style = st }
}

// WithHex appends a hex dump of each frame.
func WithHex(enabled bool) Option {
	return func(r *Renderer) { r.hex = enabled }
}

// New creates a renderer writing to w.
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, style: Plain}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Separator writes the frame separator line.
func (r *Renderer) Separator() error {
	_, err := fmt.Fprintln(r.w, r.style.Dim(frameSeparator))
	return err
}

// Frame writes the header lines of one frame, the optional hex dump and a
// trailing separator.
func (r *Renderer) Frame(chain *core.Chain, frame []byte) error {
	lines := r.Lines(chain, frame)
	if r.hex {
		lines = append(lines, r.style.Dim(hexDump(frame)))
	}
	lines = append(lines, r.style.Dim(frameSeparator))

	_, err := io.WriteString(r.w, strings.Join(lines, "\n")+"\n")
	return err
}

// Lines renders the valid headers of chain. Offsets into frame are
// recomputed from the length fields of the headers as the chain is walked.
func (r *Renderer) Lines(chain *core.Chain, frame []byte) []string {
	w := &walker{st: r.style, frame: frame}
	w.walk(chain)
	return w.lines
}

func hexDump(frame []byte) string {
	dump := strings.TrimRight(hex.Dump(frame), "\n")
	return hexPrefix + strings.ReplaceAll(dump, "\n", "\n"+hexContinue)
}

func itoa(v int) string { return strconv.Itoa(v) }
