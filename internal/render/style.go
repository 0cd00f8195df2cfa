package render

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
)

// Style decorates the pieces of a rendered line.
type Style struct {
	Dim   func(string) string // labels and separators
	Layer func(string) string // layer names and protocol codes
	Value func(string) string // addresses, ports and identifiers
	Bad   func(string) string // values that disagree with what was expected
}

func plain(s string) string { return s }

// Plain renders without escape sequences.
var Plain = Style{Dim: plain, Layer: plain, Value: plain, Bad: plain}

// Color renders with ANSI colors.
func Color() Style {
	return Style{
		Dim:   ansi.ColorFunc("black+h"),
		Layer: ansi.ColorFunc("green"),
		Value: ansi.ColorFunc("blue"),
		Bad:   ansi.ColorFunc("red"),
	}
}

// StyleFor returns Color when f is a terminal or force is set, Plain otherwise.
func StyleFor(f *os.File, force bool) Style {
	if force || isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return Color()
	}
	return Plain
}
