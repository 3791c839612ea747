package cli

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/syntax"

	"github.com/brandonbloom/mkf/internal/capture"
)

var colorPlan = color.New(color.FgHiBlack).SprintFunc()

// shellLine renders argv so it can be pasted back into a shell.
func shellLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		parts[i] = shellQuote(arg)
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		// Quote refuses strings bash cannot represent, like NUL bytes.
		return strconv.Quote(s)
	}
	return q
}

// fitWidth truncates line to width display cells. Non-positive widths
// leave the line alone.
func fitWidth(line string, width int) string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return line
	}
	return runewidth.Truncate(line, width, "…")
}

func showPlan(w io.Writer, utility string, argv []string) {
	line := "mkf: exec " + shellLine(append([]string{utility}, argv...))
	io.WriteString(w, colorPlan(fitWidth(line, terminalWidth(w)))+"\n")
}

func showInputHint(w io.Writer, mode capture.Mode) {
	msg := "mkf: reading stdin until end of input (Ctrl-D)"
	if text, ok := mode.(capture.Text); ok {
		msg = "mkf: reading stdin until a line containing " + strconv.Quote(text.Marker)
	}
	io.WriteString(w, colorPlan(msg)+"\n")
}

func readerIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
