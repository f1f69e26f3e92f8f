package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Banner is printed when the CLI starts in verbose mode
const Banner = `
  ╔═══════════════════════════════════╗
  ║  hypedump · listing mp3 extractor ║
  ╚═══════════════════════════════════╝
`

// Terminal writes coloured status lines. Colour is only used when the output
// is a terminal and it has not been disabled.
type Terminal struct {
	out   io.Writer
	color bool
}

// NewTerminal creates a Terminal writing to out
func NewTerminal(out io.Writer, noColor bool) *Terminal {
	return &Terminal{
		out:   out,
		color: !noColor && isTerminal(out),
	}
}

// isTerminal reports whether w is a file attached to a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) paint(code, text string) string {
	if !t.color {
		return text
	}
	return fmt.Sprintf("\033[%sm%s\033[0m", code, text)
}

func (t *Terminal) Cyan(text string) string    { return t.paint("36", text) }
func (t *Terminal) Yellow(text string) string  { return t.paint("33", text) }
func (t *Terminal) Red(text string) string     { return t.paint("31", text) }
func (t *Terminal) Green(text string) string   { return t.paint("32", text) }
func (t *Terminal) Magenta(text string) string { return t.paint("35", text) }

// PrintBanner prints the banner
func (t *Terminal) PrintBanner() {
	fmt.Fprint(t.out, t.Cyan(Banner))
}

// PrintError prints an error message in red
func (t *Terminal) PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(t.out, t.Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(t.out, t.Red(msg))
	}
}

// PrintSuccess prints a success message in green
func (t *Terminal) PrintSuccess(msg string) {
	fmt.Fprintln(t.out, t.Green(msg))
}

// PrintInfo prints a label and value
func (t *Terminal) PrintInfo(label string, value string) {
	fmt.Fprintf(t.out, "%s: %s\n", t.Cyan(label), t.Yellow(value))
}

// PrintHighlight prints a highlighted message in magenta
func (t *Terminal) PrintHighlight(msg string) {
	fmt.Fprintln(t.out, t.Magenta(msg))
}
