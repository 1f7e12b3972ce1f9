package render

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Printer writes renderings and line diffs, colored when enabled.
type Printer struct {
	w       io.Writer
	added   *color.Color
	removed *color.Color
	heading *color.Color
}

// NewPrinter returns a Printer for w. Color is on only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	return NewPrinterColor(w, isTerminal(w))
}

// NewPrinterColor is NewPrinter with color forced on or off.
func NewPrinterColor(w io.Writer, enabled bool) *Printer {
	p := &Printer{
		w:       w,
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		heading: color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.added, p.removed, p.heading} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Heading writes a bold title line.
func (p *Printer) Heading(title string) {
	p.heading.Fprintln(p.w, title)
}

// Lines writes each line as is.
func (p *Printer) Lines(lines []string) {
	for _, line := range lines {
		io.WriteString(p.w, line+"\n")
	}
}

// Diff writes a line diff from before to after. Unchanged lines are
// prefixed with two spaces, removed ones with "- " and added ones with "+ ".
func (p *Printer) Diff(before, after []string) {
	for _, d := range LineDiff(before, after) {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			p.added.Fprintln(p.w, "+ "+d.Text)
		case diffmatchpatch.DiffDelete:
			p.removed.Fprintln(p.w, "- "+d.Text)
		default:
			io.WriteString(p.w, "  "+d.Text+"\n")
		}
	}
}

// LineDiff compares two renderings line by line. Each returned diff holds
// exactly one line without its trailing newline.
func LineDiff(before, after []string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(joinLines(before), joinLines(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var out []diffmatchpatch.Diff
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, diffmatchpatch.Diff{Type: d.Type, Text: strings.TrimSuffix(line, "\n")})
		}
	}
	return out
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
