// Package usage renders the synopsis and option listing of a script schema.
package usage

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-wordwrap"

	shellscript "github.com/paulrentschler/pwrentch.shellscript"
)

// DefaultWidth is the line width used when Options.Width is zero.
const DefaultWidth = 78

const warranty = "This software comes with ABSOLUTELY NO WARRANTY. Use at your own risk!"

var (
	// TagStyle styles option tags in the listing.
	TagStyle = lipgloss.NewStyle().Bold(true)
	// HeadingStyle styles the "Usage:" and "Options:" headings.
	HeadingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Options configures Render.
type Options struct {
	Width            int
	SuppressWarranty bool
}

// Entry is one line of the option listing.
type Entry struct {
	Tag         string // e.g. "--server <host>"
	Description string
}

// Render writes the usage text for a script named name.
func Render(w io.Writer, name, description string, schema *shellscript.Schema, opts Options) error {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	entries := Entries(schema)
	indent := 0
	for _, e := range entries {
		if n := len(e.Tag); n > indent {
			indent = n
		}
	}
	// two spaces before the tag and two between the tag and its description
	indent += 4
	descWidth := width - indent
	if descWidth < 10 {
		descWidth = 10
	}

	var b strings.Builder
	rule := strings.Repeat("-", width+1)

	b.WriteString(rule + "\n")
	for _, line := range wrap(description, width) {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	synopsis := name
	if len(entries) > 0 {
		synopsis += " [options]"
	}
	fmt.Fprintf(&b, "%s %s\n", HeadingStyle.Render("Usage:"), synopsis)

	if len(entries) > 0 {
		b.WriteString(HeadingStyle.Render("Options:") + "\n")
		for _, e := range entries {
			lines := wrap(e.Description, descWidth)
			pad := strings.Repeat(" ", indent-len(e.Tag)-2)
			fmt.Fprintf(&b, "  %s%s%s\n", TagStyle.Render(e.Tag), pad, lines[0])
			for _, line := range lines[1:] {
				fmt.Fprintf(&b, "%s%s\n", strings.Repeat(" ", indent), line)
			}
		}
	}

	if !opts.SuppressWarranty {
		b.WriteString("\n" + warranty + "\n")
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Entries returns one (tag, description) pair per command-line tag, in schema order.
// When an option has both tags, the long tag is described as "same as -x".
func Entries(schema *shellscript.Schema) []Entry {
	var entries []Entry
	for _, opt := range schema.Options() {
		short := Tag(opt, "-", opt.Short)
		long := Tag(opt, "--", opt.Long)
		switch {
		case short != "" && long != "":
			entries = append(entries,
				Entry{Tag: short, Description: opt.Description},
				Entry{Tag: long, Description: "same as -" + opt.Short})
		case short != "":
			entries = append(entries, Entry{Tag: short, Description: opt.Description})
		case long != "":
			entries = append(entries, Entry{Tag: long, Description: opt.Description})
		}
	}
	return entries
}

// Tag formats one tag of opt, e.g. "--server <host>". Empty names yield "".
func Tag(opt shellscript.Option, dashes, name string) string {
	if name == "" {
		return ""
	}
	tag := dashes + name
	if opt.Kind == shellscript.KindValue {
		placeholder := opt.Placeholder
		if placeholder == "" {
			placeholder = "value"
		}
		tag += " <" + placeholder + ">"
	}
	return tag
}

func wrap(text string, width int) []string {
	if text == "" {
		return []string{""}
	}
	return strings.Split(wordwrap.WrapString(text, uint(width)), "\n")
}
