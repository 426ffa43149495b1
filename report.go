package shellscript

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorLabel      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	fatalErrorLabel = errorLabel.Bold(true)
)

// OutputError writes "ERROR: <message>" to w and emits the message to the
// sink at level 0. The label is red, and bold red when fatal.
//
// A nil err writes nothing. When fatal is true the returned error is a
// *FatalError wrapping err, and the caller decides how to stop.
func (r *Resolver) OutputError(w io.Writer, err error, fatal bool) error {
	r.Debug(fmt.Sprintf("OutputError(%t) called", fatal), 1)
	if err == nil {
		return nil
	}

	label := errorLabel
	if fatal {
		label = fatalErrorLabel
	}
	r.Debug(err.Error(), 0)
	fmt.Fprintln(w, label.Render("ERROR:"), err.Error())

	if fatal {
		return &FatalError{Err: err}
	}
	return nil
}
