// Package output prints human-facing messages. Everything goes to the
// configured writer (stderr in practice) so stdout stays free for the
// statements the shell hook evaluates.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	success, warn, error, bold, dim lipgloss.Style
}

// Output writes styled messages to w.
type Output struct {
	w     io.Writer
	color bool
	st    styles
}

// New returns an Output. With color false all styling is dropped. The color
// profile is detected from w, since stdout is usually captured by the hook.
func New(w io.Writer, color bool) *Output {
	r := lipgloss.NewRenderer(w)
	return &Output{
		w:     w,
		color: color,
		st: styles{
			success: r.NewStyle().Foreground(lipgloss.Color("2")),
			warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
			error:   r.NewStyle().Foreground(lipgloss.Color("1")),
			bold:    r.NewStyle().Bold(true),
			dim:     r.NewStyle().Faint(true),
		},
	}
}

func (o *Output) styled(s lipgloss.Style, text string) string {
	if !o.color {
		return text
	}
	return s.Render(text)
}

func (o *Output) Success(msg string) { fmt.Fprintln(o.w, o.styled(o.st.success, msg)) }
func (o *Output) Info(msg string)    { fmt.Fprintln(o.w, msg) }
func (o *Output) Warn(msg string)    { fmt.Fprintln(o.w, o.styled(o.st.warn, msg)) }
func (o *Output) Error(msg string)   { fmt.Fprintln(o.w, o.styled(o.st.error, msg)) }

func (o *Output) Bold(s string) string { return o.styled(o.st.bold, s) }
func (o *Output) Dim(s string) string  { return o.styled(o.st.dim, s) }

// KeyValue prints an indented "key: value" line.
func (o *Output) KeyValue(key, value string) {
	fmt.Fprintf(o.w, "  %s: %s\n", o.Bold(key), value)
}

// Writer exposes the underlying writer for prompts.
func (o *Output) Writer() io.Writer {
	return o.w
}
