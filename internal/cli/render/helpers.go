package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Styler paints text when color output is enabled. Color objects are
// toggled per call so output does not depend on the global color.NoColor.
type Styler struct {
	Enabled bool
}

func (s Styler) paint(text string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if s.Enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

// Bold emphasizes text
func (s Styler) Bold(text string) string {
	return s.paint(text, color.Bold)
}

// Dim de-emphasizes text
func (s Styler) Dim(text string) string {
	return s.paint(text, color.Faint)
}

// Green paints text green
func (s Styler) Green(text string) string {
	return s.paint(text, color.FgGreen)
}

// Red paints text red
func (s Styler) Red(text string) string {
	return s.paint(text, color.FgRed)
}

// Yellow paints text yellow
func (s Styler) Yellow(text string) string {
	return s.paint(text, color.FgYellow)
}

// Cyan paints text cyan
func (s Styler) Cyan(text string) string {
	return s.paint(text, color.FgCyan)
}

// Banner renders the " >  NX   title" heading
func (s Styler) Banner(title string) string {
	return fmt.Sprintf(" %s  %s   %s", s.Cyan(">"), s.paint(" NX ", color.ReverseVideo, color.Bold, color.FgCyan), s.Bold(title))
}

// ErrorBanner renders a heading for failures
func (s Styler) ErrorBanner(title string) string {
	return fmt.Sprintf(" %s  %s   %s", s.Red(">"), s.paint(" NX ", color.ReverseVideo, color.Bold, color.FgRed), s.Bold(title))
}

// writeBody indents every line of body by three spaces
func writeBody(w io.Writer, lines ...string) {
	for _, line := range lines {
		if line == "" {
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintf(w, "   %s\n", line)
	}
}

// FormatError formats an error message the way the CLI prints failures
func FormatError(s Styler, err error) string {
	msg := err.Error()
	title, rest, _ := strings.Cut(msg, "\n")
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.ErrorBanner(capitalize(title)))
	b.WriteString("\n")
	if rest != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(rest, "\n") {
			b.WriteString("   " + line + "\n")
		}
	}
	return b.String()
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(s Styler, message string) string {
	return s.Yellow("⚠️  " + message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(s Styler, message string) string {
	return s.Green("✔ " + message)
}

func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
