package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22D3EE"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// Console writes the user-facing lines of a command. Diagnostics go through
// slog instead.
type Console struct {
	out   io.Writer
	err   io.Writer
	plain bool
}

func NewConsole(out, err io.Writer, plain bool) *Console {
	return &Console{out: out, err: err, plain: plain}
}

func (c *Console) render(style lipgloss.Style, s string) string {
	if c.plain {
		return s
	}
	return style.Render(s)
}

func (c *Console) Println(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) Info(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(infoStyle, "Info: "+fmt.Sprintf(format, args...)))
}

func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(warnStyle, "Warning: "+fmt.Sprintf(format, args...)))
}

func (c *Console) Success(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(successStyle, "✓ "+fmt.Sprintf(format, args...)))
}

func (c *Console) Error(format string, args ...any) {
	fmt.Fprintln(c.err, c.render(errorStyle, "Error: "+fmt.Sprintf(format, args...)))
}

func (c *Console) Muted(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(mutedStyle, fmt.Sprintf(format, args...)))
}

// Mapped reports one registered or discovered route.
func (c *Console) Mapped(method, path string) {
	fmt.Fprintln(c.out, c.render(successStyle, fmt.Sprintf("    ✓ Mapped [%s] %s", method, path)))
}

// Notice is a highlighted line without a prefix.
func (c *Console) Notice(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(warnStyle, fmt.Sprintf(format, args...)))
}
